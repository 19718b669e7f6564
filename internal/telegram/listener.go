package telegram

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Update is a partial Telegram Update object, just enough for commands.
type Update struct {
	UpdateID int `json:"update_id"`
	Message  struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		From struct {
			Username string `json:"username"`
		} `json:"from"`
	} `json:"message"`
}

type updateResponse struct {
	Ok          bool     `json:"ok"`
	Result      []Update `json:"result"`
	Description string   `json:"description"`
	ErrorCode   int      `json:"error_code"`
}

// CommandHandler processes one bot command and returns the reply text.
type CommandHandler func(command string) string

// StartListener long-polls getUpdates and dispatches commands from the
// authorized chat to the handler. It blocks, so run it in a goroutine.
func StartListener(handler CommandHandler) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	authChatIDStr := os.Getenv("TELEGRAM_CHAT_ID")

	if token == "" || authChatIDStr == "" {
		log.Println("Telegram Listener: Credentials missing, disabled.")
		return
	}

	authChatID, _ := strconv.ParseInt(authChatIDStr, 10, 64)
	offset := 0

	log.Println("Telegram Listener: Started")

	for {
		url := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?offset=%d&timeout=60", token, offset)
		resp, err := http.Get(url)
		if err != nil {
			log.Printf("Telegram Listener Error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		var result updateResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			log.Printf("Telegram Decode Error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		if !result.Ok {
			log.Printf("Telegram API Error: %s (Code: %d)", result.Description, result.ErrorCode)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, update := range result.Result {
			offset = update.UpdateID + 1

			// Silently drop anything outside the authorized chat.
			if update.Message.Chat.ID != authChatID {
				log.Printf("⚠️ Unauthorized access attempt: user %s (ID: %d) tried: %s",
					update.Message.From.Username, update.Message.Chat.ID, update.Message.Text)
				continue
			}

			text := strings.TrimSpace(update.Message.Text)
			if strings.HasPrefix(text, "/") {
				log.Printf("Command received: %s", text)
				if reply := handler(text); reply != "" {
					Notify(reply)
				}
			}
		}
	}
}
