package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

// accountsFile mirrors the on-disk shape: a top-level "accounts" list.
type accountsFile struct {
	Accounts []models.Account `json:"accounts" yaml:"accounts"`
}

// LoadAccounts reads the ordered account list from a JSON or YAML file
// (picked by extension). Order is preserved: the global position list is the
// concatenation of per-account partitions in this order.
func LoadAccounts(path string) ([]models.Account, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f accountsFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &f)
	default:
		err = json.Unmarshal(b, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("accounts file %s: %w", path, err)
	}

	if len(f.Accounts) == 0 {
		return nil, fmt.Errorf("accounts file %s: no accounts configured", path)
	}
	for i, a := range f.Accounts {
		if a.Team == "" || a.Username == "" {
			return nil, fmt.Errorf("accounts file %s: entry %d is missing team or username", path, i)
		}
		if a.APIKey == "" || a.APISecret == "" {
			return nil, fmt.Errorf("accounts file %s: entry %d (%s/%s) is missing api credentials", path, i, a.Team, a.Username)
		}
	}
	return f.Accounts, nil
}
