// Package config loads the user's settings file and resolves each value with
// the precedence flag > environment > file > default.
//
// The file is JSON (~/.stagecommit.json by default) or TOML when the path
// ends in .toml.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const DefaultFileName = ".stagecommit.json"

type FileConfig struct {
	Provider string `json:"provider,omitempty" toml:"provider,omitempty"` // ollama, anthropic, openai, gemini
	BaseURL  string `json:"base_url,omitempty" toml:"base_url,omitempty"`
	Model    string `json:"model,omitempty" toml:"model,omitempty"`

	// Provider specifics
	APIKey       string `json:"api_key,omitempty" toml:"api_key,omitempty"` // OpenAI Key
	AnthropicKey string `json:"anthropic_key,omitempty" toml:"anthropic_key,omitempty"`
	GeminiKey    string `json:"gemini_key,omitempty" toml:"gemini_key,omitempty"`

	IgnoredFiles []string `json:"ignored_files,omitempty" toml:"ignored_files,omitempty"`
	AuditPath    string   `json:"audit_path,omitempty" toml:"audit_path,omitempty"`

	// Advanced Settings
	History        *bool    `json:"history,omitempty" toml:"history,omitempty"`
	HistoryCount   *int     `json:"history_count,omitempty" toml:"history_count,omitempty"`
	HistoryPatches *bool    `json:"history_patches,omitempty" toml:"history_patches,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty" toml:"temperature,omitempty"`
	MaxTokens      *int     `json:"max_tokens,omitempty" toml:"max_tokens,omitempty"`
	MaxDiffBytes   *int     `json:"max_diff_bytes,omitempty" toml:"max_diff_bytes,omitempty"`
	KeepBody       *bool    `json:"keep_body,omitempty" toml:"keep_body,omitempty"`
	// Timeout is a Go duration string such as "90s" or "10m"; "0" disables it.
	Timeout string `json:"timeout,omitempty" toml:"timeout,omitempty"`
}

// DefaultPath returns ~/.stagecommit.json, or "" when the home directory is
// unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFileName)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads the file at path. A missing file yields the zero config.
func Load(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(b), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions since it may hold keys.
func Save(cfg FileConfig, path string) error {
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return fmt.Errorf("cannot determine home directory; pass --config")
		}
	}

	var b []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		b = buf.Bytes()
	} else {
		var err error
		b, err = json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
	}

	return os.WriteFile(path, b, 0600)
}

func ResolveString(flagVal, envVal, fileVal, defVal string) string {
	if flagVal != "" {
		return flagVal
	}
	if envVal != "" {
		return envVal
	}
	if fileVal != "" {
		return fileVal
	}
	return defVal
}

func ResolveInt(flagVal int, flagSet bool, fileVal *int, defVal int) int {
	if flagSet {
		return flagVal
	}
	if fileVal != nil {
		return *fileVal
	}
	return defVal
}

func ResolveBool(flagVal bool, flagSet bool, fileVal *bool, defVal bool) bool {
	if flagSet {
		return flagVal
	}
	if fileVal != nil {
		return *fileVal
	}
	return defVal
}

func ResolveFloat(flagVal float64, flagSet bool, fileVal *float64, defVal float64) float64 {
	if flagSet {
		return flagVal
	}
	if fileVal != nil {
		return *fileVal
	}
	return defVal
}

// ResolveDuration parses the file value when the flag is unset. Bare
// integers in the file are read as seconds.
func ResolveDuration(flagVal time.Duration, flagSet bool, fileVal string, defVal time.Duration) (time.Duration, error) {
	if flagSet {
		return flagVal, nil
	}
	fileVal = strings.TrimSpace(fileVal)
	if fileVal == "" {
		return defVal, nil
	}
	if d, err := time.ParseDuration(fileVal); err == nil {
		return d, nil
	}
	var secs int
	if _, err := fmt.Sscanf(fileVal, "%d", &secs); err == nil && fmt.Sprint(secs) == fileVal {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid timeout %q: use a duration like 90s or 10m", fileVal)
}
