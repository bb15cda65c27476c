// Package config loads the YAML configuration of the emv-kernel command.
package config

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gregLibert/emv-kernel/pkg/kernel"
	"github.com/gregLibert/emv-kernel/pkg/oda"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Reader      ReaderConfig      `yaml:"reader"`
	Keys        KeysConfig        `yaml:"keys"`
	Transaction TransactionConfig `yaml:"transaction"`
	ODA         ODAConfig         `yaml:"oda"`
	Log         LogConfig         `yaml:"log"`
}

type ReaderConfig struct {
	// Name selects the first reader whose name contains it. Index is used
	// when Name is empty.
	Name      string `yaml:"name"`
	Index     *int   `yaml:"index"`
	Interface string `yaml:"interface"`
}

type KeysConfig struct {
	CAKeysFile   string `yaml:"ca_keys_file"`
	TerminalFile string `yaml:"terminal_file"`
}

type TransactionConfig struct {
	Amount      uint64 `yaml:"amount"`
	OtherAmount uint64 `yaml:"other_amount"`
	Type        string `yaml:"type"`
}

type ODAConfig struct {
	HashPolicy string `yaml:"hash_policy"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg.resolvePaths(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Reader.Index != nil && *c.Reader.Index < 0 {
		return fmt.Errorf("config.reader.index must be >= 0")
	}
	if _, err := c.Interface(); err != nil {
		return err
	}

	if strings.TrimSpace(c.Keys.CAKeysFile) == "" {
		return fmt.Errorf("config.keys.ca_keys_file is required")
	}
	if err := validateReadableFile(c.Keys.CAKeysFile, "config.keys.ca_keys_file"); err != nil {
		return err
	}
	if c.Keys.TerminalFile != "" {
		if err := validateReadableFile(c.Keys.TerminalFile, "config.keys.terminal_file"); err != nil {
			return err
		}
	}

	if _, err := c.TransactionType(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("config.log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Interface returns the card interface. The default is contactless.
func (c *Config) Interface() (kernel.Interface, error) {
	switch strings.ToLower(c.Reader.Interface) {
	case "", "contactless":
		return kernel.Contactless, nil
	case "contact":
		return kernel.Contact, nil
	}
	return kernel.Contactless, fmt.Errorf("config.reader.interface must be contactless or contact, got %q", c.Reader.Interface)
}

// TransactionType returns the Transaction Type ('9C'). The default is 00,
// goods and services.
func (c *Config) TransactionType() (byte, error) {
	if c.Transaction.Type == "" {
		return 0x00, nil
	}
	b, err := hex.DecodeString(c.Transaction.Type)
	if err != nil || len(b) != 1 {
		return 0, fmt.Errorf("config.transaction.type must be one hex byte, got %q", c.Transaction.Type)
	}
	return b[0], nil
}

func (c *Config) Policy() (oda.Policy, error) {
	p, err := oda.ParsePolicy(c.ODA.HashPolicy)
	if err != nil {
		return p, fmt.Errorf("config.oda.hash_policy: %w", err)
	}
	return p, nil
}

// LogLevel returns the configured level. The default is info.
func (c *Config) LogLevel() (slog.Level, error) {
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config.log.level: %w", err)
	}
	return level, nil
}

func (c *Config) resolvePaths(configPath string) {
	configDir := filepath.Dir(configPath)
	c.Keys.CAKeysFile = resolvePath(configDir, c.Keys.CAKeysFile)
	c.Keys.TerminalFile = resolvePath(configDir, c.Keys.TerminalFile)
}

func resolvePath(baseDir, path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Clean(filepath.Join(baseDir, trimmed))
}

func validateReadableFile(path string, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s must point to a file, got directory", field)
	}
	return nil
}
