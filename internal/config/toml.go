// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/habitual/internal/constants"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Storage StorageConfig `toml:"storage"`
	User    UserConfig    `toml:"user"`
	Log     LogConfig     `toml:"log"`
	Notify  NotifyConfig  `toml:"notify"`
}

type StorageConfig struct {
	Path           *string `toml:"path"`
	KeyringAccount *string `toml:"keyring-account"`
}

type UserConfig struct {
	ID *string `toml:"id"`
}

type LogConfig struct {
	Debug *bool   `toml:"debug"`
	Dir   *string `toml:"dir"`
}

type NotifyConfig struct {
	Enabled *bool `toml:"enabled"`
}

// Config is the effective configuration after defaults are applied.
type Config struct {
	DBPath         string
	KeyringAccount string
	UserID         string
	Debug          bool
	LogDir         string
	Notify         bool
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Resolve fills unset file values with defaults.
func (f FileConfig) Resolve() Config {
	cfg := Config{
		DBPath:         DefaultDBPath(),
		KeyringAccount: constants.DefaultKeyringUser,
		UserID:         constants.DefaultUserID,
		LogDir:         DefaultLogDir(),
		Notify:         true,
	}
	if f.Storage.Path != nil && *f.Storage.Path != "" {
		cfg.DBPath = expandHome(*f.Storage.Path)
	}
	if f.Storage.KeyringAccount != nil && *f.Storage.KeyringAccount != "" {
		cfg.KeyringAccount = *f.Storage.KeyringAccount
	}
	if f.User.ID != nil && strings.TrimSpace(*f.User.ID) != "" {
		cfg.UserID = strings.TrimSpace(*f.User.ID)
	}
	if f.Log.Debug != nil {
		cfg.Debug = *f.Log.Debug
	}
	if f.Log.Dir != nil && *f.Log.Dir != "" {
		cfg.LogDir = expandHome(*f.Log.Dir)
	}
	if f.Notify.Enabled != nil {
		cfg.Notify = *f.Notify.Enabled
	}
	return cfg
}

// Load reads path and resolves it in one step.
func Load(path string) (Config, error) {
	fc, err := LoadConfig(path)
	if err != nil {
		return Config{}, err
	}
	return fc.Resolve(), nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + p[1:]
		}
	}
	return p
}
