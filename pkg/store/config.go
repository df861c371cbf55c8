package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the on-disk lift database.
type Config interface {
	BasePath() string
}

// LoadConfig resolves the store path from a .liftlog config file or the
// LIFTLOG_PATH environment variable, defaulting to ~/.liftlog.db.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.liftlog.db")
	viper.SetConfigName(".liftlog") // .yaml is implicit
	viper.SetEnvPrefix("LIFTLOG")
	viper.AutomaticEnv()

	if override := os.Getenv("LIFTLOG_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{Path: path}, nil
}

type fileConfig struct {
	Path string `json:"path"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

// StaticConfig pins the store to a fixed directory. Tests and the sync
// runner use it to bypass config discovery.
type StaticConfig string

// BasePath implements Config.
func (s StaticConfig) BasePath() string { return string(s) }
