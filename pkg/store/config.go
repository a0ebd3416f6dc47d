package store

import (
	"errors"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// DefaultPath is where names are stored when nothing is configured.
const DefaultPath = "~/.taxoselect.db"

// Config carries the settings read from .taxoselect.yaml and the
// TAXOSELECT_* environment.
type Config interface {
	BasePath() string
	Level() string
	DefaultRepository() string
	Repositories() []string
}

// LoadConfig reads the configuration file from $TAXOSELECT_CONFIG_PATH or
// the working directory. A missing file is not an error.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", DefaultPath)
	viper.SetDefault("level", "idiotaxon")
	viper.SetConfigName(".taxoselect") // .yaml is implicit
	viper.SetEnvPrefix("TAXOSELECT")
	viper.AutomaticEnv()

	if override := os.Getenv("TAXOSELECT_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	return &fileConfig{
		Path:       path,
		LevelName:  viper.GetString("level"),
		Default:    viper.GetString("default_repository"),
		RepoValues: viper.GetStringSlice("repositories"),
	}, nil
}

// StaticConfig is a Config built in code.
func StaticConfig(path string) Config {
	return &fileConfig{Path: path, LevelName: "idiotaxon"}
}

type fileConfig struct {
	Path       string   `json:"path"`
	LevelName  string   `json:"level"`
	Default    string   `json:"default_repository"`
	RepoValues []string `json:"repositories"`
}

func (f *fileConfig) BasePath() string          { return f.Path }
func (f *fileConfig) Level() string             { return f.LevelName }
func (f *fileConfig) DefaultRepository() string { return f.Default }
func (f *fileConfig) Repositories() []string    { return f.RepoValues }
