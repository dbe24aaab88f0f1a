package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// loadDotEnv reads .env from the working directory if it exists.
// Variables already present in the environment are not overwritten.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read .env: %w", err)
	}
	return nil
}

// fileConfig mirrors the optional YAML config file. Durations are strings
// in Go syntax ("10m") or bare seconds ("600").
type fileConfig struct {
	App struct {
		Name  string `yaml:"name"`
		Env   string `yaml:"env"`
		Debug bool   `yaml:"debug"`
	} `yaml:"app"`

	Practicum struct {
		Token          string `yaml:"token"`
		Endpoint       string `yaml:"endpoint"`
		RequestTimeout string `yaml:"request_timeout"`
	} `yaml:"practicum"`

	Telegram struct {
		Token          string `yaml:"token"`
		ChatID         string `yaml:"chat_id"`
		BaseURL        string `yaml:"base_url"`
		RequestTimeout string `yaml:"request_timeout"`
	} `yaml:"telegram"`

	Poll struct {
		Interval string `yaml:"interval"`
	} `yaml:"poll"`

	HTTP struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"http"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// loadFile reads path; an empty path yields an empty config.
func loadFile(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}
