package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/qhwu/CN-Trade-Sessions/internal/textfile"
)

// Registry sources.
const (
	SourceFile = "file"
	SourceDB   = "db"
)

type Config struct {
	DBPath       string `yaml:"db_path"`
	SessionsPath string `yaml:"sessions_path"`
	Listen       string `yaml:"listen"`

	// Source is "file" (sessions_path YAML) or "db" (session_defs table).
	Source string `yaml:"source"`
}

func Load(path string) (Config, error) {
	b, err := textfile.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := NormalizeAndValidate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = "127.0.0.1:8848"
	}
	if cfg.Source == "" {
		cfg.Source = SourceFile
	}
}

// NormalizeAndValidate applies defaults and checks invariants.
func NormalizeAndValidate(cfg *Config) error {
	applyDefaults(cfg)
	switch cfg.Source {
	case SourceFile:
		if cfg.SessionsPath == "" {
			return fmt.Errorf("sessions_path is required when source is %q", SourceFile)
		}
	case SourceDB:
		if cfg.DBPath == "" {
			return fmt.Errorf("db_path is required when source is %q", SourceDB)
		}
	default:
		return fmt.Errorf("source must be %q or %q", SourceFile, SourceDB)
	}
	return nil
}
