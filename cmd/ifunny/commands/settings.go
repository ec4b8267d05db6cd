package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sternrassler/ifunny-client/pkg/logging"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	configDirPerm  = 0o700
	configFilePerm = 0o600
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Settings is the merged CLI configuration. Keys are the same in the
// config file and, upper-cased with an IFUNNY_ prefix, in the environment.
type Settings struct {
	Token             string `mapstructure:"token"`
	API               string `mapstructure:"api"                 validate:"omitempty,url"`
	Output            string `mapstructure:"output"              validate:"oneof=table json yaml"`
	LogLevel          string `mapstructure:"log_level"`
	RedisAddr         string `mapstructure:"redis_addr"          validate:"omitempty,hostname_port"`
	UserAgent         string `mapstructure:"user_agent"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" validate:"gte=0"`
	Burst             int    `mapstructure:"burst"               validate:"gte=0"`
	MaxPageSize       int    `mapstructure:"max_page_size"       validate:"gte=0"`
}

// settingDefaults makes config-only keys visible to the environment lookup.
var settingDefaults = map[string]any{
	"user_agent":          "",
	"requests_per_minute": 0,
	"burst":               0,
	"max_page_size":       0,
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// saveSetting writes one key into the YAML config file at path, keeping
// the other keys.
func saveSetting(path, key string, value any) error {
	doc := map[string]any{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("read config %s: %w", path, err)
	}

	doc[key] = value

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, out, configFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
