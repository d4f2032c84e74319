package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/taxportal/filing-engine/internal/logging"
)

// Settings holds service configuration.
//
// Priority (highest to lowest):
// 1. Environment variables with TAXFILER_ prefix (e.g., TAXFILER_HTTP_ADDR)
// 2. .env in the working directory
// 3. taxfiler.yaml (or the file passed explicitly)
// 4. Built-in defaults
type Settings struct {
	Env        string
	HTTPAddr   string
	DBPath     string
	TablesPath string // empty means the built-in tables
	NodeID     int64  // snowflake node for acknowledgment numbers
	Log        logging.Config
}

// LoadSettings reads settings. configFile may be empty.
func LoadSettings(configFile string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("taxfiler")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("TAXFILER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	s := &Settings{
		Env:        v.GetString("app.env"),
		HTTPAddr:   v.GetString("http.addr"),
		DBPath:     v.GetString("db.path"),
		TablesPath: v.GetString("tables.path"),
		NodeID:     v.GetInt64("ack.node_id"),
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.path", "taxfiler.db")
	v.SetDefault("tables.path", "")
	v.SetDefault("ack.node_id", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
}

// Validate checks the settings are usable.
func (s *Settings) Validate() error {
	if s.DBPath == "" {
		return fmt.Errorf("db.path is required")
	}
	if s.NodeID < 0 || s.NodeID > 1023 {
		return fmt.Errorf("ack.node_id must be between 0 and 1023, got %d", s.NodeID)
	}
	if s.Env == "production" && s.Log.Format != "json" {
		return fmt.Errorf("production requires log.format=json")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (s *Settings) IsProduction() bool {
	return s.Env == "production"
}
