package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigEnvVar names the optional TOML file read before the environment.
const ConfigEnvVar = "LEDGER_CONFIG"

var validBackends = []string{"json", "memory", "sqlite"}

type Config struct {
	// Storage
	DataDir      string `toml:"data_dir"`
	DataBackend  string `toml:"backend"`
	SQLiteDBPath string `toml:"sqlite_path"`
	UsersFile    string `toml:"users_file"`

	// Logging
	LogLevel string `toml:"log_level"`
	LogJSON  bool   `toml:"log_json"`

	Export ExportConfig `toml:"export"`
	AMQP   AMQPConfig   `toml:"amqp"`
	Google GoogleConfig `toml:"google"`
}

type ExportConfig struct {
	Dir     string `toml:"dir"`
	Workers int    `toml:"workers"`
}

// AMQPConfig enables change notifications when URL is set.
type AMQPConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
	Queue    string `toml:"queue"`
}

func (a AMQPConfig) Enabled() bool {
	return a.URL != ""
}

// GoogleConfig is used only by the sheets export format.
type GoogleConfig struct {
	SpreadsheetID          string `toml:"spreadsheet_id"`
	SheetName              string `toml:"sheet_name"`
	ServiceAccountFile     string `toml:"service_account_file"`
	ServiceAccountJSON     string `toml:"-"`
	ApplicationCredentials string `toml:"-"`
}

func (g GoogleConfig) Configured() bool {
	return g.SpreadsheetID != ""
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DataDir:      "data",
		DataBackend:  "json",
		SQLiteDBPath: filepath.Join("data", "ledger.db"),
		UsersFile:    filepath.Join("data", "users.json"),
		LogLevel:     "warn",
		Export: ExportConfig{
			Dir:     "exports",
			Workers: 4,
		},
		AMQP: AMQPConfig{
			Exchange: "ledger",
			Queue:    "ledger_changes",
		},
		Google: GoogleConfig{
			SheetName: "Ledger",
		},
	}
}

// Load layers defaults, the TOML file at path (or $LEDGER_CONFIG when path is
// empty) and the environment, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DataDir = getEnv("LEDGER_DATA_DIR", c.DataDir)
	c.DataBackend = getEnv("DATA_BACKEND", c.DataBackend)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)
	c.UsersFile = getEnv("LEDGER_USERS_FILE", c.UsersFile)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogJSON = getEnvBool("LOG_JSON", c.LogJSON)

	c.Export.Dir = getEnv("LEDGER_EXPORT_DIR", c.Export.Dir)
	c.Export.Workers = getEnvInt("EXPORT_WORKERS", c.Export.Workers)

	c.AMQP.URL = getEnv("AMQP_URL", c.AMQP.URL)
	c.AMQP.Exchange = getEnv("AMQP_EXCHANGE", c.AMQP.Exchange)
	c.AMQP.Queue = getEnv("AMQP_QUEUE", c.AMQP.Queue)

	c.Google.SpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", c.Google.SpreadsheetID)
	c.Google.SheetName = getEnv("GOOGLE_SHEET_NAME", c.Google.SheetName)
	c.Google.ServiceAccountFile = getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", c.Google.ServiceAccountFile)
	c.Google.ServiceAccountJSON = getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", c.Google.ServiceAccountJSON)
	c.Google.ApplicationCredentials = getEnv("GOOGLE_APPLICATION_CREDENTIALS", c.Google.ApplicationCredentials)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "json" && c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty when using json backend")
	}
	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}
	if c.UsersFile == "" {
		errors = append(errors, "users file cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.Export.Workers < 1 {
		errors = append(errors, fmt.Sprintf("invalid export workers %d: must be at least 1", c.Export.Workers))
	} else if c.Export.Workers > 16 {
		errors = append(errors, fmt.Sprintf("invalid export workers %d: must be at most 16", c.Export.Workers))
	}

	// Validate AMQP URL if provided
	if c.AMQP.URL != "" {
		if parsedURL, err := url.Parse(c.AMQP.URL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQP.Queue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Google.Configured() {
		if c.Google.SheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet ID is set")
		}
		if c.Google.ServiceAccountFile != "" {
			if _, err := os.Stat(c.Google.ServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.Google.ServiceAccountFile))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
