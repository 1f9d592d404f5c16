package app

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/rules"
	"github.com/shrimpsizemoose/festboard/internal/scoring"
)

// UserConfig seeds a login account on startup. Passwords are hashed before they reach the store.
type UserConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Role     string `toml:"role"`
	Team     string `toml:"team"`
}

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL      string       `toml:"redis_url"`
		TokenTTLHours int          `toml:"token_ttl_hours"`
		Users         []UserConfig `toml:"users"`
	} `toml:"auth"`

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`

	Rules   rules.RuleSet  `toml:"rules"`
	Scoring scoring.Grader `toml:"scoring"`

	Bot struct {
		Token    string  `toml:"token"`
		AdminIDs []int64 `toml:"admin_ids"`
	} `toml:"bot"`

	Export struct {
		CredentialsPath string `toml:"credentials_path"`
		SheetID         string `toml:"sheet_id"`
		SheetName       string `toml:"sheet_name"`
		Schedule        string `toml:"schedule"`
	} `toml:"export"`

	Sentry struct {
		DSN         string `toml:"dsn"`
		Environment string `toml:"environment"`
	} `toml:"sentry"`
}

// DefaultConfig returns a config with the built-in rule set and points tables.
func DefaultConfig() *Config {
	var config Config
	config.Rules = *rules.DefaultRuleSet()
	config.Scoring = *scoring.DefaultGrader()
	config.Scoring.Prepare(&config.Rules)
	config.Auth.TokenTTLHours = 24
	config.Export.SheetName = "Standings"
	config.Export.Schedule = "*/15 * * * *"
	return &config
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Error.Printf("Failed to read .env: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s\n> Error: %w", path, err)
	}

	return config, nil
}

// ParseConfig decodes toml over the defaults and applies environment overrides.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnv(config)

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("database dsn is not specified in config or FEST_DATABASE_DSN")
	}
	if config.Auth.TokenTTLHours <= 0 {
		config.Auth.TokenTTLHours = 24
	}

	config.Rules.Prepare()
	config.Scoring.Prepare(&config.Rules)

	logger.Debug.Printf("Loaded rules version %s", config.Rules.Version)
	logger.Debug.Printf("Loaded scoring config: %+v %+v", config.Scoring.Group, config.Scoring.Individual)

	return config, nil
}

func applyEnv(config *Config) {
	for env, field := range map[string]*string{
		"FEST_DATABASE_DSN": &config.Database.DSN,
		"FEST_REDIS_URL":    &config.Auth.RedisURL,
		"FEST_BOT_TOKEN":    &config.Bot.Token,
		"SENTRY_DSN":        &config.Sentry.DSN,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}
