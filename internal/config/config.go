package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"Hydrocalc/internal/apperr"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr      string  `yaml:"addr"`
	StaticDir string  `yaml:"static_dir"`
	Locale    string  `yaml:"locale"`
	Debug     bool    `yaml:"debug"`
	LogFile   string  `yaml:"log_file"`
	TLSCert   string  `yaml:"tls_cert"`
	TLSKey    string  `yaml:"tls_key"`
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
	Auth      Auth    `yaml:"auth"`
}

type Auth struct {
	TokenKey          string        `yaml:"token_key"`
	AdminLogin        string        `yaml:"admin_login"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
}

func Default() Config {
	return Config{
		Addr:      ":8080",
		StaticDir: "./static/main",
		Locale:    "en",
		RateLimit: 5,
		RateBurst: 10,
		Auth: Auth{
			AdminLogin: "admin",
			SessionTTL: 30 * 24 * time.Hour,
		},
	}
}

// Load layers defaults, the YAML file at path (skipped when path is empty),
// the dotenv file (skipped when missing) and the process environment.
// Variables already set in the environment win over the dotenv file.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, apperr.New("config.load", apperr.KindNotFound, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, apperr.New("config.load", apperr.KindInvalidInput, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, apperr.New("config.dotenv", apperr.KindInvalidInput, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	str("HYDROCALC_ADDR", &cfg.Addr)
	str("HYDROCALC_STATIC_DIR", &cfg.StaticDir)
	str("HYDROCALC_LOCALE", &cfg.Locale)
	str("HYDROCALC_LOG_FILE", &cfg.LogFile)
	str("HYDROCALC_TLS_CERT", &cfg.TLSCert)
	str("HYDROCALC_TLS_KEY", &cfg.TLSKey)
	str("TOKEN_KEY", &cfg.Auth.TokenKey)
	str("ADMIN_LOGIN", &cfg.Auth.AdminLogin)
	str("ADMIN_PASSWORD_HASH", &cfg.Auth.AdminPasswordHash)

	if v, ok := os.LookupEnv("HYDROCALC_DEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envErr("HYDROCALC_DEBUG", err)
		}
		cfg.Debug = b
	}
	if v, ok := os.LookupEnv("HYDROCALC_RATE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envErr("HYDROCALC_RATE", err)
		}
		cfg.RateLimit = f
	}
	if v, ok := os.LookupEnv("HYDROCALC_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envErr("HYDROCALC_BURST", err)
		}
		cfg.RateBurst = n
	}
	if v, ok := os.LookupEnv("SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envErr("SESSION_TTL", err)
		}
		cfg.Auth.SessionTTL = d
	}
	return nil
}

func envErr(key string, err error) error {
	return apperr.New("config.env", apperr.KindInvalidInput, fmt.Errorf("%s: %w", key, err))
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return apperr.Invalid("config.validate", "addr is required")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return apperr.Invalid("config.validate", "rate_limit and rate_burst must be positive")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return apperr.Invalid("config.validate", "tls_cert and tls_key must be set together")
	}
	if c.Auth.SessionTTL <= 0 {
		return apperr.Invalid("config.validate", "session_ttl must be positive")
	}
	return nil
}

// PremiumEnabled reports whether premium tools can authenticate anyone.
func (c Config) PremiumEnabled() bool {
	return c.Auth.TokenKey != ""
}
