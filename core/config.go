package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug     bool
		TestMode  bool
		Env       string // DEV (default), TEST, QA, PROD
		Build     string
		AppName   string
		SecretKey []byte

		// Offline runs every repository on the local JSON-backed store
		// instead of postgres. Evaluations submitted in this mode stay
		// "queued" until synced.
		Offline bool
		DataDir string

		TimeZone                  string // dateRef reference zone
		FrontendBaseURL           string
		DefaultFromEmail          mail.Address
		AlertEmail                string // low-score alerts go here; empty disables them
		PasswordResetTimeoutDelta time.Duration

		RollbarToken   string
		SendgridAPIKey string

		Server   ServerConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Host                      string
		Port                      string
		DebugHost                 string
		AllowedOrigins            []string
		RequestTimeout            time.Duration
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		// URL comes from DATABASE_URL and is required unless Offline.
		URL string
	}
)

func (c ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (prefixed with the env name).
func NewConfig() (*Config, error) {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "RotaCheck")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "x1m=7b$+jc&2fvw)3qz!e8u0(h5y#*t4(k%go9s^$dparn6lmw")
	conf.SetDefault("offline", false)
	conf.SetDefault("dataDir", "data")
	conf.SetDefault("timeZone", "America/Sao_Paulo")
	conf.SetDefault("frontendBaseUrl", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("alertEmail", "")
	conf.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)

	conf.SetDefault("serverHost", "0.0.0.0")
	conf.SetDefault("serverPort", "8080")
	conf.SetDefault("serverDebugHost", "0.0.0.0:4000")
	conf.SetDefault("allowedOrigins", []string{"http://localhost:3000"})
	conf.SetDefault("requestTimeout", 25*time.Second)
	conf.SetDefault("shutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	c := &Config{
		Debug:     conf.GetBool("debug"),
		TestMode:  env == "TEST",
		Env:       env,
		Build:     conf.GetString("build"),
		AppName:   conf.GetString("appName"),
		SecretKey: []byte(conf.GetString("secretKey")),

		Offline: conf.GetBool("offline"),
		DataDir: conf.GetString("dataDir"),

		TimeZone:                  conf.GetString("timeZone"),
		FrontendBaseURL:           conf.GetString("frontendBaseUrl"),
		DefaultFromEmail:          mail.Address{Address: conf.GetString("defaultFromEmail")},
		AlertEmail:                conf.GetString("alertEmail"),
		PasswordResetTimeoutDelta: conf.GetDuration("passwordResetTimeoutDelta"),

		RollbarToken:   conf.GetString("rollbarToken"),
		SendgridAPIKey: conf.GetString("sendgridApiKey"),

		Server: ServerConfig{
			Host:                      conf.GetString("serverHost"),
			Port:                      conf.GetString("serverPort"),
			DebugHost:                 conf.GetString("serverDebugHost"),
			AllowedOrigins:            conf.GetStringSlice("allowedOrigins"),
			RequestTimeout:            conf.GetDuration("requestTimeout"),
			ShutdownTimeout:           conf.GetDuration("shutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	// viper reads env vars through the prefix, so the offline switch is
	// ENV-qualified (DEV_OFFLINE, QA_OFFLINE, ...).
	if !c.Offline && c.Database.URL == "" {
		return nil, errors.Errorf("DATABASE_URL is required (set %s_OFFLINE=true to run on the local store)", env)
	}
	return c, nil
}

// Location resolves the configured dateRef time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
