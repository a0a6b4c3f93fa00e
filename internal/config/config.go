package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Cfg struct {
	Database Database
	Logger   Logger
	Harness  Harness
	Browser  Browser
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type Logger struct {
	Env   string
	Level string
}

type Harness struct {
	ConfigDir    string
	Env          string
	FeaturesPath string
	Workers      int
}

type Browser struct {
	BrowsersPath string
	Install      bool
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
		},
		Harness: Harness{
			ConfigDir:    env("HARNESS_CONFIG_DIR", "config"),
			Env:          os.Getenv("HARNESS_ENV"),
			FeaturesPath: env("HARNESS_FEATURES", "features"),
			Workers:      envInt("HARNESS_WORKERS", 0),
		},
		Browser: Browser{
			BrowsersPath: env("PLAYWRIGHT_BROWSERS_PATH", ""),
			Install:      envBool("HARNESS_INSTALL_BROWSERS"),
		},
	}

	return cfg, nil
}

// Enabled reports whether a results database was configured.
func (d Database) Enabled() bool {
	return d.Host != ""
}

// DSN is the libpq key/value form gorm's postgres driver takes. Values are
// quoted so spaces and quotes in a password survive.
func (d Database) DSN() string {
	pairs := []struct{ key, value string }{
		{"host", d.Host},
		{"port", d.Port},
		{"user", d.User},
		{"password", d.Password},
		{"dbname", d.Name},
		{"sslmode", d.SSLMode},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.key+"="+dsnQuote(p.value))
	}
	return strings.Join(parts, " ")
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func dsnQuote(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// URL is the form golang-migrate expects. User info is percent-encoded.
func (d Database) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}
