package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/qs-lzh/movie-list/internal/util"
)

type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	Addr           string
	BaseURL        string
	CacheURL       string
	MQURL          string

	// SecretKey signs password reset tokens.
	SecretKey    string
	CookieSecure bool

	MailServer   string
	MailPort     int
	MailUsername string
	MailPassword string

	TMDBAPIKey  string
	TMDBBaseURL string

	LogLevel  string
	LogFormat string

	// FormRatePerMinute throttles entry form submissions per client IP.
	// Zero disables throttling.
	FormRatePerMinute int
	FormRateBurst     int
}

func LoadConfig() (*Config, error) {
	if err := util.LoadEnv(); err != nil {
		return nil, err
	}

	mailPort, err := util.GetEnvInt("MAIL_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_PORT: %w", err)
	}
	cookieSecure, err := util.GetEnvBool("COOKIE_SECURE", false)
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}

	formRate, err := util.GetEnvInt("FORM_RATE_PER_MINUTE", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid FORM_RATE_PER_MINUTE: %w", err)
	}
	formBurst, err := util.GetEnvInt("FORM_RATE_BURST", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid FORM_RATE_BURST: %w", err)
	}

	secretKey := util.GetEnv("SECRET_KEY", "")
	if secretKey == "" {
		// tokens issued by a previous process become invalid after a restart
		if secretKey, err = randomSecret(); err != nil {
			return nil, err
		}
	}

	addr := util.GetEnv("ADDR", ":4000")

	return &Config{
		DatabaseDriver: strings.ToLower(util.GetEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseDSN:    util.GetEnv("DATABASE_DSN", "movielist.db"),
		Addr:           addr,
		BaseURL:        strings.TrimRight(util.GetEnv("BASE_URL", "http://localhost"+addr), "/"),
		CacheURL:       util.GetEnv("CACHE_URL", ""),
		MQURL:          util.GetEnv("RABBIT_MQ_URL", ""),
		SecretKey:      secretKey,
		CookieSecure:   cookieSecure,
		MailServer:     util.GetEnv("MAIL_SERVER", "smtp.gmail.com"),
		MailPort:       mailPort,
		MailUsername:   util.GetEnv("EMAIL", ""),
		MailPassword:   util.GetEnv("EMAIL_PASSWORD", ""),
		TMDBAPIKey:     util.GetEnv("TMDB_API_KEY", ""),
		TMDBBaseURL:    util.GetEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		LogLevel:       util.GetEnv("LOG_LEVEL", "info"),
		LogFormat:      util.GetEnv("LOG_FORMAT", "console"),

		FormRatePerMinute: formRate,
		FormRateBurst:     formBurst,
	}, nil
}

// MailConfigured reports whether SMTP credentials are present.
func (c *Config) MailConfigured() bool {
	return c.MailUsername != "" && c.MailPassword != ""
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
