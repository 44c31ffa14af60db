package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/todolite/todolite/internal/common/constants"
	commonerrors "github.com/todolite/todolite/internal/common/errors"
)

// Config is the whole configuration surface: everything comes from the
// environment, nothing else.
type Config struct {
	HTTPPort    string `validate:"required"`
	DatabaseURL string `validate:"required"`

	// Auth collaborator endpoint and credentials.
	AuthURL       string `validate:"required,url"`
	AuthAPIKey    string `validate:"required"`
	AuthJWTSecret string `validate:"required,min=32"`

	// Optional fixed origin for the OTP callback URL. When empty the
	// origin is derived from the incoming request.
	PublicBaseURL string `validate:"omitempty,url"`

	SessionCookieName string `validate:"required"`

	RequestTimeout time.Duration `validate:"required"`
	AuthTimeout    time.Duration `validate:"required"`
}

func Load() (Config, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	authURL, err := mustEnv("AUTH_URL")
	if err != nil {
		return Config{}, err
	}

	authAPIKey, err := mustEnv("AUTH_API_KEY")
	if err != nil {
		return Config{}, err
	}

	jwtSecret, err := mustEnv("AUTH_JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseURL:       databaseURL,
		AuthURL:           authURL,
		AuthAPIKey:        authAPIKey,
		AuthJWTSecret:     jwtSecret,
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", ""),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", constants.DefaultSessionCookieName),
		RequestTimeout:    getDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
		AuthTimeout:       getDurationEnv("AUTH_TIMEOUT", 10*time.Second),
	}

	if len(cfg.AuthJWTSecret) < 32 {
		return Config{}, commonerrors.ErrInvalidJWTSecret
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, commonerrors.ErrInvalidConfig.WithCause(err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
