package auth

import "time"

// Config holds auth-related settings
type Config struct {
	JWT JWTConfig
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
}

// DefaultConfig returns sane defaults; the secret must be overridden
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTokenTTL: 1 * time.Hour,
			Issuer:         "matchbox",
		},
	}
}
