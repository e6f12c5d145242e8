package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

var ErrMissingApiKey = errors.New("gemini api key is not configured")

// credentialEnv lists the variables a key may come from, highest precedence first.
type credentialEnv struct {
	ViteGeminiApiKey string `env:"VITE_GEMINI_API_KEY"`
	ApiKey           string `env:"API_KEY"`
	GeminiApiKey     string `env:"GEMINI_API_KEY"`
}

// ResolveApiKey reads the credential once at startup. The config file value is the last fallback.
func ResolveApiKey(configured string) (string, error) {
	var c credentialEnv
	if err := env.Parse(&c); err != nil {
		return "", errors.Wrap(err, "parse credential env")
	}
	for _, key := range []string{c.ViteGeminiApiKey, c.ApiKey, c.GeminiApiKey, configured} {
		if key != "" {
			return key, nil
		}
	}
	return "", ErrMissingApiKey
}
