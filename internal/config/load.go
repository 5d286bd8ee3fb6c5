package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load fills cfg from the process environment. Dotenv files are read first:
// envFile when given, otherwise .env.<APP_ENV> and then .env. Missing dotenv
// files are not an error; missing required variables are.
func Load(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	} else {
		if env := os.Getenv("APP_ENV"); env != "" {
			_ = godotenv.Load(".env." + env)
		}
		_ = godotenv.Load(".env")
	}

	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("process env: %w", err)
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.TelegramBotToken) == "" {
		return errors.New("BOT_TOKEN is empty")
	}
	if strings.TrimSpace(c.YmotToken) == "" {
		return errors.New("YMOT_TOKEN is empty")
	}
	if _, err := c.GoogleCredentials(); err != nil {
		return err
	}
	switch c.OnClassifierError {
	case "admit", "redirect":
	default:
		return fmt.Errorf("ON_CLASSIFIER_ERROR must be admit or redirect, got %q", c.OnClassifierError)
	}
	if c.QuietFromHour < 0 || c.QuietFromHour > 23 || c.QuietUntilHour < 0 || c.QuietUntilHour > 24 {
		return fmt.Errorf("quiet hours out of range: %d-%d", c.QuietFromHour, c.QuietUntilHour)
	}
	if c.CalloutEnabled && c.CalloutPhones == "" {
		return errors.New("CALLOUT_PHONES is required when CALLOUT_ENABLED is set")
	}
	return nil
}

// Warnings lists settings that load fine but are likely mistakes.
func (c *Config) Warnings() []string {
	var w []string
	if c.YmotPath == c.YmotReviewPath {
		w = append(w, fmt.Sprintf("YMOT_PATH and YMOT_REVIEW_PATH are both %q, redirected posts land in the main mailbox", c.YmotPath))
	}
	return w
}

// GoogleCredentials decodes the base64 service account payload.
func (c *Config) GoogleCredentials() ([]byte, error) {
	if strings.TrimSpace(c.GoogleCredentialsB64) == "" {
		return nil, errors.New("GOOGLE_APPLICATION_CREDENTIALS_B64 is empty")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.GoogleCredentialsB64))
	if err != nil {
		return nil, fmt.Errorf("decode GOOGLE_APPLICATION_CREDENTIALS_B64: %w", err)
	}
	return raw, nil
}
