package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Port       uint16 `env:"PORT" envDefault:"8080"`
	Secret     string `env:"SECRET,required"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`
	RabbitmqURL   string `env:"RABBITMQ_URL,required"`

	RabbitmqUserEventsExchange      string `env:"RABBITMQ_USER_EVENTS_EXCHANGE" envDefault:"user-events"`
	RabbitmqPasswordResetQueue      string `env:"RABBITMQ_PASSWORD_RESET_QUEUE" envDefault:"password-reset-requested"`
	RabbitmqPasswordResetRoutingKey string `env:"RABBITMQ_PASSWORD_RESET_ROUTING_KEY" envDefault:"user.password_reset_requested"`

	BcryptHasherCost                int `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetValidDurationHours int `env:"PASSWORD_RESET_VALID_DURATION_HOURS" envDefault:"24"`

	AwsRegion                     string `env:"AWS_REGION" envDefault:"eu-west-1"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string `env:"AWS_EMAIL_SENDER"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"PasswordReset"`
	AwsEmailPasswordResetBaseUrl  string `env:"AWS_EMAIL_PASSWORD_RESET_BASE_URL"`

	SentryDsn string `env:"SENTRY_DSN"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	return config, nil
}
