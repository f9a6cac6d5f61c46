package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLookuper_Defaults(t *testing.T) {
	cfg, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"SECRET_KEY": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.ConfirmationCodeTTL)
	assert.Equal(t, "yamdb", cfg.Mongo.Database)
	assert.Equal(t, "log", cfg.Mail.Backend)
	assert.Equal(t, 4, cfg.Mail.Workers)
	assert.Equal(t, time.Minute, cfg.Mail.Cooldown)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestFromLookuper_Overrides(t *testing.T) {
	cfg, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"SECRET_KEY":            "s3cret",
		"ENV":                   "production",
		"CONFIRMATION_CODE_TTL": "0s",
		"MAIL_BACKEND":          "kafka",
		"KAFKA_BROKERS":         "k1:9092,k2:9092",
		"MAIL_WORKERS":          "8",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Zero(t, cfg.ConfirmationCodeTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8, cfg.Mail.Workers)
}

func TestFromLookuper_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":  {},
		"unknown backend": {"SECRET_KEY": "s", "MAIL_BACKEND": "smtp"},
		"no workers":      {"SECRET_KEY": "s", "MAIL_WORKERS": "0"},
		"zero token ttl":  {"SECRET_KEY": "s", "TOKEN_TTL": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookuper(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
