package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 3, cfg.API.MaxRetries)
	assert.Equal(t, time.Second, cfg.API.RetryBackoff)
	assert.Equal(t, []int{408, 429}, cfg.API.RetryStatuses)
	assert.Equal(t, "rental_token", cfg.Session.CookieName)
	assert.Equal(t, "/login", cfg.Session.LoginRoute)
	assert.Equal(t, 2*time.Second, cfg.Session.RedirectDelay)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "Europe/Prague", cfg.Location.String())
}

func TestFromViperRejectsUnknownTimezone(t *testing.T) {
	v := viper.New()
	v.Set("TIMEZONE", "Mars/Olympus")

	_, err := fromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestFromViperProductionRequiresBaseURL(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := fromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("API_BASE_URL", "https://rental.example.com/")
	v.Set("API_MAX_RETRIES", 0)
	v.Set("API_RETRY_STATUSES", "")
	v.Set("API_TIMEOUT", "5s")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "https://rental.example.com", cfg.API.BaseURL)
	assert.Equal(t, 0, cfg.API.MaxRetries)
	assert.Empty(t, cfg.API.RetryStatuses)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
}

func TestFromViperRejectsNon4xxRetryStatus(t *testing.T) {
	v := viper.New()
	v.Set("API_RETRY_STATUSES", "408,503")

	_, err := fromViper(v)
	require.Error(t, err)
}
