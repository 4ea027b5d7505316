package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		GigaChat: GigaChatConfig{APIKey: "key"},
		Mailbox:  MailboxConfig{Address: "intake@example.com", Password: "secret"},
		Outbound: OutboundConfig{Transport: "smtp", SMTPPassword: "secret"},
		Store:    StoreConfig{Backend: "file"},
		Poller:   PollerConfig{Enabled: true, Interval: 30 * time.Second},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing API key", func(t *testing.T) {
		cfg := validConfig()
		cfg.GigaChat.APIKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GIGACHAT_API_KEY")
	})

	t.Run("poller requires mailbox credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mailbox = MailboxConfig{}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EMAIL_ADDRESS")
		assert.Contains(t, err.Error(), "EMAIL_PASSWORD")
	})

	t.Run("disabled poller skips mailbox credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mailbox = MailboxConfig{}
		cfg.Outbound = OutboundConfig{}
		cfg.Poller.Enabled = false
		assert.NoError(t, cfg.Validate())
	})

	t.Run("resend transport requires API key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Outbound = OutboundConfig{Transport: "resend"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RESEND_API_KEY")
	})

	t.Run("gmail transport requires oauth credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Outbound = OutboundConfig{Transport: "gmail_api"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GMAIL_CLIENT_ID")
		assert.Contains(t, err.Error(), "GMAIL_ACCESS_TOKEN")
	})

	t.Run("unknown transport rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Outbound.Transport = "pigeon"
		assert.ErrorContains(t, cfg.Validate(), "MAIL_TRANSPORT")
	})

	t.Run("unknown store backend rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Backend = "redis"
		assert.ErrorContains(t, cfg.Validate(), "STORE_BACKEND")
	})

	t.Run("non-positive poll interval rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Poller.Interval = 0
		assert.ErrorContains(t, cfg.Validate(), "POLL_INTERVAL_SECONDS")
	})
}

func TestLoad_MalformedIntegers(t *testing.T) {
	t.Setenv("GIGACHAT_API_KEY", "key")
	t.Setenv("EMAIL_ADDRESS", "intake@example.com")
	t.Setenv("EMAIL_PASSWORD", "secret")
	t.Setenv("SMTP_PASSWORD", "secret")

	t.Run("bad poll interval fails loudly", func(t *testing.T) {
		t.Setenv("POLL_INTERVAL_SECONDS", "30s")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POLL_INTERVAL_SECONDS")
	})

	t.Run("bad worker pool size fails loudly", func(t *testing.T) {
		t.Setenv("WORKER_POOL_SIZE", "many")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WORKER_POOL_SIZE")
	})
}
