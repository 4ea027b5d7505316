package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Mailbox  MailboxConfig
	Outbound OutboundConfig
	GigaChat GigaChatConfig
	Store    StoreConfig
	Database DatabaseConfig
	Poller   PollerConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port string
}

// MailboxConfig holds IMAP credentials for the monitored inbox.
type MailboxConfig struct {
	Host     string
	Address  string
	Password string
}

// OutboundConfig selects and configures one of the interchangeable mail
// transports: smtp, resend, or gmail_api.
type OutboundConfig struct {
	Transport string
	FromName  string

	SMTPHost     string
	SMTPPort     string
	SMTPPassword string

	ResendAPIKey    string
	ResendFromEmail string

	GmailClientID     string
	GmailClientSecret string
	GmailAccessToken  string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

type StoreConfig struct {
	Backend     string // file or postgres
	ResultsFile string
	RubricsPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type PollerConfig struct {
	Enabled     bool
	Interval    time.Duration
	WorkerCount int
	IncomingDir string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	interval, err := getEnvInt("POLL_INTERVAL_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("WORKER_POOL_SIZE", 3)
	if err != nil {
		return nil, err
	}
	dbMaxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"
	pollerEnabled := getEnv("POLLER_ENABLED", "true") == "true"

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Mailbox: MailboxConfig{
			Host:     getEnv("IMAP_HOST", "imap.gmail.com:993"),
			Address:  getEnv("EMAIL_ADDRESS", ""),
			Password: getEnv("EMAIL_PASSWORD", ""),
		},
		Outbound: OutboundConfig{
			Transport:         getEnv("MAIL_TRANSPORT", "smtp"),
			FromName:          getEnv("FROM_NAME", "Financial Analyzer"),
			SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:          getEnv("SMTP_PORT", "587"),
			SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
			ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
			ResendFromEmail:   getEnv("RESEND_FROM_EMAIL", ""),
			GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
			GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
			GmailAccessToken:  getEnv("GMAIL_ACCESS_TOKEN", ""),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		Store: StoreConfig{
			Backend:     getEnv("STORE_BACKEND", "file"),
			ResultsFile: getEnv("RESULTS_FILE", "analysis_results.json"),
			RubricsPath: getEnv("RUBRICS_PATH", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "finreview"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Poller: PollerConfig{
			Enabled:     pollerEnabled,
			Interval:    time.Duration(interval) * time.Second,
			WorkerCount: workers,
			IncomingDir: getEnv("INCOMING_DIR", "incoming_pdfs"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces that every credential required by the selected
// configuration is present. A missing credential is fatal at startup; the
// process must not start degraded.
func (c *Config) Validate() error {
	var missing []string

	if c.GigaChat.APIKey == "" {
		missing = append(missing, "GIGACHAT_API_KEY")
	}

	if c.Poller.Enabled {
		if c.Poller.Interval <= 0 {
			return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive, got %s", c.Poller.Interval)
		}
		if c.Mailbox.Address == "" {
			missing = append(missing, "EMAIL_ADDRESS")
		}
		if c.Mailbox.Password == "" {
			missing = append(missing, "EMAIL_PASSWORD")
		}

		switch c.Outbound.Transport {
		case "smtp":
			if c.Outbound.SMTPPassword == "" {
				missing = append(missing, "SMTP_PASSWORD")
			}
		case "resend":
			if c.Outbound.ResendAPIKey == "" {
				missing = append(missing, "RESEND_API_KEY")
			}
		case "gmail_api":
			if c.Outbound.GmailClientID == "" {
				missing = append(missing, "GMAIL_CLIENT_ID")
			}
			if c.Outbound.GmailClientSecret == "" {
				missing = append(missing, "GMAIL_CLIENT_SECRET")
			}
			if c.Outbound.GmailAccessToken == "" {
				missing = append(missing, "GMAIL_ACCESS_TOKEN")
			}
		default:
			return fmt.Errorf("unknown MAIL_TRANSPORT %q (expected smtp, resend, or gmail_api)", c.Outbound.Transport)
		}
	}

	if c.Store.Backend != "file" && c.Store.Backend != "postgres" {
		return fmt.Errorf("unknown STORE_BACKEND %q (expected file or postgres)", c.Store.Backend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer env var; a malformed value is an error, not a
// silent zero.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
