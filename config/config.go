package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"mfgledger/logger"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration holds everything the service needs at startup.
type Configuration struct {
	Port    string `env:"PORT" envDefault:"1414"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	StoreDriver  string        `env:"STORE_DRIVER" envDefault:"mongo"` // mongo | memory
	MongoURI     string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB      string        `env:"MONGO_DB" envDefault:"mfgportal"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`

	JWTSecret          string        `env:"JWT_SECRET" envDefault:"my_secret_key"`
	AdminPin           string        `env:"ADMIN_PIN" envDefault:"123456"`
	LoginRemoteTimeout time.Duration `env:"LOGIN_REMOTE_TIMEOUT" envDefault:"5s"`
	SeedSampleAgent    bool          `env:"SEED_SAMPLE_AGENT" envDefault:"true"`

	ReportPageSize int    `env:"REPORT_PAGE_SIZE" envDefault:"9"`
	Timezone       string `env:"TIMEZONE" envDefault:"Asia/Jakarta"`

	CORSOrigins       string `env:"CORS_ORIGINS" envDefault:"*"`
	MetricsAllowedIPs string `env:"METRICS_ALLOWED_IPS" envDefault:"127.0.0.1"`

	SMTP SMTPConfig
	Log  logger.LogConfig
}

// SMTPConfig is optional; an empty Host disables outgoing mail.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"465"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
	To       string `env:"REPORT_EMAIL_TO"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.To != ""
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(files ...string) (*Configuration, error) {
	// a missing .env is fine, the process env still applies
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		logger.Log().WithError(err).Warn("config: .env not loaded")
	}

	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := env.Parse(&cfg.SMTP); err != nil {
		return nil, fmt.Errorf("failed to parse smtp config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to parse log config: %w", err)
	}
	if cfg.ReportPageSize <= 0 {
		cfg.ReportPageSize = 9
	}
	return cfg, nil
}

func (c *Configuration) Origins() []string {
	return splitList(c.CORSOrigins)
}

func (c *Configuration) MetricsIPs() []string {
	return splitList(c.MetricsAllowedIPs)
}

func (c *Configuration) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logger.Log().Warnf("config: unknown timezone %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
