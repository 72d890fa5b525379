package config

import (
	"time"

	"github.com/dmitrijs2005/elite/internal/client/environment"
)

// Config holds runtime settings for the Elite client.
type Config struct {
	Env environment.Mode

	// BaseURL, when set, is used as-is and skips candidate probing.
	BaseURL         string
	DevelopmentURLs []string
	ProductionURLs  []string

	RequestTimeout      time.Duration
	ProbeTimeout        time.Duration
	OnlineCheckInterval time.Duration
	MessagePollInterval time.Duration

	StorePath   string
	StoreSecret string
	MetricsAddr string

	RefreshEnabled bool
	RefreshLeeway  time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Env = environment.Development
	c.BaseURL = ""
	c.DevelopmentURLs = []string{
		"http://172.20.10.2:8000",
		"http://192.168.1.100:8000",
		"http://10.0.2.2:8000",
	}
	c.ProductionURLs = []string{"https://your-production-api.com"}
	c.RequestTimeout = 15 * time.Second
	c.ProbeTimeout = 5 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.MessagePollInterval = 3 * time.Second
	c.StorePath = "elite.db"
	c.StoreSecret = ""
	c.MetricsAddr = ""
	c.RefreshEnabled = true
	c.RefreshLeeway = 30 * time.Second
}

// Candidates returns the ordered base URLs to try for the configured mode.
func (c *Config) Candidates() []string {
	if c.BaseURL != "" {
		return []string{c.BaseURL}
	}
	if c.Env == environment.Production {
		return c.ProductionURLs
	}
	return c.DevelopmentURLs
}

func (c *Config) Production() bool {
	return c.Env == environment.Production
}

// LoadConfig constructs a Config, applies defaults, then overlays the
// environment, JSON (if present) and command-line flags. Later sources take
// precedence over earlier ones. Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
