package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/elite/internal/client/environment"
	"github.com/dmitrijs2005/elite/internal/flagx"
	"github.com/dmitrijs2005/elite/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	Env                 string          `json:"env"`
	BaseURL             string          `json:"base_url"`
	DevelopmentURLs     []string        `json:"development_urls"`
	ProductionURLs      []string        `json:"production_urls"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	ProbeTimeout        *timex.Duration `json:"probe_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	MessagePollInterval *timex.Duration `json:"message_poll_interval"`
	StorePath           *string         `json:"store_path"`
	MetricsAddr         string          `json:"metrics_addr"`
	RefreshEnabled      *bool           `json:"refresh_enabled"`
	RefreshLeeway       *timex.Duration `json:"refresh_leeway"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Without either flag it does nothing. Read or unmarshal errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Env != "" {
		mode, err := environment.ParseMode(jc.Env)
		if err != nil {
			panic(err)
		}
		cfg.Env = mode
	}
	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if len(jc.DevelopmentURLs) > 0 {
		cfg.DevelopmentURLs = jc.DevelopmentURLs
	}
	if len(jc.ProductionURLs) > 0 {
		cfg.ProductionURLs = jc.ProductionURLs
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ProbeTimeout != nil {
		cfg.ProbeTimeout = jc.ProbeTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.MessagePollInterval != nil {
		cfg.MessagePollInterval = jc.MessagePollInterval.Duration
	}
	if jc.StorePath != nil {
		cfg.StorePath = *jc.StorePath
	}
	if jc.MetricsAddr != "" {
		cfg.MetricsAddr = jc.MetricsAddr
	}
	if jc.RefreshEnabled != nil {
		cfg.RefreshEnabled = *jc.RefreshEnabled
	}
	if jc.RefreshLeeway != nil {
		cfg.RefreshLeeway = jc.RefreshLeeway.Duration
	}
}
