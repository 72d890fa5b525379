package config

import (
	"os"

	"github.com/dmitrijs2005/elite/internal/client/environment"
	"github.com/dmitrijs2005/elite/internal/flagx"
)

// parseEnv merges the dotenv file (if any) into the process environment and
// overlays the ELITE_* variables that are set.
func parseEnv(cfg *Config) {
	if err := environment.LoadDotEnv(flagx.EnvFileFlag()); err != nil {
		panic(err)
	}

	if v, ok := os.LookupEnv(environment.EnvVar); ok {
		mode, err := environment.ParseMode(v)
		if err != nil {
			panic(err)
		}
		cfg.Env = mode
	}

	lookup := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	lookup("ELITE_BASE_URL", &cfg.BaseURL)
	lookup("ELITE_STORE_PATH", &cfg.StorePath)
	lookup("ELITE_STORE_SECRET", &cfg.StoreSecret)
	lookup("ELITE_METRICS_ADDR", &cfg.MetricsAddr)
}
