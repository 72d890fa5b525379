package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/elite/internal/client/environment"
	"github.com/dmitrijs2005/elite/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered to the flags handled here so other loaders' flags do not trip the
// parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-e", "-t", "-i", "-d", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "backend base URL")
	env := fs.String("e", string(cfg.Env), "environment mode (development|production)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "local store path")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicitly given flags apply, so sub-second JSON durations are not
	// truncated by the integer defaults above.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "e":
			mode, err := environment.ParseMode(*env)
			if err != nil {
				panic(err)
			}
			cfg.Env = mode
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
