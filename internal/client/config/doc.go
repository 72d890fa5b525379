// Package config loads runtime configuration for the Elite terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, after merging an optional dotenv file
//     (-env-file, default ".env").
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend base URL; disables candidate probing
//	-e string   environment mode: development | production
//	-t int      per-request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-d string   path of the local SQLite store ("" keeps the session in memory)
//	-m string   listen address for the Prometheus /metrics endpoint
//
// Environment variables
//
//	ELITE_ENV, ELITE_BASE_URL, ELITE_STORE_PATH, ELITE_STORE_SECRET,
//	ELITE_METRICS_ADDR
//
// # JSON schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work:
//
//	{
//	  "env": "development",
//	  "base_url": "",
//	  "development_urls": ["http://172.20.10.2:8000", "http://10.0.2.2:8000"],
//	  "production_urls": ["https://api.example.com"],
//	  "request_timeout": "15s",
//	  "probe_timeout": "5s",
//	  "online_check_interval": "3s",
//	  "message_poll_interval": "3s",
//	  "store_path": "elite.db",
//	  "metrics_addr": ":9091",
//	  "refresh_enabled": true,
//	  "refresh_leeway": "30s"
//	}
package config
