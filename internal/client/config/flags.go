package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/relief/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   storage driver: sqlite or postgres
//	-s string   storage DSN (sqlite file path or postgres URL)
//	-p string   connectivity probe URL
//	-i int      online check interval in seconds
//	-l string   UI language (en or am)
//	-v string   log level
//	-offline    start offline and never probe
//
// Only the flags above are picked out of args via flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args,
		[]string{"-d", "-s", "-p", "-i", "-l", "-v"},
		[]string{"-offline", "--offline"},
	)

	fs := flag.NewFlagSet("relief", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.StorageDriver, "d", cfg.StorageDriver, "storage driver (sqlite|postgres)")
	fs.StringVar(&cfg.StorageDSN, "s", cfg.StorageDSN, "storage DSN")
	fs.StringVar(&cfg.ProbeURL, "p", cfg.ProbeURL, "connectivity probe URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.Language, "l", cfg.Language, "UI language (en|am)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.BoolVar(&cfg.Offline, "offline", cfg.Offline, "start offline")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
