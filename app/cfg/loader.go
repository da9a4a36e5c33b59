package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP server
	Port      string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	StaticDir string `long:"static-dir" env:"STATIC_DIR" default:"./static" description:"Directory with the dashboard frontend (optional)"`

	// Storage
	StoreBackend string `long:"store" env:"STORE_BACKEND" default:"json" choice:"json" choice:"sqlite" description:"Persistence backend"`
	DataDir      string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Data directory for the JSON store"`
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./data/newshub.db" description:"SQLite database path"`

	// Scraping
	SourcesFile    string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"Optional YAML file overriding scrape origins"`
	ScrapeInterval int    `long:"scrape-interval" env:"SCRAPE_INTERVAL" default:"24" description:"Hours between scheduled aggregation passes"`
	HTTPTimeout    int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"15" description:"Timeout in seconds for origin fetches"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" description:"User agent string for origin fetches"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:           raw.Port,
		StaticDir:      raw.StaticDir,
		StoreBackend:   raw.StoreBackend,
		DataDir:        raw.DataDir,
		DBPath:         raw.DBPath,
		SourcesFile:    raw.SourcesFile,
		ScrapeInterval: raw.ScrapeInterval,
		HTTPTimeout:    raw.HTTPTimeout,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
