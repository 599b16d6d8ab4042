// Package config holds the asset proxy settings: defaults, then an optional
// JSON or TOML file (-c/-config), then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/assetcache"
	"github.com/dmitrijs2005/budgetkeeper/internal/configfile"
	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
	"github.com/dmitrijs2005/budgetkeeper/internal/timex"
)

type Config struct {
	ListenAddr   string
	OriginURL    string
	CacheVersion string
	ShellAssets  []string
	// CacheDB is the SQLite file for cached responses; empty keeps them in
	// memory.
	CacheDB      string
	FetchTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8081"
	c.OriginURL = "http://127.0.0.1:3000"
	c.CacheVersion = assetcache.DefaultVersion
	c.ShellAssets = append([]string(nil), assetcache.DefaultShellAssets...)
	c.CacheDB = "assetcache.db"
	c.FetchTimeout = 30 * time.Second
}

type FileConfig struct {
	ListenAddr   string         `json:"listen_addr" toml:"listen_addr"`
	OriginURL    string         `json:"origin_url" toml:"origin_url"`
	CacheVersion string         `json:"cache_version" toml:"cache_version"`
	ShellAssets  []string       `json:"shell_assets" toml:"shell_assets"`
	CacheDB      *string        `json:"cache_db" toml:"cache_db"`
	FetchTimeout timex.Duration `json:"fetch_timeout" toml:"fetch_timeout"`
}

func (fc *FileConfig) apply(c *Config) {
	if fc.ListenAddr != "" {
		c.ListenAddr = fc.ListenAddr
	}
	if fc.OriginURL != "" {
		c.OriginURL = fc.OriginURL
	}
	if fc.CacheVersion != "" {
		c.CacheVersion = fc.CacheVersion
	}
	if len(fc.ShellAssets) > 0 {
		c.ShellAssets = fc.ShellAssets
	}
	if fc.CacheDB != nil {
		c.CacheDB = *fc.CacheDB
	}
	if fc.FetchTimeout.Duration > 0 {
		c.FetchTimeout = fc.FetchTimeout.Duration
	}
}

// parseFlags applies the flags understood by the proxy.
//
//	-a string     listen address (e.g. ":8081")
//	-o string     origin URL of the web app
//	-v string     cache version tag
//	-db string    SQLite cache file, "" for memory
//	-assets list  comma-separated shell asset paths
//	-t duration   live fetch timeout
func parseFlags(c *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-o", "-v", "-db", "-assets", "-t"})

	fs := flag.NewFlagSet("assetproxy", flag.ContinueOnError)
	fs.StringVar(&c.ListenAddr, "a", c.ListenAddr, "listen address")
	fs.StringVar(&c.OriginURL, "o", c.OriginURL, "origin URL")
	fs.StringVar(&c.CacheVersion, "v", c.CacheVersion, "cache version tag")
	fs.StringVar(&c.CacheDB, "db", c.CacheDB, "SQLite cache file (empty for memory)")
	assets := fs.String("assets", strings.Join(c.ShellAssets, ","), "comma-separated shell asset paths")
	fs.DurationVar(&c.FetchTimeout, "t", c.FetchTimeout, "live fetch timeout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c.ShellAssets = c.ShellAssets[:0]
	for _, a := range strings.Split(*assets, ",") {
		if a = strings.TrimSpace(a); a != "" {
			c.ShellAssets = append(c.ShellAssets, a)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.OriginURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid origin url %q", c.OriginURL)
	}
	if c.CacheVersion == "" {
		return errors.New("cache version is required")
	}
	if len(c.ShellAssets) == 0 {
		return errors.New("at least one shell asset is required")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}
	return nil
}

// Origin returns the parsed origin URL. Call Validate first.
func (c *Config) Origin() *url.URL {
	u, _ := url.Parse(c.OriginURL)
	return u
}

// LoadConfig builds a Config from defaults, the optional config file and
// args (typically os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	var fc FileConfig
	if err := configfile.Load(flagx.ConfigFileFlag(args), &fc); err != nil {
		return nil, err
	}
	fc.apply(cfg)

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
