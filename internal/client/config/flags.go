package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags binds command-line overrides onto a pflag.FlagSet. Call Register
// before parsing and Resolve after.
type Flags struct {
	ConfigFile string
	values     Config
}

// Register adds the persistent client flags to fs.
//
//	-c, --config string            path to a .json or .toml config file
//	-s, --server string            base URL of the budget API
//	    --grpc-health string       host:port of the gRPC health endpoint
//	    --probe string             connectivity probe: http or grpc
//	-t, --token string             bearer access token
//	-u, --user string              user id stamped on queued actions
//	-d, --data-dir string          directory for the local database
//	    --metrics-addr string      serve Prometheus metrics on this address
//	-i, --online-check duration    connectivity probe interval
//	    --timeout duration         per-request timeout
//	-v, --verbose                  debug logging
func (f *Flags) Register(fs *pflag.FlagSet) {
	d := Default()
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "path to a .json or .toml config file")
	fs.StringVarP(&f.values.ServerURL, "server", "s", d.ServerURL, "base URL of the budget API")
	fs.StringVar(&f.values.GRPCHealthAddr, "grpc-health", d.GRPCHealthAddr, "host:port of the gRPC health endpoint")
	fs.StringVar(&f.values.Probe, "probe", d.Probe, "connectivity probe: http or grpc")
	fs.StringVarP(&f.values.AccessToken, "token", "t", "", "bearer access token")
	fs.StringVarP(&f.values.UserID, "user", "u", "", "user id stamped on queued actions")
	fs.StringVarP(&f.values.DataDir, "data-dir", "d", d.DataDir, "directory for the local database")
	fs.StringVar(&f.values.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.DurationVarP(&f.values.OnlineCheckInterval, "online-check", "i", d.OnlineCheckInterval, "connectivity probe interval")
	fs.DurationVar(&f.values.RequestTimeout, "timeout", d.RequestTimeout, "per-request timeout")
	fs.BoolVarP(&f.values.Verbose, "verbose", "v", false, "debug logging")
}

// Resolve builds the Config: defaults, then the config file, then every flag
// that was set explicitly.
func (f *Flags) Resolve(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	if err := parseFile(cfg, f.ConfigFile); err != nil {
		return nil, err
	}

	overrides := map[string]func(){
		"server":       func() { cfg.ServerURL = f.values.ServerURL },
		"grpc-health":  func() { cfg.GRPCHealthAddr = f.values.GRPCHealthAddr },
		"probe":        func() { cfg.Probe = f.values.Probe },
		"token":        func() { cfg.AccessToken = f.values.AccessToken },
		"user":         func() { cfg.UserID = f.values.UserID },
		"data-dir":     func() { cfg.DataDir = f.values.DataDir },
		"metrics-addr": func() { cfg.MetricsAddr = f.values.MetricsAddr },
		"online-check": func() { cfg.OnlineCheckInterval = f.values.OnlineCheckInterval },
		"timeout":      func() { cfg.RequestTimeout = f.values.RequestTimeout },
		"verbose":      func() { cfg.Verbose = f.values.Verbose },
	}
	for name, set := range overrides {
		if fs.Changed(name) {
			set()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.Probe != ProbeHTTP && c.Probe != ProbeGRPC {
		return fmt.Errorf("unknown probe %q (want %s or %s)", c.Probe, ProbeHTTP, ProbeGRPC)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	return nil
}
