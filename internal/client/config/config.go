package config

import "time"

const (
	ProbeHTTP = "http"
	ProbeGRPC = "grpc"
)

// Config holds runtime settings for the budget CLI.
type Config struct {
	ServerURL      string
	GRPCHealthAddr string
	Probe          string
	AccessToken    string
	UserID         string
	DataDir        string
	MetricsAddr    string
	Verbose        bool

	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	NotificationTTL     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.GRPCHealthAddr = "127.0.0.1:50051"
	c.Probe = ProbeHTTP
	c.DataDir = ".budget"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.NotificationTTL = 3200 * time.Millisecond
}

// Default returns a Config with defaults applied.
func Default() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}
