package config

import (
	"github.com/dmitrijs2005/budgetkeeper/internal/configfile"
	"github.com/dmitrijs2005/budgetkeeper/internal/timex"
)

// FileConfig is a DTO used exclusively for decoding the config file (JSON or
// TOML). Only non-zero values override the current settings.
type FileConfig struct {
	ServerURL           string         `json:"server_url" toml:"server_url"`
	GRPCHealthAddr      string         `json:"grpc_health_addr" toml:"grpc_health_addr"`
	Probe               string         `json:"probe" toml:"probe"`
	AccessToken         string         `json:"access_token" toml:"access_token"`
	UserID              string         `json:"user_id" toml:"user_id"`
	DataDir             string         `json:"data_dir" toml:"data_dir"`
	MetricsAddr         string         `json:"metrics_addr" toml:"metrics_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" toml:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" toml:"request_timeout"`
	NotificationTTL     timex.Duration `json:"notification_ttl" toml:"notification_ttl"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, fc.ServerURL)
	setString(&cfg.GRPCHealthAddr, fc.GRPCHealthAddr)
	setString(&cfg.Probe, fc.Probe)
	setString(&cfg.AccessToken, fc.AccessToken)
	setString(&cfg.UserID, fc.UserID)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.NotificationTTL.Duration > 0 {
		cfg.NotificationTTL = fc.NotificationTTL.Duration
	}
}

// parseFile overlays cfg with the file at path. An empty path is a no-op.
func parseFile(cfg *Config, path string) error {
	var fc FileConfig
	if err := configfile.Load(path, &fc); err != nil {
		return err
	}
	fc.apply(cfg)
	return nil
}
