package config

import (
	"github.com/dmitrijs2005/budgetkeeper/internal/configfile"
	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
	"github.com/dmitrijs2005/budgetkeeper/internal/timex"
)

// FileConfig is the DTO read from the config file. Durations accept "1h"
// or integer nanoseconds. Zero values leave the current setting alone.
type FileConfig struct {
	HTTPAddr            string         `json:"http_addr" toml:"http_addr"`
	GRPCAddr            *string        `json:"grpc_addr" toml:"grpc_addr"`
	DatabaseDSN         string         `json:"database_dsn" toml:"database_dsn"`
	SecretKey           string         `json:"secret_key" toml:"secret_key"`
	AccessTokenValidity timex.Duration `json:"access_token_validity" toml:"access_token_validity"`
	DashboardLimit      int            `json:"dashboard_limit" toml:"dashboard_limit"`
	S3RootUser          string         `json:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword      string         `json:"s3_root_password" toml:"s3_root_password"`
	S3Bucket            string         `json:"s3_bucket" toml:"s3_bucket"`
	S3Region            string         `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddr, fc.HTTPAddr)
	if fc.GRPCAddr != nil {
		c.GRPCAddr = *fc.GRPCAddr
	}
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	if fc.AccessTokenValidity.Duration > 0 {
		c.AccessTokenValidity = fc.AccessTokenValidity.Duration
	}
	if fc.DashboardLimit > 0 {
		c.DashboardLimit = fc.DashboardLimit
	}
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
}

// parseFile loads the file named by -c/-config, if any.
func parseFile(c *Config, args []string) error {
	var fc FileConfig
	if err := configfile.Load(flagx.ConfigFileFlag(args), &fc); err != nil {
		return err
	}
	fc.apply(c)
	return nil
}
