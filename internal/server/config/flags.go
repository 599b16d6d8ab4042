package config

import (
	"flag"

	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC health bind address, "" to disable
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   validity of issued access tokens
//	-l int        dashboard rows per kind
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-r string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Arguments are first filtered with flagx.FilterArgs so flags meant for
// other parts of the command line (such as -issue) are ignored.
func parseFlags(c *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-l", "-u", "-p", "-b", "-r", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&c.HTTPAddr, "a", c.HTTPAddr, "HTTP address and port")
	fs.StringVar(&c.GRPCAddr, "g", c.GRPCAddr, "gRPC health address and port")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "database DSN")
	fs.StringVar(&c.SecretKey, "s", c.SecretKey, "secret key")
	fs.DurationVar(&c.AccessTokenValidity, "t", c.AccessTokenValidity, "access token validity")
	fs.IntVar(&c.DashboardLimit, "l", c.DashboardLimit, "dashboard rows per kind")

	fs.StringVar(&c.S3RootUser, "u", c.S3RootUser, "S3 root user")
	fs.StringVar(&c.S3RootPassword, "p", c.S3RootPassword, "S3 root password")
	fs.StringVar(&c.S3Bucket, "b", c.S3Bucket, "S3 bucket")
	fs.StringVar(&c.S3Region, "r", c.S3Region, "S3 region")
	fs.StringVar(&c.S3BaseEndpoint, "e", c.S3BaseEndpoint, "S3 base endpoint")

	return fs.Parse(args)
}
