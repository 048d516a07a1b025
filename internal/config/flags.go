package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/flagx"
)

var knownFlags = []string{
	"-k", "-f", "-x", "-n", "-r", "-i", "-d", "-s", "-t",
	"-u", "-p", "-b", "-g", "-e", "-l", "-o",
}

// parseFlags overlays command-line flags onto config. Only the flags listed
// in the package doc are considered; anything else in os.Args is ignored.
// The session lifetime is given in whole minutes. A malformed value panics.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.CacheDriver, "k", config.CacheDriver, "cache driver (sqlite, redis, memory)")
	fs.StringVar(&config.CachePath, "f", config.CachePath, "SQLite cache file")
	fs.StringVar(&config.RedisAddr, "x", config.RedisAddr, "Redis address")
	fs.StringVar(&config.RedisPrefix, "n", config.RedisPrefix, "Redis key prefix")
	fs.StringVar(&config.RemoteDriver, "r", config.RemoteDriver, "remote store driver (postgres, s3, memory)")
	fs.StringVar(&config.IdentityDriver, "i", config.IdentityDriver, "identity driver (postgres, memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session token secret")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogFormat, "o", config.LogFormat, "log format (text, json, console)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
		}
	})
}
