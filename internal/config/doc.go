// Package config loads runtime configuration for the schedkeeper agent.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via -c or -config.
//     Files ending in .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-k string   cache driver: sqlite, redis or memory
//	-f string   SQLite cache file
//	-x string   Redis address
//	-n string   Redis key prefix
//	-r string   remote store driver: postgres, s3 or memory
//	-i string   identity driver: postgres or memory
//	-d string   PostgreSQL DSN
//	-s string   session token secret
//	-t int      session lifetime (minutes)
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-l string   log level
//	-o string   log format: text, json or console
//
// # File schema
//
// Durations use timex.Duration, so "12h" and integer nanoseconds both work:
//
//	{
//	  "cache_driver": "sqlite",
//	  "cache_path": "schedkeeper.db",
//	  "remote_driver": "postgres",
//	  "database_dsn": "postgres://localhost/schedkeeper",
//	  "session_ttl": "12h"
//	}
//
// Keys missing from the file keep their default.
package config
