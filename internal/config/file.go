package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/schedkeeper/internal/flagx"
	"github.com/dmitrijs2005/schedkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of Config. Pointer fields tell a missing
// key apart from an empty value.
type fileConfig struct {
	CacheDriver    *string         `json:"cache_driver" yaml:"cache_driver"`
	CachePath      *string         `json:"cache_path" yaml:"cache_path"`
	RedisAddr      *string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPrefix    *string         `json:"redis_prefix" yaml:"redis_prefix"`
	RemoteDriver   *string         `json:"remote_driver" yaml:"remote_driver"`
	IdentityDriver *string         `json:"identity_driver" yaml:"identity_driver"`
	DatabaseDSN    *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey      *string         `json:"secret_key" yaml:"secret_key"`
	SessionTTL     *timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	S3AccessKey    *string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    *string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket       *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	LogFormat      *string         `json:"log_format" yaml:"log_format"`
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// parseFile overlays values from the file named by -c/-config onto config.
// Without the flag nothing is loaded. An unreadable or malformed file
// panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &fileConfig{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, c)
	} else {
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func (c *fileConfig) apply(config *Config) {
	setString(&config.CacheDriver, c.CacheDriver)
	setString(&config.CachePath, c.CachePath)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPrefix, c.RedisPrefix)
	setString(&config.RemoteDriver, c.RemoteDriver)
	setString(&config.IdentityDriver, c.IdentityDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}
