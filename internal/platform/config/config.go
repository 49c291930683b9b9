// Package config centralizes runtime configuration so main stays lean.
// Values come from code defaults, an optional almanac.yaml, and ALMANAC_*
// environment variables, in increasing precedence.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Blob configures optional snapshot publishing to a blob store.
type Blob struct {
	Driver    string `mapstructure:"driver"` // "", "fs" or "s3"
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"` // optional, e.g. MinIO
	PathStyle bool   `mapstructure:"path_style"`
	Prefix    string `mapstructure:"prefix"`
	Dir       string `mapstructure:"dir"` // root for the fs driver
}

// Config holds all runtime configuration for the almanac service.
type Config struct {
	Addr             string        `mapstructure:"addr"`
	DataDir          string        `mapstructure:"data_dir"`
	SchemaDir        string        `mapstructure:"schema_dir"`
	SiteDir          string        `mapstructure:"site_dir"`
	EnrichTimeout    time.Duration `mapstructure:"enrich_timeout"`
	BuildConcurrency int           `mapstructure:"build_concurrency"`
	LogFormat        string        `mapstructure:"log_format"` // "json" or "text"
	Blob             Blob          `mapstructure:"blob"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("schema_dir", "schemas")
	viper.SetDefault("site_dir", "_site")
	viper.SetDefault("enrich_timeout", 10*time.Second)
	viper.SetDefault("build_concurrency", 4)
	viper.SetDefault("log_format", "json")
	viper.SetDefault("blob.driver", "")
	viper.SetDefault("blob.bucket", "")
	viper.SetDefault("blob.region", "us-east-1")
	viper.SetDefault("blob.endpoint", "")
	viper.SetDefault("blob.prefix", "")
	viper.SetDefault("blob.path_style", false)
	viper.SetDefault("blob.dir", "_blob")

	viper.SetEnvPrefix("ALMANAC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
