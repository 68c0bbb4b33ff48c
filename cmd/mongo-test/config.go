package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Config struct {
	Mongo MongoConfig `mapstructure:"mongo"`
	Log   LogConfig   `mapstructure:"log"`
	Seed  SeedConfig  `mapstructure:"seed"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"` // DEBUG, INFO, WARN, ERROR
	Format string `mapstructure:"format"`
}

type SeedConfig struct {
	Count int   `mapstructure:"count"`
	Rand  int64 `mapstructure:"rand"`
	Drop  bool  `mapstructure:"drop"`
}

// flagKeys maps config keys to the command line flags that override them.
var flagKeys = map[string]string{
	"mongo.uri":        "uri",
	"mongo.database":   "database",
	"mongo.collection": "collection",
	"log.level":        "log-level",
	"log.format":       "log-format",
	"seed.count":       "count",
	"seed.rand":        "rand",
	"seed.drop":        "drop",
}

// loadConfig reads defaults, an optional config file, CRITERIA_* environment
// variables and finally the command flags, in increasing priority.
func loadConfig(cmd *cobra.Command, file string) (*Config, error) {
	v := viper.New()
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "criteria")
	v.SetDefault("mongo.collection", "users")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "text")
	v.SetDefault("seed.count", 200)
	v.SetDefault("seed.rand", 42)
	v.SetDefault("seed.drop", false)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	// CRITERIA_MONGO_URI -> mongo.uri
	v.SetEnvPrefix("CRITERIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
