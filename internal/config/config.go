package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SOURCESCOPE"

// apiKeyEnvFallback is the conventional variable other Etherscan tooling reads.
const apiKeyEnvFallback = "ETHERSCAN_API_KEY"

// FetchConfig holds configuration for the fetch command.
type FetchConfig struct {
	Network           string
	APIKey            string
	ExplorerDomain    string
	Addresses         []string
	AddressFile       string
	Out               string
	PGDSN             string
	RPCURL            string
	Concurrency       int
	BatchSize         int
	Checkpoint        string
	CheckpointEnabled bool
	LogLevel          string
}

// LoadFetch merges config file, environment variables, and flags into FetchConfig.
func LoadFetch(cfgFile string, flags *pflag.FlagSet) (FetchConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("out", "./data/sources.jsonl")
		v.SetDefault("concurrency", 4)
		v.SetDefault("batch-size", 50)
		v.SetDefault("checkpoint", "./data/checkpoint.json")
		v.SetDefault("checkpoint-enabled", true)
	})
	if err != nil {
		return FetchConfig{}, err
	}

	cfg := FetchConfig{
		Network:           v.GetString("network"),
		APIKey:            v.GetString("api-key"),
		ExplorerDomain:    v.GetString("explorer-domain"),
		Addresses:         getStringSlice(v, "address"),
		AddressFile:       v.GetString("address-file"),
		Out:               v.GetString("out"),
		PGDSN:             v.GetString("pg-dsn"),
		RPCURL:            v.GetString("rpc"),
		Concurrency:       v.GetInt("concurrency"),
		BatchSize:         v.GetInt("batch-size"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		LogLevel:          v.GetString("log-level"),
	}

	return cfg, nil
}

// newViper builds a viper instance with the shared env, flag and file
// precedence. setDefaults registers command specific defaults.
func newViper(cfgFile string, flags *pflag.FlagSet, setDefaults func(v *viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api-key", envPrefix+"_API_KEY", apiKeyEnvFallback); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	v.SetDefault("network", "mainnet")
	v.SetDefault("log-level", "info")
	if setDefaults != nil {
		setDefaults(v)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
