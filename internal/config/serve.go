package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Listen         string
	Network        string
	APIKey         string
	ExplorerDomain string
	LogLevel       string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("listen", ":8080")
	})
	if err != nil {
		return ServeConfig{}, err
	}

	return ServeConfig{
		Listen:         v.GetString("listen"),
		Network:        v.GetString("network"),
		APIKey:         v.GetString("api-key"),
		ExplorerDomain: v.GetString("explorer-domain"),
		LogLevel:       v.GetString("log-level"),
	}, nil
}
