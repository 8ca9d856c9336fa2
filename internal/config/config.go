package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads the YAML config file at path, applies defaults and environment
// overrides for exchange credentials, and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigFile(abs)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", abs, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides lets credentials live outside the config file.
func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env  string
		dest *string
	}{
		{"DELTA_TESTNET_API_KEY", &c.Delta.Testnet.APIKey},
		{"DELTA_TESTNET_SECRET", &c.Delta.Testnet.APISecret},
		{"DELTA_LIVE_API_KEY", &c.Delta.Live.APIKey},
		{"DELTA_LIVE_SECRET", &c.Delta.Live.APISecret},
	}
	for _, o := range overrides {
		if val := os.Getenv(o.env); val != "" {
			*o.dest = val
		}
	}
}
