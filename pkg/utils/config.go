package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the orbitd configuration.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Sim    SimConfig    `yaml:"sim" mapstructure:"sim"`
}

// ServerConfig contains the WebSocket serving settings.
type ServerConfig struct {
	Listen     string `yaml:"listen" mapstructure:"listen"`
	TickMillis int    `yaml:"tick_millis" mapstructure:"tick_millis"`
}

// SimConfig contains the simulation settings.
type SimConfig struct {
	// TimeScale is the simulated seconds advanced per tick.
	TimeScale float64 `yaml:"time_scale" mapstructure:"time_scale"`
	// Seed drives spacecraft spawning; fixed seeds give reproducible runs.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:     ":8088",
			TickMillis: 100,
		},
		Sim: SimConfig{
			TimeScale: 100,
			Seed:      1,
		},
	}
}

// LoadConfig reads the configuration from path, or from the default search
// paths when path is empty. A missing file yields the defaults. Environment
// variables prefixed ORBITD_ override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".orbitd"))
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("ORBITD")
	v.AutomaticEnv()

	config := DefaultConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound || os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// SaveConfig writes the configuration as YAML, creating parent directories.
func SaveConfig(config *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConfigPath returns the default config file location.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".orbitd", "config.yaml"), nil
}

func validateConfig(config *Config) error {
	if config.Server.Listen == "" {
		return fmt.Errorf("server listen address cannot be empty")
	}
	if config.Server.TickMillis <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if config.Sim.TimeScale <= 0 {
		return fmt.Errorf("time scale must be positive")
	}
	return nil
}
