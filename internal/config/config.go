package config

import (
	"os"

	"github.com/pizza-nz/backend-simulator/internal/fixtures"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server Server `yaml:"server"`

	Upstream Upstream `yaml:"upstream"`

	Token Token `yaml:"token"`

	Logging Logging `yaml:"logging"`

	// Users seeds the valid account set; the standard demo users are used
	// when empty.
	Users []fixtures.SeedUser `yaml:"users"`
}

type Server struct {
	Address string `yaml:"address"`
}

type Upstream struct {
	// URL is where unmatched requests pass through to. Empty disables
	// passthrough.
	URL string `yaml:"url"`
}

type Token struct {
	Secret string `yaml:"secret"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := "configs/simulator.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
