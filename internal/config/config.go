package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"fcbox-relay/internal/protocol"
)

type Config struct {
	Server struct {
		Port    int  `yaml:"port"`
		Verbose bool `yaml:"verbose"`
	} `yaml:"server"`

	Vendor struct {
		BaseURL        string `yaml:"base_url"`
		StandaloneMode bool   `yaml:"standalone_mode"`
	} `yaml:"vendor"`
}

func Load(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	if config.Vendor.BaseURL == "" {
		config.Vendor.BaseURL = protocol.DefaultBaseURL
	}

	return &config
}
