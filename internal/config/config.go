package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Graph struct {
		BaseURL         string `yaml:"base_url"`
		TimeoutSeconds  int64  `yaml:"timeout_seconds"`
		Concurrency     int    `yaml:"concurrency"`
		StrictFiltering bool   `yaml:"strict_filtering"`
	} `yaml:"graph"`
	Storage struct {
		UsersFile       string `yaml:"users_file"`
		DatasetFile     string `yaml:"dataset_file"`
		AccessTokenFile string `yaml:"access_token_file"`
	} `yaml:"storage"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int64  `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Graph.BaseURL == "" {
		c.Graph.BaseURL = "https://graph.facebook.com"
	}
	if c.Graph.TimeoutSeconds <= 0 {
		c.Graph.TimeoutSeconds = 10
	}
	if c.Graph.Concurrency <= 0 {
		c.Graph.Concurrency = 8
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
}

// GraphTimeout returns the per-call timeout for Graph API requests.
func (c *Config) GraphTimeout() time.Duration {
	return time.Duration(c.Graph.TimeoutSeconds) * time.Second
}

// TokenTTL returns the lifetime of issued JWT tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// LoadAccessToken reads the Graph API bearer token from a JSON file of the
// form {"access_token": "..."}. The token is loaded once at startup.
func LoadAccessToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read access token file: %w", err)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("failed to parse access token file: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("access token file %s has no access_token", path)
	}

	return payload.AccessToken, nil
}
