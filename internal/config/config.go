// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads cdr-relay settings from a YAML file and the
// environment.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// Flags are applied by the CLI after LoadConfig returns.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sirseerhq/cdr-relay/internal/output"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .cdr-relay.yaml (current directory)
//   - .cdr-relay.yml (current directory)
//   - ~/.sirseer/cdr-relay.yaml
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(expandPath(configPath), cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Logging.File = expandPath(cfg.Logging.File)

	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{
		".cdr-relay.yaml",
		".cdr-relay.yml",
	}
	if home := homeDir(); home != "" {
		paths = append(paths, filepath.Join(home, ".sirseer", "cdr-relay.yaml"))
	}
	return paths
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	if endpoint := os.Getenv("CARRIERX_API_ENDPOINT"); endpoint != "" {
		cfg.API.Endpoint = endpoint
	}
	if timeout := os.Getenv("CDR_RELAY_TIMEOUT"); timeout != "" {
		d, err := parseTimeout(timeout)
		if err != nil {
			return fmt.Errorf("CDR_RELAY_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}

	if format := os.Getenv("CDR_RELAY_FORMAT"); format != "" {
		cfg.Defaults.Format = format
	}

	if level := os.Getenv("CDR_RELAY_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("CDR_RELAY_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return os.Getenv("USERPROFILE") // Windows
}

// parseTimeout accepts a Go duration ("90s", "2m") or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := parsePositiveInt(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	return time.Duration(secs) * time.Second, nil
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	var rest string
	n, _ := fmt.Sscanf(s, "%d%s", &i, &rest)
	if n != 1 {
		return 0, fmt.Errorf("failed to parse integer from '%s'", s)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// Validate checks if the configuration contains valid values. Call it after
// flags have been applied so that bad overrides are caught as well.
func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("API endpoint cannot be empty")
	}
	u, err := url.Parse(c.API.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API endpoint %q must be an http or https URL", c.API.Endpoint)
	}
	if c.API.TokenEnv == "" {
		return fmt.Errorf("token environment variable name cannot be empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("API timeout must not be negative, got: %s", c.API.Timeout)
	}
	if _, err := output.ParseFormat(c.Defaults.Format); err != nil {
		return fmt.Errorf("default format: %w", err)
	}
	return nil
}
