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

package config

import (
	"time"

	"github.com/sirseerhq/cdr-relay/internal/carrierx"
)

// Config represents the complete configuration for cdr-relay.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig holds the CarrierX connection settings. TokenEnv names the
// environment variable that holds the token when --token is not given.
// A zero Timeout leaves requests bounded only by the command context.
type APIConfig struct {
	Endpoint string        `yaml:"endpoint"`
	TokenEnv string        `yaml:"token_env"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DefaultsConfig holds defaults for the fetch command flags.
type DefaultsConfig struct {
	Format string `yaml:"format"`
}

// LoggingConfig controls the diagnostic log on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint: carrierx.DefaultEndpoint,
			TokenEnv: "CARRIERX_TOKEN",
		},
		Defaults: DefaultsConfig{
			Format: "csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
