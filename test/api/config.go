/*
Copyright 2026 the Test Hotel Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type TestConfig struct {
	BaseURL         string        `envconfig:"BASE_URL"`
	Username        string        `envconfig:"TEST_USERNAME"`
	Password        string        `envconfig:"TEST_PASSWORD"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	TestTimeout     time.Duration `envconfig:"TEST_TIMEOUT" default:"2m"`
	FixtureClientID int           `envconfig:"TEST_FIXTURE_CLIENT_ID" default:"1"`
	StrictFixtures  bool          `envconfig:"TEST_STRICT_FIXTURES" default:"false"`
	DebugLogging    bool          `envconfig:"DEBUG_LOGGING" default:"false"`
	LogRequests     bool          `envconfig:"LOG_REQUESTS" default:"false"`
	LogResponses    bool          `envconfig:"LOG_RESPONSES" default:"false"`

	// StubService is set once the in-process service has been started.
	StubService bool `ignored:"true"`
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{}

	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	// Validate required fields
	if err := validateRequiredFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// UseStubService is true when no remote service is configured and the
// suites should start the in-process one.
func (c *TestConfig) UseStubService() bool {
	return c.BaseURL == ""
}

// CheckFixtures reports whether the exact seed records can be asserted on,
// either because they were requested or because the service is the stub.
func (c *TestConfig) CheckFixtures() bool {
	return c.StrictFixtures || c.StubService
}

// String prints the configuration without the password.
func (c *TestConfig) String() string {
	password := ""
	if c.Password != "" {
		password = "[REDACTED]"
	}

	return fmt.Sprintf("{BaseURL:%s Username:%s Password:%s RequestTimeout:%s TestTimeout:%s FixtureClientID:%d StrictFixtures:%t StubService:%t}",
		c.BaseURL, c.Username, password, c.RequestTimeout, c.TestTimeout, c.FixtureClientID, c.StrictFixtures, c.StubService)
}

func loadEnvFile() {
	envPaths := []string{
		".env",
		"../.env",    // From test/api directory
		"../../.env", // From test/api/suites directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Variables already in the environment win over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
func validateRequiredFields(config *TestConfig) error {
	if config.UseStubService() {
		return nil
	}

	var missing []string

	required := []struct {
		envVar string
		value  string
	}{
		{"TEST_USERNAME", config.Username},
		{"TEST_PASSWORD", config.Password},
	}

	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s. Please set these environment variables or add them to a .env file", strings.Join(missing, ", "))
	}

	return nil
}
