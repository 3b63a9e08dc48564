/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

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

// Package config loads harness settings from the environment, an optional
// .env file and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

var (
	// ErrInvalid is raised when configuration fails validation.
	ErrInvalid = errors.New("invalid configuration")
)

// Config holds everything needed to run a lifecycle against an admin API.
type Config struct {
	AdminURL            string
	AdminToken          string
	Workspace           string
	RequestTimeout      time.Duration
	DeleteTimeout       time.Duration
	ConsistencyInterval time.Duration
	ConsistencyTimeout  time.Duration
	ServiceName         string
	RouteName           string
	UpstreamProtocol    string
	UpstreamHost        string
	UpstreamPort        int
	RoutePaths          []string
	RouteMethods        []string
	RouteStripPath      bool
	UniqueNames         bool
	SkipIntegration     bool
	LogRequests         bool
	LogResponses        bool
}

// Default returns a configuration with every value at its default.
func Default() *Config {
	return &Config{
		AdminURL:            "http://localhost:8001",
		RequestTimeout:      10 * time.Second,
		DeleteTimeout:       30 * time.Second,
		ConsistencyInterval: 250 * time.Millisecond,
		ConsistencyTimeout:  5 * time.Second,
		ServiceName:         "lifecycle-test-service",
		RouteName:           "lifecycle-test-route",
		UpstreamProtocol:    "http",
		UpstreamHost:        "httpbin.org",
		UpstreamPort:        80,
		RoutePaths:          []string{"/lifecycle-test-api/*"},
		RouteMethods:        []string{"GET", "POST"},
		RouteStripPath:      true,
	}
}

// Load loads configuration from environment variables and .env files.
// Flags registered with AddFlags may override the result afterwards.
func Load() (*Config, error) {
	loadEnvFile()

	return FromEnv(os.Getenv)
}

// FromEnv builds a configuration using the supplied lookup function, which
// returns an empty string for unset keys.  Values that don't parse are all
// reported in a single error.
func FromEnv(getenv func(string) string) (*Config, error) {
	c := Default()
	e := &env{getenv: getenv}

	c.AdminURL = e.getStringWithDefault("KONG_ADMIN_URL", c.AdminURL)
	c.AdminToken = getenv("KONG_ADMIN_TOKEN")
	c.Workspace = getenv("KONG_WORKSPACE")
	c.RequestTimeout = e.getDurationWithDefault("REQUEST_TIMEOUT", c.RequestTimeout)
	c.DeleteTimeout = e.getDurationWithDefault("DELETE_TIMEOUT", c.DeleteTimeout)
	c.ConsistencyInterval = e.getDurationWithDefault("CONSISTENCY_INTERVAL", c.ConsistencyInterval)
	c.ConsistencyTimeout = e.getDurationWithDefault("CONSISTENCY_TIMEOUT", c.ConsistencyTimeout)
	c.ServiceName = e.getStringWithDefault("TEST_SERVICE_NAME", c.ServiceName)
	c.RouteName = e.getStringWithDefault("TEST_ROUTE_NAME", c.RouteName)
	c.UpstreamProtocol = e.getStringWithDefault("TEST_UPSTREAM_PROTOCOL", c.UpstreamProtocol)
	c.UpstreamHost = e.getStringWithDefault("TEST_UPSTREAM_HOST", c.UpstreamHost)
	c.UpstreamPort = e.getIntWithDefault("TEST_UPSTREAM_PORT", c.UpstreamPort)
	c.RoutePaths = e.getListWithDefault("TEST_ROUTE_PATHS", c.RoutePaths)
	c.RouteMethods = e.getListWithDefault("TEST_ROUTE_METHODS", c.RouteMethods)
	c.RouteStripPath = e.getBoolWithDefault("TEST_ROUTE_STRIP_PATH", c.RouteStripPath)
	c.UniqueNames = e.getBoolWithDefault("TEST_UNIQUE_NAMES", false)
	c.SkipIntegration = e.getBoolWithDefault("SKIP_INTEGRATION", false)
	c.LogRequests = e.getBoolWithDefault("LOG_REQUESTS", false)
	c.LogResponses = e.getBoolWithDefault("LOG_RESPONSES", false)

	if len(e.problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(e.problems, "; "))
	}

	return c, nil
}

// AddFlags registers a flag for every setting, defaulting to the current value.
func (c *Config) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&c.AdminURL, "admin-url", c.AdminURL, "Kong admin API base URL.")
	f.StringVar(&c.AdminToken, "admin-token", c.AdminToken, "Kong-Admin-Token header value, if RBAC is enabled.")
	f.StringVar(&c.Workspace, "workspace", c.Workspace, "Kong workspace to operate in.")
	f.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "Timeout for create and read requests.")
	f.DurationVar(&c.DeleteTimeout, "delete-timeout", c.DeleteTimeout, "Timeout for delete requests.")
	f.DurationVar(&c.ConsistencyInterval, "consistency-interval", c.ConsistencyInterval, "Polling interval when waiting for deletions to be visible.")
	f.DurationVar(&c.ConsistencyTimeout, "consistency-timeout", c.ConsistencyTimeout, "How long to wait for deletions to be visible.")
	f.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Name of the test service.")
	f.StringVar(&c.RouteName, "route-name", c.RouteName, "Name of the test route.")
	f.StringVar(&c.UpstreamProtocol, "upstream-protocol", c.UpstreamProtocol, "Upstream protocol of the test service.")
	f.StringVar(&c.UpstreamHost, "upstream-host", c.UpstreamHost, "Upstream host of the test service.")
	f.IntVar(&c.UpstreamPort, "upstream-port", c.UpstreamPort, "Upstream port of the test service.")
	f.StringSliceVar(&c.RoutePaths, "route-paths", c.RoutePaths, "Paths matched by the test route.")
	f.StringSliceVar(&c.RouteMethods, "route-methods", c.RouteMethods, "Methods matched by the test route.")
	f.BoolVar(&c.RouteStripPath, "route-strip-path", c.RouteStripPath, "Whether the test route strips the matched path.")
	f.BoolVar(&c.UniqueNames, "unique-names", c.UniqueNames, "Append a random suffix to resource names.")
	f.BoolVar(&c.LogRequests, "log-requests", c.LogRequests, "Log every admin API request.")
	f.BoolVar(&c.LogResponses, "log-responses", c.LogResponses, "Log every admin API response body.")
}

// Validate checks the configuration is usable, reporting every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.AdminURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("admin URL %q must be an absolute URL", c.AdminURL))
	}

	if c.ServiceName == "" {
		problems = append(problems, "service name must be set")
	}

	if c.RouteName == "" {
		problems = append(problems, "route name must be set")
	}

	if c.UpstreamProtocol == "" || c.UpstreamHost == "" {
		problems = append(problems, "upstream protocol and host must be set")
	}

	if c.UpstreamPort < 1 || c.UpstreamPort > 65535 {
		problems = append(problems, fmt.Sprintf("upstream port %d out of range", c.UpstreamPort))
	}

	if len(c.RoutePaths) == 0 {
		problems = append(problems, "at least one route path is required")
	}

	if len(c.RouteMethods) == 0 {
		problems = append(problems, "at least one route method is required")
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"request timeout", c.RequestTimeout},
		{"delete timeout", c.DeleteTimeout},
		{"consistency interval", c.ConsistencyInterval},
		{"consistency timeout", c.ConsistencyTimeout},
	}

	for _, t := range timeouts {
		if t.value <= 0 {
			problems = append(problems, t.name+" must be positive")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	return nil
}

// env reads typed values from the environment, remembering any that
// fail to parse.
type env struct {
	getenv   func(string) string
	problems []string
}

func (e *env) invalid(key, value, kind string) {
	e.problems = append(e.problems, fmt.Sprintf("%s %q is not %s", key, value, kind))
}

func (e *env) getStringWithDefault(key, defaultValue string) string {
	if value := e.getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func (e *env) getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := e.getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		e.invalid(key, value, "a duration")
		return defaultValue
	}

	return duration
}

func (e *env) getIntWithDefault(key string, defaultValue int) int {
	value := e.getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		e.invalid(key, value, "an integer")
		return defaultValue
	}

	return intValue
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func (e *env) getBoolWithDefault(key string, defaultValue bool) bool {
	value := e.getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		e.invalid(key, value, "a boolean")
		return defaultValue
	}

	return boolValue
}

// getListWithDefault splits a comma separated variable, dropping empty items.
func (e *env) getListWithDefault(key string, defaultValue []string) []string {
	value := e.getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string

	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}

	return list
}

func loadEnvFile() {
	envPaths := []string{
		".env",
		"test/.env",
		"../../test/.env",       // From test/e2e.
		"../../../../test/.env", // From test/contracts/consumer/kong.
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

	// Existing environment variables take precedence over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}
