package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents a profile file: a set of named environments the CLI can
// target instead of passing --host and headers by hand.
type Config struct {
	Default      string                 `json:"default,omitempty" yaml:"default,omitempty"`
	Environments map[string]Environment `json:"environments" yaml:"environments"`
}

// Environment describes one API target
type Environment struct {
	Host      string            `json:"host" yaml:"host"`
	Version   string            `json:"version,omitempty" yaml:"version,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Vars      map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	Insecure  bool              `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	EncodeURL bool              `json:"encodeUrl,omitempty" yaml:"encodeUrl,omitempty"`
	Timeout   string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoadConfig loads and validates a profile file. Files ending in .yaml or
// .yml are parsed as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if errs := ValidateConfig(&config); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid config file %s: %s", path, strings.Join(msgs, "; "))
	}

	return &config, nil
}

// Environment returns the named environment with its variables applied.
// An empty name selects the default environment, or the only one defined.
func (c *Config) Environment(name string) (*Environment, error) {
	if name == "" {
		name = c.Default
	}
	if name == "" && len(c.Environments) == 1 {
		for only := range c.Environments {
			name = only
		}
	}
	if name == "" {
		return nil, fmt.Errorf("no environment selected, choose one of: %s",
			strings.Join(c.EnvironmentNames(), ", "))
	}

	if err := ValidateEnvironment(c, name); err != nil {
		return nil, err
	}

	env := c.Environments[name]
	resolved := Environment{
		Host:      ProcessVariables(env.Host, env.Vars),
		Version:   ProcessVariables(env.Version, env.Vars),
		Headers:   ProcessVariablesInMap(env.Headers, env.Vars),
		Vars:      MergeVariables(nil, env.Vars),
		Insecure:  env.Insecure,
		EncodeURL: env.EncodeURL,
		Timeout:   env.Timeout,
	}
	return &resolved, nil
}

// EnvironmentNames returns the defined environment names, sorted.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TimeoutDuration parses Timeout. An empty timeout returns fallback.
func (e *Environment) TimeoutDuration(fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(e.Timeout) == "" {
		return fallback, nil
	}
	return parseDurationString(e.Timeout)
}

// parseDurationString accepts Go durations as well as "30 seconds" style input
func parseDurationString(duration string) (time.Duration, error) {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0, fmt.Errorf("duration cannot be empty")
	}

	if d, err := time.ParseDuration(duration); err == nil {
		return d, nil
	}

	duration = strings.ToLower(duration)
	duration = strings.ReplaceAll(duration, " ", "")

	// longest words first so "seconds" is not left as "s" + "s"
	replacements := []struct{ word, abbrev string }{
		{"seconds", "s"},
		{"second", "s"},
		{"minutes", "m"},
		{"minute", "m"},
		{"hours", "h"},
		{"hour", "h"},
	}
	for _, r := range replacements {
		duration = strings.ReplaceAll(duration, r.word, r.abbrev)
	}

	return time.ParseDuration(duration)
}

// ProcessVariables replaces {{name}} placeholders with values from vars
func ProcessVariables(input string, vars map[string]string) string {
	result := input
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ProcessVariablesInMap applies ProcessVariables to every value of input
func ProcessVariablesInMap(input map[string]string, vars map[string]string) map[string]string {
	result := make(map[string]string, len(input))
	for key, value := range input {
		result[key] = ProcessVariables(value, vars)
	}
	return result
}

// MergeVariables merges two variable sets, with the second taking precedence
func MergeVariables(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}
