package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) []ValidationError {
	var errors []ValidationError

	if len(config.Environments) == 0 {
		errors = append(errors, ValidationError{
			Path:    "environments",
			Message: "at least one environment is required",
		})
	}

	if config.Default != "" {
		if _, ok := config.Environments[config.Default]; !ok {
			errors = append(errors, ValidationError{
				Path:    "default",
				Message: fmt.Sprintf("environment not found: %s", config.Default),
			})
		}
	}

	for _, name := range config.EnvironmentNames() {
		env := config.Environments[name]
		prefix := fmt.Sprintf("environments.%s", name)

		if env.Host == "" {
			errors = append(errors, ValidationError{
				Path:    prefix + ".host",
				Message: "host is required",
			})
		} else if err := validateHost(ProcessVariables(env.Host, env.Vars)); err != nil {
			errors = append(errors, ValidationError{
				Path:    prefix + ".host",
				Message: err.Error(),
			})
		}

		if strings.Contains(env.Version, "/") {
			errors = append(errors, ValidationError{
				Path:    prefix + ".version",
				Message: "version must be a single path segment",
			})
		}

		for key := range env.Headers {
			if strings.TrimSpace(key) == "" {
				errors = append(errors, ValidationError{
					Path:    prefix + ".headers",
					Message: "header name cannot be empty",
				})
			}
		}

		if env.Timeout != "" {
			if d, err := parseDurationString(env.Timeout); err != nil {
				errors = append(errors, ValidationError{
					Path:    prefix + ".timeout",
					Message: fmt.Sprintf("invalid duration: %s", env.Timeout),
				})
			} else if d < 0 {
				errors = append(errors, ValidationError{
					Path:    prefix + ".timeout",
					Message: "timeout cannot be negative",
				})
			}
		}
	}

	return errors
}

// ValidateEnvironment validates that an environment exists
func ValidateEnvironment(config *Config, envName string) error {
	if _, ok := config.Environments[envName]; !ok {
		return fmt.Errorf("environment not found: %s", envName)
	}
	return nil
}

func validateHost(host string) error {
	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("invalid host: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("host must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("host is missing a hostname")
	}
	return nil
}
