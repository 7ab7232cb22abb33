package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment. CI=true wins over ENV;
// unknown ENV values fall back to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	return ParseEnvironment(os.Getenv("ENV"))
}

// ParseEnvironment maps a name to an Environment, defaulting to Development.
func ParseEnvironment(name string) Environment {
	switch env := Environment(strings.ToLower(strings.TrimSpace(name))); env {
	case Production, Test, CI, Development:
		return env
	default:
		return Development
	}
}

// IsProduction returns true for the production environment
func (e Environment) IsProduction() bool {
	return e == Production
}

func (e Environment) String() string {
	return string(e)
}
