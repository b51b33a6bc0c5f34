package parser

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/hyperterse/sqlgeneric/core/domain"
)

var (
	// Environment variable pattern: {{ env.VARIABLE_NAME }}
	envVarPattern = regexp.MustCompile(`\{\{\s*env\.(\w+)\s*\}\}`)
)

// substituteEnvVars replaces {{ env.VARIABLE_NAME }} placeholders with environment variable values
func substituteEnvVars(value string) (string, error) {
	result := value
	matches := envVarPattern.FindAllStringSubmatch(value, -1)
	seen := make(map[string]bool)

	for _, match := range matches {
		envVarName := match[1]
		placeholder := match[0]

		if seen[placeholder] {
			continue
		}
		seen[placeholder] = true

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			return "", fmt.Errorf("environment variable '%s' not found", envVarName)
		}
		result = strings.ReplaceAll(result, placeholder, envValue)
	}

	return result, nil
}

// SubstituteEnvVarsInInput replaces environment references in the info
// values of input. Parameters are left alone: their {{...}} tokens belong
// to the caller.
func SubstituteEnvVarsInInput(input *domain.HostInput) error {
	keys := make([]string, 0, len(input.Info))
	for key := range input.Info {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		substituted, err := substituteEnvVars(input.Info[key])
		if err != nil {
			return fmt.Errorf("failed to substitute environment variables in info value '%s': %w", key, err)
		}
		input.Info[key] = substituted
	}
	return nil
}
