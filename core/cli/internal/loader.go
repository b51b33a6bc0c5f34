package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/hyperterse/sqlgeneric/core/config"
	"github.com/hyperterse/sqlgeneric/core/domain"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/serializer"
	"github.com/hyperterse/sqlgeneric/core/parser"
)

// LoadRequest loads a request document for one invocation
func LoadRequest(filePath string) (domain.HostInput, error) {
	if filePath == "" {
		return domain.HostInput{}, fmt.Errorf("a request file is required (--file)")
	}
	input, err := parser.LoadRequest(filePath)
	if err != nil {
		return domain.HostInput{}, logging.WithTag("parser", err)
	}
	return input, nil
}

// ResolveLogLevel resolves the log level from the verbose flag, the
// --log-level flag and the config, in that order
func ResolveLogLevel(verbose bool, cliLogLevel int, cfg *config.Config) int {
	if verbose {
		return logging.LogLevelDebug
	}
	if cliLogLevel > 0 {
		return cliLogLevel
	}
	if cfg != nil && cfg.Log.Level > 0 {
		return cfg.Log.Level
	}
	return logging.LogLevelInfo
}

// ResolveLogTags resolves the tag filter from the flag, the
// SQLGENERIC_LOG_TAGS env var and the config, in that order
func ResolveLogTags(cliTags string, cfg *config.Config) string {
	if cliTags != "" {
		return cliTags
	}
	if tags := os.Getenv("SQLGENERIC_LOG_TAGS"); tags != "" {
		return tags
	}
	if cfg != nil {
		return cfg.Log.Tags
	}
	return ""
}

// ParseFormat maps the --format flag to an envelope format
func ParseFormat(value string) (serializer.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "xml":
		return serializer.FormatXML, nil
	case "json":
		return serializer.FormatJSON, nil
	default:
		return 0, fmt.Errorf("unknown format '%s' (expected xml or json)", value)
	}
}
