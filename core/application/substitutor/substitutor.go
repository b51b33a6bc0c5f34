package substitutor

import (
	"regexp"
	"strings"

	"github.com/hyperterse/sqlgeneric/core/dialect"
	"github.com/hyperterse/sqlgeneric/core/domain"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// BindMarker replaces every placeholder in bound mode
const BindMarker = "?"

var (
	// Template pattern: {{key}}, matched lazily so adjacent tokens stay separate
	placeholderPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)
)

// Substitute replaces every {{key}} token of text, left to right.
//
// For fetch statements each token becomes a "?" marker and its value is
// appended to Binds unchanged. For any other action the token becomes the
// value rendered as a cfg literal. A key missing from values fails the
// whole substitution.
func Substitute(text string, values map[string]any, action domain.Action, cfg dialect.Config) (domain.Statement, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	stmt := domain.Statement{Action: action, Binds: []any{}}
	if len(matches) == 0 {
		stmt.SQL = text
		return stmt, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		key := text[m[2]:m[3]]

		value, exists := values[key]
		if !exists {
			return domain.Statement{}, apperrors.Newf(apperrors.ErrCodeSubstitution,
				"no value provided for placeholder '{{%s}}'", key)
		}

		b.WriteString(text[last:start])
		if action == domain.ActionFetch {
			b.WriteString(BindMarker)
			stmt.Binds = append(stmt.Binds, value)
		} else {
			literal, err := cfg.Literal(value)
			if err != nil {
				return domain.Statement{}, apperrors.WrapError(apperrors.ErrCodeSubstitution,
					"cannot render value for placeholder '{{"+key+"}}'", err)
			}
			b.WriteString(literal)
		}
		last = end
	}
	b.WriteString(text[last:])

	stmt.SQL = b.String()
	return stmt, nil
}

// ExtractPlaceholders returns the distinct placeholder keys of text in order
// of first appearance
func ExtractPlaceholders(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	keys := make([]string, 0, len(matches))
	for _, match := range matches {
		if seen[match[1]] {
			continue
		}
		seen[match[1]] = true
		keys = append(keys, match[1])
	}
	return keys
}
