package dialect

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// Literal renders v as an inline SQL literal for the dialect.
//
// Strings are single-quoted with embedded quotes doubled, numbers are left
// unquoted, nil becomes NULL and booleans use the dialect's truth literals.
// Arrays render as a parenthesised list for IN clauses; objects are quoted
// as their JSON text.
func (c Config) Literal(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return c.quoteString(val), nil
	case bool:
		if val {
			return c.TrueLiteral, nil
		}
		return c.FalseLiteral, nil
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return "", apperrors.WrapError(apperrors.ErrCodeSubstitution, fmt.Sprintf("invalid numeric value '%s'", val), err)
		}
		return d.String(), nil
	case decimal.Decimal:
		return val.String(), nil
	case int:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return c.floatLiteral(float64(val))
	case float64:
		return c.floatLiteral(val)
	case time.Time:
		return c.timeLiteral(val), nil
	case []any:
		return c.listLiteral(val)
	case map[string]any:
		encoded, err := json.Marshal(val)
		if err != nil {
			return "", apperrors.WrapError(apperrors.ErrCodeSubstitution, "cannot encode object value", err)
		}
		return c.quoteString(string(encoded)), nil
	default:
		return c.quoteString(fmt.Sprintf("%v", val)), nil
	}
}

func (c Config) quoteString(s string) string {
	if c.Dialect == PostgreSQL {
		return pq.QuoteLiteral(s)
	}
	return c.StringPrefix + "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (c Config) floatLiteral(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", apperrors.Newf(apperrors.ErrCodeSubstitution, "numeric value %v has no SQL literal", f)
	}
	return decimal.NewFromFloat(f).String(), nil
}

func (c Config) timeLiteral(t time.Time) string {
	switch c.Dialect {
	case SQLServer:
		return "'" + t.Format("2006-01-02T15:04:05.999") + "'"
	case Oracle:
		return "TIMESTAMP '" + t.UTC().Format("2006-01-02 15:04:05.999999") + "'"
	default:
		return "'" + t.Format("2006-01-02 15:04:05.999999-07:00") + "'"
	}
}

func (c Config) listLiteral(values []any) (string, error) {
	if len(values) == 0 {
		return "(NULL)", nil
	}
	parts := make([]string, len(values))
	for i, item := range values {
		lit, err := c.Literal(item)
		if err != nil {
			return "", err
		}
		parts[i] = lit
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}
