// Package dialect is the static catalog of supported database backends:
// connection string shape, quoting rules, identifier limits and bind style.
package dialect

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// Dialect enumerates the backends the catalog knows about
type Dialect int

const (
	PostgreSQL Dialect = iota + 1
	SQLServer
	Oracle
	// MySQL is recognised but not implemented
	MySQL
)

func (d Dialect) String() string {
	switch d {
	case PostgreSQL:
		return "postgresql"
	case SQLServer:
		return "sqlserver"
	case Oracle:
		return "oracle"
	case MySQL:
		return "mysql"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// Config is the immutable description of one dialect
type Config struct {
	Dialect Dialect
	// DriverName is the database/sql driver registered for the dialect
	DriverName string
	// ConnectionStringTemplate documents the shape built by ConnectionString
	ConnectionStringTemplate string
	// IdentifierMangling folds unquoted identifiers to lower case when set
	IdentifierMangling  bool
	MaxIdentifierLength int
	// BindType is the sqlx bind style "?" markers are rebound to
	BindType int
	// SessionStatements run on every connection before the statement
	SessionStatements []string
	// StringPrefix precedes quoted string literals, e.g. N for SQL Server
	StringPrefix string
	TrueLiteral  string
	FalseLiteral string
}

var catalog = map[Dialect]Config{
	PostgreSQL: {
		Dialect:                  PostgreSQL,
		DriverName:               "pgx",
		ConnectionStringTemplate: "postgres://{host}:{port}/{database}?user={username}&password={password}",
		MaxIdentifierLength:      64,
		BindType:                 sqlx.DOLLAR,
		TrueLiteral:              "TRUE",
		FalseLiteral:             "FALSE",
	},
	SQLServer: {
		Dialect:                  SQLServer,
		DriverName:               "sqlserver",
		ConnectionStringTemplate: "sqlserver://{username}:{password}@{host}:{port}?database={database}",
		MaxIdentifierLength:      128,
		BindType:                 sqlx.AT,
		StringPrefix:             "N",
		TrueLiteral:              "1",
		FalseLiteral:             "0",
	},
	Oracle: {
		Dialect:                  Oracle,
		DriverName:               "oracle",
		ConnectionStringTemplate: "oracle://{username}:{password}@{host}:{port}/?SID={database}",
		MaxIdentifierLength:      30,
		BindType:                 sqlx.NAMED,
		SessionStatements:        []string{"ALTER SESSION SET TIME_ZONE = 'UTC'"},
		TrueLiteral:              "'Y'",
		FalseLiteral:             "'N'",
	},
}

// Parse maps a dialect key to a Dialect. Keys are case-insensitive.
func Parse(key string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "postgresql":
		return PostgreSQL, nil
	case "sqlserver":
		return SQLServer, nil
	case "oracle":
		return Oracle, nil
	case "mysql":
		return MySQL, nil
	default:
		return 0, apperrors.Newf(apperrors.ErrCodeDialect, "unknown dialect '%s'", key)
	}
}

// Lookup returns the configuration for a dialect key. MySQL is a known
// dialect without an implementation and fails like an unknown one.
func Lookup(key string) (Config, error) {
	d, err := Parse(key)
	if err != nil {
		return Config{}, err
	}
	return ForDialect(d)
}

// ForDialect returns the configuration of d
func ForDialect(d Dialect) (Config, error) {
	switch d {
	case PostgreSQL, SQLServer, Oracle:
		cfg := catalog[d]
		cfg.SessionStatements = slices.Clone(cfg.SessionStatements)
		return cfg, nil
	case MySQL:
		return Config{}, apperrors.Newf(apperrors.ErrCodeDialect, "dialect '%s' is not implemented", d)
	default:
		return Config{}, apperrors.Newf(apperrors.ErrCodeDialect, "unknown dialect '%s'", d)
	}
}

// Supported lists the dialects that can be executed against
func Supported() []Dialect {
	return []Dialect{PostgreSQL, SQLServer, Oracle}
}

// Rebind rewrites "?" markers into the dialect's native bind style
func (c Config) Rebind(statement string) string {
	return sqlx.Rebind(c.BindType, statement)
}
