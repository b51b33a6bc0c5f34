package dialect_test

import (
	"encoding/json"
	"math"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperterse/sqlgeneric/core/dialect"
	"github.com/hyperterse/sqlgeneric/core/domain"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

func mustLookup(t *testing.T, key string) dialect.Config {
	t.Helper()
	cfg, err := dialect.Lookup(key)
	require.NoError(t, err)
	return cfg
}

func TestLookup(t *testing.T) {
	tests := []struct {
		key       string
		dialect   dialect.Dialect
		maxIdent  int
		bindType  int
		mangling  bool
		sessionTZ bool
	}{
		{key: "postgresql", dialect: dialect.PostgreSQL, maxIdent: 64, bindType: sqlx.DOLLAR},
		{key: "PostgreSQL", dialect: dialect.PostgreSQL, maxIdent: 64, bindType: sqlx.DOLLAR},
		{key: "sqlserver", dialect: dialect.SQLServer, maxIdent: 128, bindType: sqlx.AT},
		{key: "oracle", dialect: dialect.Oracle, maxIdent: 30, bindType: sqlx.NAMED, sessionTZ: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := mustLookup(t, tt.key)
			assert.Equal(t, tt.dialect, cfg.Dialect)
			assert.Equal(t, tt.maxIdent, cfg.MaxIdentifierLength)
			assert.Equal(t, tt.bindType, cfg.BindType)
			assert.Equal(t, tt.mangling, cfg.IdentifierMangling)
			if tt.sessionTZ {
				assert.Equal(t, []string{"ALTER SESSION SET TIME_ZONE = 'UTC'"}, cfg.SessionStatements)
			} else {
				assert.Empty(t, cfg.SessionStatements)
			}
		})
	}
}

func TestLookupRejects(t *testing.T) {
	tests := []struct {
		key     string
		message string
	}{
		{key: "mysql", message: "dialect 'mysql' is not implemented"},
		{key: "MySQL", message: "dialect 'mysql' is not implemented"},
		{key: "db2", message: "unknown dialect 'db2'"},
		{key: "", message: "unknown dialect ''"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := dialect.Lookup(tt.key)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeDialect))
		})
	}
}

func TestLookupReturnsIndependentCopies(t *testing.T) {
	cfg := mustLookup(t, "oracle")
	cfg.SessionStatements[0] = "DROP TABLE heroes"
	assert.Equal(t, "ALTER SESSION SET TIME_ZONE = 'UTC'", mustLookup(t, "oracle").SessionStatements[0])
}

func TestSupported(t *testing.T) {
	for _, d := range dialect.Supported() {
		_, err := dialect.ForDialect(d)
		assert.NoError(t, err, d.String())
	}
	_, err := dialect.ForDialect(dialect.Dialect(99))
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	stmt := "SELECT * FROM heroes WHERE secret_id = ? AND name = ?"
	assert.Equal(t, "SELECT * FROM heroes WHERE secret_id = $1 AND name = $2", mustLookup(t, "postgresql").Rebind(stmt))
	assert.Equal(t, "SELECT * FROM heroes WHERE secret_id = @p1 AND name = @p2", mustLookup(t, "sqlserver").Rebind(stmt))
	assert.Equal(t, "SELECT * FROM heroes WHERE secret_id = :arg1 AND name = :arg2", mustLookup(t, "oracle").Rebind(stmt))
}

func TestConnectionString(t *testing.T) {
	conn := domain.ConnectionInfo{
		Host:        "db.internal",
		Port:        5432,
		Database:    "heroes",
		Credentials: domain.Credentials{Username: "app", Password: "p@ss;word"},
	}

	pg, err := mustLookup(t, "postgresql").ConnectionString(conn)
	require.NoError(t, err)
	u, err := url.Parse(pg)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:5432", u.Host)
	assert.Equal(t, "/heroes", u.Path)
	assert.Equal(t, "app", u.Query().Get("user"))
	assert.Equal(t, "p@ss;word", u.Query().Get("password"))

	conn.Port = 1433
	ms, err := mustLookup(t, "sqlserver").ConnectionString(conn)
	require.NoError(t, err)
	u, err = url.Parse(ms)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", u.Scheme)
	assert.Equal(t, "db.internal:1433", u.Host)
	assert.Equal(t, "heroes", u.Query().Get("database"))
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss;word", password)

	conn.Port = 1521
	ora, err := mustLookup(t, "oracle").ConnectionString(conn)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ora, "oracle://"), ora)
	assert.Contains(t, ora, "db.internal:1521")
	assert.Contains(t, ora, "SID=heroes")

	_, err = dialect.Config{Dialect: dialect.MySQL}.ConnectionString(conn)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDialect))
}

func TestLiteral(t *testing.T) {
	pg := mustLookup(t, "postgresql")
	ms := mustLookup(t, "sqlserver")
	ora := mustLookup(t, "oracle")

	tests := []struct {
		name  string
		cfg   dialect.Config
		value any
		want  string
	}{
		{"pg string", pg, "clark kent", "'clark kent'"},
		{"pg quote", pg, "o'brien", "'o''brien'"},
		{"pg backslash", pg, `a\b`, ` E'a\\b'`},
		{"mssql string", ms, "o'brien", "N'o''brien'"},
		{"oracle string", ora, "o'brien", "'o''brien'"},
		{"nil", pg, nil, "NULL"},
		{"pg true", pg, true, "TRUE"},
		{"pg false", pg, false, "FALSE"},
		{"mssql true", ms, true, "1"},
		{"oracle false", ora, false, "'N'"},
		{"json integer", pg, json.Number("42"), "42"},
		{"json exponent", pg, json.Number("1e3"), "1000"},
		{"json decimal", ms, json.Number("-12.50"), "-12.5"},
		{"float", pg, 1.5, "1.5"},
		{"int", ora, 7, "7"},
		{"int64", ora, int64(-7), "-7"},
		{"decimal", pg, decimal.RequireFromString("3.14"), "3.14"},
		{"list", pg, []any{"a", json.Number("1"), nil}, "('a', 1, NULL)"},
		{"empty list", ms, []any{}, "(NULL)"},
		{"object", pg, map[string]any{"k": "v"}, `'{"k":"v"}'`},
		{"time pg", pg, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), "'2024-05-01 09:30:00+00:00'"},
		{"time oracle", ora, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), "TIMESTAMP '2024-05-01 09:30:00'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Literal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLiteralRejects(t *testing.T) {
	pg := mustLookup(t, "postgresql")

	_, err := pg.Literal(json.Number("12abc"))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeSubstitution))

	_, err = pg.Literal(math.NaN())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeSubstitution))

	_, err = pg.Literal([]any{math.Inf(1)})
	assert.Error(t, err)
}
