package substitutor_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperterse/sqlgeneric/core/application/substitutor"
	"github.com/hyperterse/sqlgeneric/core/dialect"
	"github.com/hyperterse/sqlgeneric/core/domain"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

func lookup(t *testing.T, key string) dialect.Config {
	t.Helper()
	cfg, err := dialect.Lookup(key)
	require.NoError(t, err)
	return cfg
}

func TestSubstituteBound(t *testing.T) {
	pg := lookup(t, "postgresql")

	tests := []struct {
		name      string
		template  string
		values    map[string]any
		wantSQL   string
		wantBinds []any
	}{
		{
			name:      "single placeholder",
			template:  "SELECT * FROM heroes WHERE secret_id = {{secret_id}}",
			values:    map[string]any{"secret_id": "superman"},
			wantSQL:   "SELECT * FROM heroes WHERE secret_id = ?",
			wantBinds: []any{"superman"},
		},
		{
			name:      "repeated key binds once per occurrence",
			template:  "SELECT {{a}}, {{b}}, {{a}}",
			values:    map[string]any{"a": json.Number("1"), "b": "two"},
			wantSQL:   "SELECT ?, ?, ?",
			wantBinds: []any{json.Number("1"), "two", json.Number("1")},
		},
		{
			name:      "adjacent placeholders",
			template:  "{{a}}{{b}}",
			values:    map[string]any{"a": "x", "b": nil},
			wantSQL:   "??",
			wantBinds: []any{"x", nil},
		},
		{
			name:      "values are not escaped",
			template:  "SELECT * FROM t WHERE name = {{name}}",
			values:    map[string]any{"name": "o'brien"},
			wantSQL:   "SELECT * FROM t WHERE name = ?",
			wantBinds: []any{"o'brien"},
		},
		{
			name:      "no placeholders",
			template:  "SELECT 1",
			values:    map[string]any{},
			wantSQL:   "SELECT 1",
			wantBinds: []any{},
		},
		{
			name:      "key with spaces is used verbatim",
			template:  "SELECT {{ spaced }}",
			values:    map[string]any{" spaced ": "v"},
			wantSQL:   "SELECT ?",
			wantBinds: []any{"v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := substitutor.Substitute(tt.template, tt.values, domain.ActionFetch, pg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			if diff := cmp.Diff(tt.wantBinds, stmt.Binds); diff != "" {
				t.Errorf("binds mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, strings.Count(stmt.SQL, "?"), len(stmt.Binds))
			assert.Equal(t, domain.ActionFetch, stmt.Action)
		})
	}
}

func TestSubstituteLiteral(t *testing.T) {
	tests := []struct {
		name     string
		dialect  string
		template string
		values   map[string]any
		wantSQL  string
	}{
		{
			name:     "update with strings",
			dialect:  "postgresql",
			template: "UPDATE heroes SET name = {{name}} WHERE secret_id = {{secret_id}}",
			values:   map[string]any{"name": "clark kent", "secret_id": "superman"},
			wantSQL:  "UPDATE heroes SET name = 'clark kent' WHERE secret_id = 'superman'",
		},
		{
			name:     "sql server unicode strings",
			dialect:  "sqlserver",
			template: "UPDATE heroes SET name = {{name}}",
			values:   map[string]any{"name": "o'brien"},
			wantSQL:  "UPDATE heroes SET name = N'o''brien'",
		},
		{
			name:     "numbers null and booleans",
			dialect:  "oracle",
			template: "UPDATE heroes SET power = {{power}}, cape = {{cape}}, alias = {{alias}}",
			values:   map[string]any{"power": json.Number("9001"), "cape": true, "alias": nil},
			wantSQL:  "UPDATE heroes SET power = 9001, cape = 'Y', alias = NULL",
		},
		{
			name:     "list for IN clause",
			dialect:  "postgresql",
			template: "DELETE FROM heroes WHERE secret_id IN {{ids}}",
			values:   map[string]any{"ids": []any{"a", "b"}},
			wantSQL:  "DELETE FROM heroes WHERE secret_id IN ('a', 'b')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := substitutor.Substitute(tt.template, tt.values, domain.ActionRun, lookup(t, tt.dialect))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			assert.Empty(t, stmt.Binds)
			assert.NotContains(t, stmt.SQL, "{{")
		})
	}
}

func TestSubstituteMissingKey(t *testing.T) {
	pg := lookup(t, "postgresql")

	for _, action := range []domain.Action{domain.ActionFetch, domain.ActionRun} {
		t.Run(action.String(), func(t *testing.T) {
			_, err := substitutor.Substitute("SELECT {{present}}, {{absent}}", map[string]any{"present": 1}, action, pg)
			require.Error(t, err)
			assert.Equal(t, "no value provided for placeholder '{{absent}}'", err.Error())
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeSubstitution))
		})
	}
}

func TestSubstituteNilValuesWithPlaceholder(t *testing.T) {
	_, err := substitutor.Substitute("SELECT {{x}}", nil, domain.ActionFetch, lookup(t, "postgresql"))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeSubstitution))
}

func TestSubstituteLiteralRenderFailure(t *testing.T) {
	_, err := substitutor.Substitute("SELECT {{n}}", map[string]any{"n": json.Number("NaN")}, domain.ActionRun, lookup(t, "postgresql"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeSubstitution))
	assert.Contains(t, err.Error(), "{{n}}")
}

func TestExtractPlaceholders(t *testing.T) {
	keys := substitutor.ExtractPlaceholders("SELECT {{b}}, {{a}}, {{b}} FROM t WHERE x = {{c}}")
	assert.Equal(t, []string{"b", "a", "c"}, keys)
	assert.Empty(t, substitutor.ExtractPlaceholders("SELECT 1"))
}
