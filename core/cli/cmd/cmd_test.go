package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

func templateServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"submissions":[{"values":{"SQL Query":"SELECT * FROM heroes WHERE secret_id = {{secret_id}}"}}]}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func writeRequest(t *testing.T, apiURL string, port int, errorHandling string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	content := fmt.Sprintf(`info:
  database_server: 127.0.0.1
  database_port: %d
  database_username: app
  database_password: secret
  kinetic_api_location: %s
  kinetic_api_username: integration
  kinetic_api_password: hunter2
  kapp_form_slug: sql-query-template
parameters:
  template_name: Hero by secret id
  dbname: heroes
  jdbc_database: postgresql
  action: fetch
  query_values: '{"secret_id":"superman"}'
  error_handling: %q
`, port, apiURL, errorHandling)

	path := filepath.Join(dir, "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCapturesClosedPort(t *testing.T) {
	port := closedPort(t)
	path := writeRequest(t, templateServer(t).URL, port, "Error Message")

	out, err := execute(t, "run", "-f", path, "--format", "xml")
	require.NoError(t, err)
	assert.Equal(t, "<results>\n"+
		`  <result name="Result"></result>`+"\n"+
		fmt.Sprintf(`  <result name="Handler Error Message">Port %d at server '127.0.0.1' is CLOSED or is not accessible.</result>`, port)+"\n"+
		"</results>\n", out)
}

func TestRunRaisesClosedPort(t *testing.T) {
	path := writeRequest(t, templateServer(t).URL, closedPort(t), "Raise Error")

	out, err := execute(t, "run", "-f", path, "--format", "xml")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeConnectivity))
	assert.Empty(t, out)
}

func TestRenderPrintsStatement(t *testing.T) {
	path := writeRequest(t, templateServer(t).URL, closedPort(t), "Raise Error")

	out, err := execute(t, "render", "-f", path)
	require.NoError(t, err)

	var got renderOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, renderOutput{
		Action: "fetch",
		SQL:    "SELECT * FROM heroes WHERE secret_id = ?",
		Binds:  []any{"superman"},
	}, got)
}

func TestRunRequiresFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "run", "-f", "")
	require.Error(t, err)
}
