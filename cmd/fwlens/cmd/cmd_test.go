package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fwlens/internal/config"
	"fwlens/internal/core"
	"fwlens/internal/infer"
	"fwlens/pkg/engine"
	"fwlens/pkg/schema"
)

// run executes a fresh command tree with a config path that does not exist,
// so every test starts from the defaults.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, name := range config.APIKeyEnvVars {
		t.Setenv(name, "")
	}
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")
	return runWithConfig(t, cfgPath, args...)
}

func runWithConfig(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSegmentCommand(t *testing.T) {
	data := writeFile(t, "data.txt", core.DemoDocument)

	out, err := run(t, "segment", "--plain", data)
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, core.Report(&want, core.DefaultSchema(), core.DemoDocument, core.ReportOptions{Plain: true}))
	assert.Equal(t, want.String(), out)
}

func TestSegmentWithSchemaFile(t *testing.T) {
	data := writeFile(t, "data.txt", "AB123\nCD4\n")
	schemaPath := writeFile(t, "schema.yaml", "fields:\n  - name: Code\n    length: 2\n  - name: Num\n    length: 3\n")

	out, err := run(t, "--schema", schemaPath, "segment", "--plain", "--no-header", data)
	require.NoError(t, err)
	assert.Equal(t, "   1 |AB|123|\n   2 |CD|4..|\n2 rows, width 5, 0 overflowing, 1 underflowing\n", out)
}

func TestPadCommand(t *testing.T) {
	data := writeFile(t, "data.txt", "12345\n1\n")

	out, err := run(t, "pad", data)
	require.NoError(t, err)
	want := engine.PadAll(core.DefaultSchema(), "12345\n1\n")
	assert.Equal(t, want, out)

	// stdout mode leaves the file alone
	unchanged, err := core.LoadDocument(data)
	require.NoError(t, err)
	assert.Equal(t, "12345\n1\n", unchanged)

	out, err = run(t, "pad", "--in-place", data)
	require.NoError(t, err)
	assert.Empty(t, out)
	got, err := core.LoadDocument(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEditCommand(t *testing.T) {
	data := writeFile(t, "data.txt", core.DemoDocument)

	out, err := run(t, "edit", data, "--row", "3", "--field", "date", "--value", "20231003")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "11222ShortName      20231003", lines[2])
	assert.Equal(t, strings.Split(core.DemoDocument, "\n")[3], lines[3])

	out, err = run(t, "edit", data, "--row", "1", "--field", "1", "--value", "Bob", "--in-place")
	require.NoError(t, err)
	assert.Empty(t, out)
	got, err := core.LoadDocument(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "12345Bob            20231001\n"), "got %q", got)
}

func TestEditCommandErrors(t *testing.T) {
	data := writeFile(t, "data.txt", core.DemoDocument)

	_, err := run(t, "edit", data, "--row", "9", "--field", "ID", "--value", "x")
	assert.ErrorIs(t, err, engine.ErrRowOutOfRange)

	_, err = run(t, "edit", data, "--row", "1", "--field", "Amount", "--value", "x")
	assert.ErrorIs(t, err, schema.ErrFieldNotFound)

	_, err = run(t, "edit", data, "--row", "1", "--field", "ID")
	assert.ErrorContains(t, err, "--value is required")

	got, err := core.LoadDocument(data)
	require.NoError(t, err)
	assert.Equal(t, core.DemoDocument, got, "failed edits must not touch the file")
}

func TestEditCommandRejectsMultilineValue(t *testing.T) {
	data := writeFile(t, "data.txt", core.DemoDocument)

	_, err := run(t, "edit", data, "--row", "1", "--field", "Name", "--value", "Al\nBob", "--in-place")
	assert.ErrorIs(t, err, engine.ErrInvalidValue)

	got, err := core.LoadDocument(data)
	require.NoError(t, err)
	assert.Equal(t, core.DemoDocument, got)
}

func TestConfigInit(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := runWithConfig(t, cfgPath, "config", "init")
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", out)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env")
	assert.Contains(t, string(data), "gemini-2.5-flash")

	_, err = runWithConfig(t, cfgPath, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	// a broken file can still be replaced
	require.NoError(t, os.WriteFile(cfgPath, []byte("editor:\n  default_field_length: 0\n"), 0o600))
	_, err = runWithConfig(t, cfgPath, "config", "init", "--force")
	require.NoError(t, err)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.DefaultConfig().Editor, cfg.Editor)
}

func TestSchemaImportAndShow(t *testing.T) {
	md := writeFile(t, "layout.md", "| Field | Length |\n|---|---|\n| Code | 2 |\n| Num | 3 |\n")

	out, err := run(t, "schema", "import", md)
	require.NoError(t, err)
	assert.Contains(t, out, "name: Code")
	assert.Contains(t, out, "length: 3")

	schemaPath := filepath.Join(t.TempDir(), "schema.yaml")
	_, err = run(t, "schema", "import", md, "--out", schemaPath)
	require.NoError(t, err)
	s, err := core.NewFileSchemaStore(schemaPath).Load()
	require.NoError(t, err)
	assert.Equal(t, []schema.Spec{{Name: "Code", Length: 2}, {Name: "Num", Length: 3}}, s.Specs())

	out, err = run(t, "--schema", schemaPath, "schema", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Num")

	out, err = run(t, "schema", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Date")
}

func TestInferWithoutKey(t *testing.T) {
	_, err := run(t, "infer", "ID 5")
	assert.ErrorIs(t, err, infer.ErrMissingAPIKey)
}

func TestInferCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"[{\"name\":\"ID\",\"length\":5},{\"name\":\"Name\",\"length\":10}]"}]}}]}`)
	}))
	defer srv.Close()

	for _, name := range config.APIKeyEnvVars {
		t.Setenv(name, "")
	}
	t.Setenv("GEMINI_API_KEY", "test-key")
	cfgPath := writeFile(t, "config.yaml", "inference:\n  base_url: "+srv.URL+"/\n")

	out, err := runWithConfig(t, cfgPath, "infer", "ID", "is", "5,", "Name", "is", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "name: ID")
	assert.Contains(t, out, "length: 10")
	assert.Contains(t, out, "color: red")
}

func TestBadConfigFails(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "editor:\n  default_field_length: 0\n")
	_, err := runWithConfig(t, cfgPath, "schema", "show")
	assert.ErrorContains(t, err, "default_field_length")
}
