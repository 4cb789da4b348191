package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const achievementsJSON = `[
	{"id":"a1","name":"Asha","class":"12","marks":98.5,"stream":"Science","achievement":"Gold medal","year":2024,"active":true},
	{"id":"a2","name":"Rohan","class":"10","marks":91,"stream":"","achievement":"Silver medal","year":2023,"active":true},
	{"id":"a3","name":"Kabir","class":"12","marks":99,"stream":"Humanities","achievement":"Gold medal","year":2024,"active":false}
]`

// writeTestConfig writes a config serving achievements from a temporary file
func writeTestConfig(t *testing.T, extraResources string) string {
	t.Helper()
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "achievements.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(achievementsJSON), 0600))

	cfg := `status:
  type: file
  dir: ` + filepath.Join(dir, "status") + `
cacheDir: "-"
resources:
  - name: achievements
    file:
      path: ` + dataPath + "\n" + extraResources
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0600))
	return path
}

// execute runs the root command with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestQueryCommand_JSON(t *testing.T) {
	t.Parallel()
	configPath := writeTestConfig(t, "")

	tests := []struct {
		name    string
		args    []string
		wantIDs []string
		total   int
	}{
		{
			name:    "public view hides inactive records",
			args:    nil,
			wantIDs: []string{"a1", "a2"},
			total:   2,
		},
		{
			name:    "all includes inactive records",
			args:    []string{"--all"},
			wantIDs: []string{"a1", "a2", "a3"},
			total:   3,
		},
		{
			name:    "search and filter",
			args:    []string{"--all", "--search", "GOLD", "--filter", "year=2024", "--sort", "marks", "--order", "desc"},
			wantIDs: []string{"a3", "a1"},
			total:   2,
		},
		{
			name:    "paged",
			args:    []string{"--all", "--sort", "name", "--limit", "1", "--offset", "1"},
			wantIDs: []string{"a3"},
			total:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := append([]string{"query", "achievements", "--config", configPath, "-o", "json"}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)

			var result struct {
				Total   int              `json:"total"`
				Records []map[string]any `json:"records"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			assert.Equal(t, tt.total, result.Total)

			ids := make([]string, 0, len(result.Records))
			for _, rec := range result.Records {
				ids = append(ids, rec["id"].(string))
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestQueryCommand_Table(t *testing.T) {
	t.Parallel()
	configPath := writeTestConfig(t, "")

	out, err := execute(t, "query", "achievements", "--config", configPath, "--filter", "stream=Science")
	require.NoError(t, err)
	assert.Contains(t, out, "Asha")
	assert.NotContains(t, out, "Rohan")
	assert.Contains(t, out, "1 of 1 records")
}

func TestQueryCommand_XLSX(t *testing.T) {
	t.Parallel()
	configPath := writeTestConfig(t, "")
	outFile := filepath.Join(t.TempDir(), "achievements.xlsx")

	_, err := execute(t, "query", "achievements", "--config", configPath, "-o", "xlsx", "--output-file", outFile)
	require.NoError(t, err)

	f, err := excelize.OpenFile(outFile)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("achievements")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "a1", rows[1][0])
}

func TestQueryCommand_Errors(t *testing.T) {
	t.Parallel()
	configPath := writeTestConfig(t, "")

	tests := []struct {
		name          string
		args          []string
		errorContains string
	}{
		{name: "unknown resource", args: []string{"query", "awards", "--config", configPath}, errorContains: "not configured"},
		{name: "bad filter", args: []string{"query", "achievements", "--config", configPath, "--filter", "year"}, errorContains: "expected field=value"},
		{name: "order without sort", args: []string{"query", "achievements", "--config", configPath, "--order", "desc"}, errorContains: "--order requires --sort"},
		{name: "bad order", args: []string{"query", "achievements", "--config", configPath, "--sort", "year", "--order", "up"}, errorContains: "invalid sort direction"},
		{name: "bad format", args: []string{"query", "achievements", "--config", configPath, "-o", "csv"}, errorContains: "unsupported output format"},
		{name: "missing config", args: []string{"query", "achievements"}, errorContains: "required flag"},
		{name: "unreadable config", args: []string{"query", "achievements", "--config", "/nonexistent/config.yaml"}, errorContains: "failed to load configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	configPath := writeTestConfig(t, "")
	out, err := execute(t, "validate", "--config", configPath, "--fetch")
	require.NoError(t, err)
	assert.Contains(t, out, "achievements")
	assert.Contains(t, out, "ok")

	broken := writeTestConfig(t, `  - name: awards
    file:
      path: /nonexistent/awards.json
`)
	out, err = execute(t, "validate", "--config", broken)
	require.NoError(t, err, "source files are only read with --fetch")
	assert.Contains(t, out, "awards")

	_, err = execute(t, "validate", "--config", broken, "--fetch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 resources failed validation")
}

func TestServeOptions(t *testing.T) {
	t.Parallel()

	cmd := newServeCmd()
	opts, err := serveOptions(cmd)
	require.NoError(t, err)
	assert.Empty(t, opts)

	require.NoError(t, cmd.Flags().Set("address", "127.0.0.1:9090"))
	require.NoError(t, cmd.Flags().Set("request-timeout", "20s"))
	require.NoError(t, cmd.Flags().Set("no-admin", "true"))
	opts, err = serveOptions(cmd)
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}
