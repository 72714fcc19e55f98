package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/engage/engage"
	"github.com/s0up4200/engage/engagetest"
	"github.com/s0up4200/engage/filter"
)

const testAPIKey = "cmd-test-key"

// resetFlags restores every flag to its default between runs
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, srv *engagetest.Server, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(""))

	if srv != nil {
		args = append([]string{"--base-url", srv.URL}, args...)
	}
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupEnv(t *testing.T) *engagetest.Server {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ENGAGE_API_KEY", testAPIKey)
	t.Setenv("ENGAGE_BASE_URL", "")

	srv := engagetest.NewServer(testAPIKey)
	t.Cleanup(srv.Close)
	return srv
}

func TestMappingCommands(t *testing.T) {
	srv := setupEnv(t)

	_, err := execute(t, srv, "map", "https://www.google.com/profiles/alice", "1")
	require.NoError(t, err)
	_, err = execute(t, srv, "map", "https://me.yahoo.com/a/bob", "2")
	require.NoError(t, err)

	// Optional flags are only sent when given
	last, ok := srv.LastRequest()
	require.True(t, ok)
	assert.False(t, last.Form.Has("overwrite"))

	out, err := execute(t, srv, "mappings", "1")
	require.NoError(t, err)
	var mappings struct {
		Stat        string   `json:"stat"`
		Identifiers []string `json:"identifiers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &mappings))
	assert.Equal(t, "ok", mappings.Stat)
	assert.Equal(t, []string{"https://www.google.com/profiles/alice"}, mappings.Identifiers)

	out, err = execute(t, srv, "all-mappings", "--filter", `hasSuffix(Provider, "yahoo.com")`)
	require.NoError(t, err)
	var filtered []filter.Mapping
	require.NoError(t, json.Unmarshal([]byte(out), &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].PrimaryKey)
	assert.Equal(t, "me.yahoo.com", filtered[0].Provider)

	_, err = execute(t, srv, "all-mappings", "--filter", "PrimaryKey +")
	assert.Error(t, err)

	_, err = execute(t, srv, "unmap", "--unlink", "https://me.yahoo.com/a/bob", "2")
	require.NoError(t, err)
	last, _ = srv.LastRequest()
	assert.Equal(t, "true", last.Form.Get("unlink"))

	_, err = execute(t, srv, "unmap", "--all", "1")
	require.NoError(t, err)
	last, _ = srv.LastRequest()
	assert.Equal(t, "true", last.Form.Get("all_identifiers"))
	assert.Empty(t, srv.Mappings())
}

func TestAuthInfoCommand(t *testing.T) {
	srv := setupEnv(t)
	srv.AddProfile("good-token", map[string]any{
		"identifier":   "https://www.google.com/profiles/alice",
		"providerName": "Google",
		"displayName":  "Alice",
	})

	out, err := execute(t, srv, "auth-info", "--extended", "good-token")
	require.NoError(t, err)
	assert.Contains(t, out, `"displayName": "Alice"`)

	last, _ := srv.LastRequest()
	assert.Equal(t, "true", last.Form.Get("extended"))
	assert.False(t, last.Form.Has("tokenUrl"))

	_, err = execute(t, srv, "auth-info", "bad-token")
	require.Error(t, err)
	var apiErr *engage.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
}

func TestContactsCommand(t *testing.T) {
	srv := setupEnv(t)
	srv.AddContacts("https://www.google.com/profiles/alice", map[string]any{
		"displayName": "Bob",
		"emails":      []map[string]any{{"type": "home", "value": "bob@example.com"}},
	})

	out, err := execute(t, srv, "contacts", "https://www.google.com/profiles/alice")
	require.NoError(t, err)
	assert.Contains(t, out, "bob@example.com")
}

func TestMapBatchCommand(t *testing.T) {
	srv := setupEnv(t)

	path := filepath.Join(t.TempDir(), "rows.csv")
	csv := "identifier,primaryKey\nhttps://a.example/1,10\nhttps://b.example/2,20\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	out, err := execute(t, srv, "map-batch", "--file", path, "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"requested": 2`)
	assert.Equal(t, []string{"https://a.example/1"}, srv.Mappings()["10"])
	assert.Equal(t, []string{"https://b.example/2"}, srv.Mappings()["20"])

	_, err = execute(t, srv, "map-batch")
	assert.Error(t, err)
}

func TestMissingAPIKey(t *testing.T) {
	srv := setupEnv(t)
	t.Setenv("ENGAGE_API_KEY", "")

	_, err := execute(t, srv, "all-mappings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
	assert.Empty(t, srv.Requests())
}

func TestLanguageCommand(t *testing.T) {
	setupEnv(t)
	t.Setenv("ENGAGE_API_KEY", "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"exact", []string{"language", "pt_BR"}, "pt-BR"},
		{"prefix", []string{"language", "de-AT"}, "de"},
		{"config default", []string{"language", "xx-YY"}, "en"},
		{"flag default", []string{"language", "--default", "fr", "xx-YY"}, "fr"},
		{"canonical", []string{"language", "--canonical", "PT-br"}, "pt-BR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, nil, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	setupEnv(t)
	SetVersion("v1.2.3", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "unknown") })

	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Equal(t, "engage v1.2.3 (built 2026-01-01)\n", out)

	v, err := currentVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())
}

func TestCurrentVersionDev(t *testing.T) {
	SetVersion("dev", "unknown")
	_, err := currentVersion()
	assert.Error(t, err)
}

func TestFormatError(t *testing.T) {
	err := &engage.APIError{Code: engage.CodeDataNotFound, Message: "Data not found"}
	assert.Equal(t, "Error: 2 (data not found): Data not found", formatError(err))

	assert.Equal(t, "Error: boom", formatError(errors.New("boom")))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]any{"stat": "ok"}))
	assert.Equal(t, "{\n  \"stat\": \"ok\"\n}\n", buf.String())
}
