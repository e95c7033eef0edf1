package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/waifuctl/mywaifulist"
)

const waifuRem = `{"id":1,"name":"Rem","slug":"rem","likes":9000,"origin":"Re:Zero","tags":[{"id":1,"name":"Maid"}]}`

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/waifu/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, waifuRem)
	})
	mux.HandleFunc("/api/v1/waifu/rem", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, waifuRem)
	})
	mux.HandleFunc("/api/v1/waifu/2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":2,"name":"Subaru","husbando":true,"likes":50}`)
	})
	mux.HandleFunc("/api/v1/waifu/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Waifu not found"}`)
	})
	mux.HandleFunc("/api/v1/waifu", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":1,"name":"Rem","likes":9000},{"id":2,"name":"Subaru","likes":50}],"current_page":1,"last_page":3,"total":6}`)
	})
	mux.HandleFunc("/api/v1/meta/daily", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":3,"name":"Holo"}`)
	})
	mux.HandleFunc("/api/v1/airing/best", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":1,"name":"Rem","likes":9000},{"id":2,"name":"Subaru","likes":50}]`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// runCLI executes the root command against a config pointing at serverURL
func runCLI(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`
api:
  url: %s/api/v1
  api_key: test-key
filters:
  popular: "Likes > 1000"
logging:
  level: error
`, serverURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Flags bind to package globals, reset them between runs
	filterExpr, preset, outputFormat = "", "", ""
	page, listType, batchConcurrency = 1, string(mywaifulist.ListLikes), DefaultBatchConcurrency
	cfg, client = nil, nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", path}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWaifuGetJSON(t *testing.T) {
	server := newAPIServer(t)

	for _, arg := range []string{"1", "rem"} {
		t.Run(arg, func(t *testing.T) {
			out, err := runCLI(t, server.URL, "--output", "json", "waifu", "get", arg)
			require.NoError(t, err)

			var waifu mywaifulist.Waifu
			require.NoError(t, json.Unmarshal([]byte(out), &waifu))
			assert.Equal(t, "Rem", waifu.Name)
			assert.Equal(t, 9000, waifu.Likes)
		})
	}
}

func TestWaifuGetTable(t *testing.T) {
	server := newAPIServer(t)

	out, err := runCLI(t, server.URL, "--output", "table", "waifu", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Rem")
	assert.Contains(t, out, "Maid")
	assert.Contains(t, out, "Re:Zero")
}

func TestWaifuGetAPIError(t *testing.T) {
	server := newAPIServer(t)

	_, err := runCLI(t, server.URL, "--output", "json", "waifu", "get", "404")
	require.Error(t, err)
	assert.ErrorIs(t, err, mywaifulist.ErrAPI)
	assert.Contains(t, err.Error(), "Waifu not found")
}

func TestWaifuListWithFilter(t *testing.T) {
	server := newAPIServer(t)

	out, err := runCLI(t, server.URL, "--output", "json", "--filter", "Likes > 100", "waifu", "list")
	require.NoError(t, err)

	var page mywaifulist.Page[mywaifulist.FilteredWaifu]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Rem", page.Data[0].Name)
	assert.Equal(t, 3, page.LastPage)
}

func TestWaifuListTableFooter(t *testing.T) {
	server := newAPIServer(t)

	out, err := runCLI(t, server.URL, "--output", "table", "waifu", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1 of 3 (6 total), next: --page 2")
}

func TestAiringBestWithPreset(t *testing.T) {
	server := newAPIServer(t)

	out, err := runCLI(t, server.URL, "--output", "json", "--preset", "popular", "airing", "best")
	require.NoError(t, err)

	var waifus []mywaifulist.FilteredWaifu
	require.NoError(t, json.Unmarshal([]byte(out), &waifus))
	require.Len(t, waifus, 1)
	assert.Equal(t, 1, waifus[0].ID)

	_, err = runCLI(t, server.URL, "--preset", "missing", "airing", "best")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "popular")
}

func TestWaifuBatch(t *testing.T) {
	server := newAPIServer(t)

	out, err := runCLI(t, server.URL, "--output", "json", "waifu", "batch", "1", "2", "1", "-c", "2")
	require.NoError(t, err)

	var waifus []mywaifulist.Waifu
	require.NoError(t, json.Unmarshal([]byte(out), &waifus))
	require.Len(t, waifus, 2, "duplicate ids are fetched once")
	assert.Equal(t, "Rem", waifus[0].Name)
	assert.Equal(t, "Subaru", waifus[1].Name)
}

func TestWaifuBatchPartialFailure(t *testing.T) {
	server := newAPIServer(t)

	out, err := runCLI(t, server.URL, "--output", "json", "waifu", "batch", "1", "404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 lookups failed")

	var waifus []mywaifulist.Waifu
	require.NoError(t, json.Unmarshal([]byte(out), &waifus))
	require.Len(t, waifus, 1)
}

func TestArgumentValidation(t *testing.T) {
	server := newAPIServer(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "bad user id", args: []string{"user", "get", "abc"}, wantErr: "invalid user id"},
		{name: "bad list type", args: []string{"user", "waifus", "1", "--list", "favourites"}, wantErr: "invalid list type"},
		{name: "bad season", args: []string{"airing", "season", "monsoon", "2024"}, wantErr: "invalid season"},
		{name: "bad year", args: []string{"airing", "season", "fall", "soon"}, wantErr: "invalid year"},
		{name: "bad page", args: []string{"waifu", "list", "--page", "0"}, wantErr: "invalid page"},
		{name: "bad output", args: []string{"--output", "xml", "waifu", "daily"}, wantErr: "invalid output format"},
		{name: "bad filter", args: []string{"--filter", "Rating >", "airing", "best"}, wantErr: "invalid filter expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, server.URL, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTestCommand(t *testing.T) {
	server := newAPIServer(t)

	out, err := runCLI(t, server.URL, "test")
	require.NoError(t, err)
	assert.Contains(t, out, "Connection successful")
}

func TestVersionSkipsConfig(t *testing.T) {
	SetVersion("1.2.3", "today")
	t.Cleanup(func() { SetVersion("dev", "unknown") })

	out, err := runCLI(t, "http://127.0.0.1:1", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "waifuctl 1.2.3 (built today")
	assert.Nil(t, cfg)
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Name"}, [][]string{{"1", "Rem"}, {"2", "Holo"}})
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Holo")
}
