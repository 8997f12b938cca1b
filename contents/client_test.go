package contents

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commity/commity/fault"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-token", WithBaseURL(srv.URL+"/")), srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetFileDecodesContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alice/site/contents/blogs/.config", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"type":     "file",
			"name":     ".config",
			"path":     "blogs/.config",
			"sha":      "abc123",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte("hello")),
		})
	})
	c, _ := newTestClient(t, mux)

	f, err := c.GetFile(context.Background(), "alice", "site", "main", "blogs/.config")
	require.NoError(t, err)
	assert.Equal(t, "blogs/.config", f.Path)
	assert.Equal(t, "abc123", f.SHA)
	assert.Equal(t, []byte("hello"), f.Content)
	assert.False(t, f.IsDir)
}

func TestGetFileDirectory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alice/site/contents/blogs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"type": "file", "name": "README.md", "path": "blogs/README.md", "sha": "r1"},
		})
	})
	c, _ := newTestClient(t, mux)

	f, err := c.GetFile(context.Background(), "alice", "site", "main", "blogs")
	require.NoError(t, err)
	assert.True(t, f.IsDir)
}

func TestGetFileNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.GetFile(context.Background(), "alice", "site", "main", "blogs/.config")
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.NotFound))
}

func TestPutFileCreate(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /repos/alice/site/contents/blogs/hello.html", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusCreated, map[string]any{
			"content": map[string]any{"sha": "new-sha", "path": "blogs/hello.html"},
			"commit":  map[string]any{"sha": "c1"},
		})
	})
	c, _ := newTestClient(t, mux)

	f, err := c.PutFile(context.Background(), "alice", "site", "main", "blogs/hello.html",
		[]byte("<html></html>"), "chore(blog): add Hello", "")
	require.NoError(t, err)
	assert.Equal(t, "new-sha", f.SHA)

	assert.Equal(t, "chore(blog): add Hello", gotBody["message"])
	assert.Equal(t, "main", gotBody["branch"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("<html></html>")), gotBody["content"])
	_, hasSHA := gotBody["sha"]
	assert.False(t, hasSHA, "create must not send a revision token")
}

func TestPutFileUpdateSendsRevisionToken(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /repos/alice/site/contents/blogs/hello.html", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusOK, map[string]any{
			"content": map[string]any{"sha": "sha-2"},
			"commit":  map[string]any{"sha": "c2"},
		})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.PutFile(context.Background(), "alice", "site", "main", "blogs/hello.html",
		[]byte("v2"), "chore(blog): add Hello", "sha-1")
	require.NoError(t, err)
	assert.Equal(t, "sha-1", gotBody["sha"])
}

func TestPutFileStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   fault.Kind
	}{
		{http.StatusConflict, fault.Conflict},
		{http.StatusUnauthorized, fault.Unauthorized},
		{http.StatusForbidden, fault.Unauthorized},
		{http.StatusInternalServerError, fault.Upstream},
		{http.StatusUnprocessableEntity, fault.Upstream},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d", tc.status), func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tc.status, map[string]any{"message": "nope"})
			})
			c, _ := newTestClient(t, mux)

			_, err := c.PutFile(context.Background(), "alice", "site", "main", "p",
				[]byte("x"), "m", "")
			require.Error(t, err)
			assert.Equal(t, tc.kind, fault.KindOf(err))
		})
	}
}

func TestDefaultBranchCached(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alice/site", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"name": "site", "default_branch": "main"})
	})
	c, _ := newTestClient(t, mux)

	for range 3 {
		branch, err := c.DefaultBranch(context.Background(), "alice", "site")
		require.NoError(t, err)
		assert.Equal(t, "main", branch)
	}
	assert.Equal(t, int32(1), hits.Load(), "repeated lookups should hit the cache")
}

func TestListRepos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/repos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{
				"name":           "site",
				"description":    "my blog",
				"default_branch": "main",
				"private":        false,
				"html_url":       "https://github.com/alice/site",
				"owner":          map[string]any{"login": "alice"},
			},
		})
	})
	c, _ := newTestClient(t, mux)

	repos, err := c.ListRepos(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "alice", repos[0].Owner)
	assert.Equal(t, "site", repos[0].Name)
	assert.Equal(t, "main", repos[0].DefaultBranch)
}
