package githost

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/Ponnammaah123/test-agent/schema"
)

// newGitLabTestHost wires a GitLabHost against a local test server. Routing
// uses the escaped path since project IDs carry an encoded slash.
func newGitLabTestHost(t *testing.T, routes map[string]http.HandlerFunc) *GitLabHost {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.EscapedPath()
		for suffix, handler := range routes {
			if strings.HasSuffix(strings.SplitN(path, "?", 2)[0], suffix) {
				handler(w, r)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := gitlab.NewClient("token", gitlab.WithBaseURL(server.URL))
	require.NoError(t, err)
	return NewGitLabHostWithClient(client, "acme/app", zerolog.Nop())
}

func TestGitLabLatestCommit(t *testing.T) {
	host := newGitLabTestHost(t, map[string]http.HandlerFunc{
		"/projects/acme%2Fapp/repository/commits": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "main", r.URL.Query().Get("ref_name"))
			fmt.Fprint(w, `[{"id": "abc123"}]`)
		},
	})

	sha, err := host.LatestCommit(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, "abc123", sha)
}

func TestGitLabChangedFiles(t *testing.T) {
	host := newGitLabTestHost(t, map[string]http.HandlerFunc{
		"/repository/commits/abc123/diff": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[
				{"new_path": "a.ts", "old_path": "a.ts", "new_file": false, "deleted_file": false, "diff": "@@ -1 +1,2 @@\n-old line\n+new line\n+another line\n"},
				{"new_path": "b.go", "old_path": "b.go", "new_file": true, "deleted_file": false, "diff": "+package b\n"},
				{"new_path": "c.py", "old_path": "c.py", "new_file": false, "deleted_file": true, "diff": "-print()\n"}
			]`)
		},
	})

	changes, err := host.ChangedFiles(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, schema.StatusModified, changes[0].Status)
	assert.Equal(t, 2, changes[0].Additions)
	assert.Equal(t, 1, changes[0].Deletions)
	// Diff retrieval is deferred for this provider; records carry none.
	assert.Nil(t, changes[0].Patch)

	assert.Equal(t, schema.StatusAdded, changes[1].Status)
	assert.Equal(t, schema.StatusDeleted, changes[2].Status)
	assert.Equal(t, "c.py", changes[2].Path)
}

func TestGitLabFileContent(t *testing.T) {
	host := newGitLabTestHost(t, map[string]http.HandlerFunc{
		// The client escapes dots in file paths, so routes match the
		// escaped form.
		"/repository/files/a%2Ets/raw": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "main", r.URL.Query().Get("ref"))
			fmt.Fprint(w, "const x=1;")
		},
		"/repository/files/bad%2Ebin/raw": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte{0xff, 0xfe, 0x00, 0x01})
		},
	})

	content, err := host.FileContent(context.Background(), "a.ts", "main")
	require.NoError(t, err)
	require.NotNil(t, content)
	assert.Equal(t, "const x=1;", *content)

	content, err = host.FileContent(context.Background(), "bad.bin", "main")
	require.NoError(t, err)
	assert.Nil(t, content, "non-UTF8 content is skipped")
}

func TestGitLabListTreePagination(t *testing.T) {
	host := newGitLabTestHost(t, map[string]http.HandlerFunc{
		"/repository/tree": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("recursive"))
			switch r.URL.Query().Get("page") {
			case "", "1":
				w.Header().Set("X-Next-Page", "2")
				fmt.Fprint(w, `[{"path": "src/a.go", "type": "blob"}, {"path": "src", "type": "tree"}]`)
			default:
				w.Header().Set("X-Next-Page", "")
				fmt.Fprint(w, `[{"path": "README.md", "type": "blob"}]`)
			}
		},
	})

	paths, err := host.ListTree(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.go", "README.md"}, paths)
}

func TestGitLabFindOpenPullRequest(t *testing.T) {
	host := newGitLabTestHost(t, map[string]http.HandlerFunc{
		"/merge_requests": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "opened", r.URL.Query().Get("state"))
			fmt.Fprint(w, `[
				{"iid": 4, "title": "[QE-1] Generated tests", "source_branch": "qe/tests/qe-1", "target_branch": "main", "state": "opened", "web_url": "https://gitlab.example.com/acme/app/-/merge_requests/4"}
			]`)
		},
	})

	pr, err := host.FindOpenPullRequest(context.Background(), "qe/tests/qe-1", "[QE-1]", "main")
	require.NoError(t, err)
	require.NotNil(t, pr)
	assert.Equal(t, 4, pr.Number)
	assert.Equal(t, "qe/tests/qe-1", pr.HeadBranch)
	assert.Equal(t, "https://gitlab.example.com/acme/app/-/merge_requests/4", pr.URL)

	// Title-prefix fallback when the source branch differs
	pr, err = host.FindOpenPullRequest(context.Background(), "other", "[QE-1]", "main")
	require.NoError(t, err)
	require.NotNil(t, pr)
	assert.Equal(t, 4, pr.Number)

	pr, err = host.FindOpenPullRequest(context.Background(), "other", "[QE-9]", "main")
	require.NoError(t, err)
	assert.Nil(t, pr)
}

func TestCountDiffLines(t *testing.T) {
	diff := "--- a/x\n+++ b/x\n@@ -1,2 +1,3 @@\n context\n-removed\n+added one\n+added two\n"
	additions, deletions := countDiffLines(diff)
	assert.Equal(t, 2, additions)
	assert.Equal(t, 1, deletions)
}
