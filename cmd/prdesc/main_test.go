// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prdesc/internal/render"
	"github.com/pdiddy/prdesc/internal/secrets"
	"github.com/pdiddy/prdesc/internal/text"
)

// --- test helpers ---

// resetFlags restores every flag to its default so commands can be
// executed repeatedly within one test binary.
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

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--secrets-dir", t.TempDir()))
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

const pullRequestsJSON = `{
  "value": [
    {
      "pullRequestId": 101,
      "title": "Fix login redirect",
      "description": "The redirect dropped the query string.\r\nThis keeps it.\r\n\r\n- adds a test\r\n- updates docs",
      "isDraft": false,
      "createdBy": {"displayName": "Ada Lovelace"},
      "creationDate": "2026-03-04T10:15:00Z"
    },
    {
      "pullRequestId": 102,
      "title": "WIP: new dashboard",
      "description": "not ready",
      "isDraft": true,
      "createdBy": {"displayName": "Grace Hopper"}
    },
    {
      "pullRequestId": 103,
      "title": "Bump version",
      "description": null,
      "isDraft": false,
      "createdBy": {"displayName": "Alan Turing"}
    }
  ],
  "count": 3
}`

func devopsServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ada" || pass != "secret-pat" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/contoso/web/_apis/git/pullrequests" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(pullRequestsJSON))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func patFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pat")
	require.NoError(t, os.WriteFile(path, []byte("secret-pat\n"), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "prdesc dev\n", out)
}

func TestFormat(t *testing.T) {
	input := "Intro line\r\ncontinues here.\r\n\r\n* first\r\n-   second\r\n"

	t.Run("stdin text", func(t *testing.T) {
		out, err := execute(t, input, "format", "--indent", "2")
		require.NoError(t, err)
		assert.Equal(t, "  Intro line continues here.\n\n- first\n- second\n", out)
	})

	t.Run("dash reads stdin", func(t *testing.T) {
		out, err := execute(t, "hello", "format", "-", "--indent", "0")
		require.NoError(t, err)
		assert.Equal(t, "hello\n\n", out)
	})

	t.Run("file as json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "desc.txt")
		require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

		out, err := execute(t, "", "format", path, "--format", "json")
		require.NoError(t, err)

		var got []text.Record
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []text.Record{
			{Kind: text.KindParagraph, Text: "Intro line continues here."},
			{Kind: text.KindListEntry, Text: "first"},
			{Kind: text.KindListEntry, Text: "second"},
		}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "", "format", filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening")
	})
}

func TestList(t *testing.T) {
	ts := devopsServer(t)
	historyDir := t.TempDir()

	out, err := execute(t, "",
		"list", "ada", "contoso", "web",
		"--base-url", ts.URL,
		"--pat-file", patFile(t),
		"--history-dir", historyDir)
	require.NoError(t, err)

	want := "Fix login redirect\n" +
		"\n" +
		"    The redirect dropped the query string. This keeps it.\n" +
		"\n" +
		"- adds a test\n" +
		"- updates docs\n" +
		render.Separator + "\n" +
		"Bump version\n"
	assert.Equal(t, want, out)
	assert.FileExists(t, filepath.Join(historyDir, "history.db"))

	t.Run("history search", func(t *testing.T) {
		out, err := execute(t, "", "history", "search", "--history-dir", historyDir)
		require.NoError(t, err)
		assert.Contains(t, out, "Fix login redirect")
		assert.Contains(t, out, "Bump version")
		assert.NotContains(t, out, "WIP")
		assert.Contains(t, out, "2 pull request(s)")
	})

	t.Run("history show", func(t *testing.T) {
		out, err := execute(t, "", "history", "show", "101", "--format", "json", "--history-dir", historyDir)
		require.NoError(t, err)

		var docs []render.Document
		require.NoError(t, json.Unmarshal([]byte(out), &docs))
		require.Len(t, docs, 1)
		assert.Equal(t, "Ada Lovelace", docs[0].Author)
		assert.Len(t, docs[0].Elements, 3)
	})

	t.Run("history show unknown id", func(t *testing.T) {
		_, err := execute(t, "", "history", "show", "999", "--history-dir", historyDir)
		require.Error(t, err)
	})

	t.Run("history export", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.json")
		out, err := execute(t, "", "history", "export", "--format", "json", "--out", path, "--history-dir", historyDir)
		require.NoError(t, err)
		assert.Contains(t, out, "Exported 2 pull request(s)")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var docs []render.Document
		require.NoError(t, json.Unmarshal(data, &docs))
		assert.Len(t, docs, 2)
	})
}

func TestList_IncludeDraftsNoHistory(t *testing.T) {
	ts := devopsServer(t)
	historyDir := filepath.Join(t.TempDir(), "history")

	out, err := execute(t, "",
		"list", "ada", "contoso", "web",
		"--base-url", ts.URL,
		"--pat-file", patFile(t),
		"--include-drafts",
		"--no-history",
		"--history-dir", historyDir)
	require.NoError(t, err)
	assert.Contains(t, out, "WIP: new dashboard\n\n    not ready\n\n"+render.Separator)
	assert.NoDirExists(t, historyDir)
}

func TestList_Errors(t *testing.T) {
	ts := devopsServer(t)

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := execute(t, "", "list", "ada", "contoso")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got 2 argument(s)")
	})

	t.Run("no token", func(t *testing.T) {
		_, err := execute(t, "", "list", "ada", "contoso", "web", "--base-url", ts.URL, "--no-history")
		assert.ErrorIs(t, err, secrets.ErrNoPAT)
	})

	t.Run("rejected token", func(t *testing.T) {
		_, err := execute(t, "", "list", "bob", "contoso", "web",
			"--base-url", ts.URL, "--pat-file", patFile(t), "--no-history")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "authentication failed")
	})

	t.Run("flags instead of arguments", func(t *testing.T) {
		out, err := execute(t, "", "list",
			"--username", "ada", "--organization", "contoso", "--project", "web",
			"--base-url", ts.URL, "--pat-file", patFile(t), "--no-history")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Fix login redirect\n"))
	})
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "pat"), expandHome("~/pat"))
	assert.Equal(t, "/abs/pat", expandHome("/abs/pat"))
	assert.Equal(t, "rel/pat", expandHome("rel/pat"))
}
