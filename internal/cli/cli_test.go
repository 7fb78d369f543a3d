package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type cliRun struct {
	out  string
	err  string
	code int
}

func newCLI(t *testing.T) func(args ...string) cliRun {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	db := filepath.Join(dir, "cli.db")
	return func(args ...string) cliRun {
		var out, errOut bytes.Buffer
		argv := append([]string{"--sqlite-path", db, "--log-level", "error"}, args...)
		code := run(argv, &out, &errOut)
		return cliRun{out: out.String(), err: errOut.String(), code: code}
	}
}

func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

func TestPutGetDelete(t *testing.T) {
	cli := newCLI(t)

	r := cli("put", "Racecar", "hello world", "level")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, "stored 3, skipped 0\n", r.out)

	r = cli("put", "racecar")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, "stored 0, skipped 1\n", r.out)

	r = cli("get", "racecar")
	require.Equal(t, 0, r.code, r.err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.out), &rec))
	assert.Equal(t, "racecar", rec["value"])

	r = cli("get", "missing")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "error:")

	assert.Equal(t, "deleted\n", cli("delete", "level").out)
	assert.Equal(t, "not found\n", cli("delete", "level").out)

	r = cli("stats")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Strings:")
	assert.Contains(t, r.out, "2")
}

func TestPutStdin(t *testing.T) {
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetIn(strings.NewReader("sky\n\n  queue  \n"))
	root.SetArgs([]string{"--sqlite-path", "stdin.db", "--log-level", "error", "put", "--stdin", "--format", "values"})
	require.NoError(t, root.Execute())
	assert.Equal(t, []string{"sky", "queue"}, lines(stdout.String()))
}

func TestSearch(t *testing.T) {
	cli := newCLI(t)
	require.Equal(t, 0, cli("put", "racecar", "hello world", "level", "Eve", "sky").code)

	r := cli("search", "--format", "values", "palindromes")
	require.Equal(t, 0, r.code, r.err)
	assert.ElementsMatch(t, []string{"racecar", "level", "eve"}, lines(r.out))

	r = cli("search", "palindromes")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Found 3 strings")
	assert.Contains(t, r.out, "PALINDROME")

	r = cli("search", "--format", "json", "strings without e", "strings with at least 2 words")
	require.Equal(t, 0, r.code, r.err)
	var results []struct {
		Count int `json:"count"`
		Data  []struct {
			Value string `json:"value"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Count)
	assert.Equal(t, 1, results[1].Count)
	assert.Equal(t, "hello world", results[1].Data[0].Value)

	r = cli("search", "longer than")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.err, "error:")

	r = cli("search", "--format", "xml", "palindromes")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "unknown format")
}

func TestFilter(t *testing.T) {
	cli := newCLI(t)
	require.Equal(t, 0, cli("put", "racecar", "hello world", "level", "Eve", "sky").code)

	r := cli("filter", "--min-length", "4", "--format", "values")
	require.Equal(t, 0, r.code, r.err)
	assert.ElementsMatch(t, []string{"racecar", "hello world", "level"}, lines(r.out))

	r = cli("filter", "--palindrome=false", "--format", "values")
	require.Equal(t, 0, r.code, r.err)
	assert.ElementsMatch(t, []string{"hello world", "sky"}, lines(r.out))

	r = cli("filter", "--contains-character", "y,w", "--format", "values")
	require.Equal(t, 0, r.code, r.err)
	assert.ElementsMatch(t, []string{"hello world", "sky"}, lines(r.out))

	r = cli("filter", "--length", "-1")
	assert.Equal(t, 1, r.code)
}

func TestExplain(t *testing.T) {
	cli := newCLI(t)

	r := cli("explain", "--format", "json", "strings", "containing", "a", "vowel", "at", "position", "2")
	require.Equal(t, 0, r.code, r.err)
	var e struct {
		Normalized string `json:"normalized"`
		SQL        string `json:"sql"`
		PostFilter []any  `json:"post_filter"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.out), &e))
	assert.Equal(t, "strings containing a vowel at position 2", e.Normalized)
	assert.Contains(t, e.SQL, "LIKE")
	assert.Len(t, e.PostFilter, 1)

	r = cli("explain", "palindromes")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Pushdown:")
	assert.Contains(t, r.out, "Post-filter:")
}
