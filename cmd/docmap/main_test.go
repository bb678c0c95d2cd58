package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestInspect(t *testing.T) {
	out, _, err := run(t, `{"name":"a","items":[1,2.5],"ok":true}`, "inspect")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"(root)", "map"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"name", "string", `"a"`}, strings.Fields(lines[1]))
	assert.Equal(t, "items[1]", strings.Fields(lines[4])[0])
	assert.Equal(t, "double", strings.Fields(lines[4])[1])

	out, _, err = run(t, `{"a":{"b":null}}`, "inspect", "--leaves")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.b", "null", "null"}, strings.Fields(out))
}

func TestJSON_FromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("z: 1\na:\n  - x\n  - true\n"), 0o600))

	out, _, err := run(t, "", "json", path)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":["x",true]}`, strings.TrimSpace(out))

	out, _, err = run(t, "", "json", "--proto", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":1,"a":["x",true]}`, out)
}

func TestDuplicateKeys(t *testing.T) {
	_, stderr, err := run(t, `{"k":1,"k":2}`, "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "duplicate")

	_, _, err = run(t, `{"k":1,"k":2}`, "json", "--duplicate-keys", "error")
	require.Error(t, err)

	_, _, err = run(t, `{}`, "json", "--duplicate-keys", "sometimes")
	require.Error(t, err)
}

func TestMaxDepth(t *testing.T) {
	_, _, err := run(t, `[[[1]]]`, "json", "--max-depth", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursion limit exceeded")

	out, _, err := run(t, `[[[1]]]`, "json", "--max-depth", "-1")
	require.NoError(t, err)
	assert.Equal(t, "[[[1]]]", strings.TrimSpace(out))
}
