package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes newRootCmd() with args, feeding stdin (if non-empty) and
// capturing stdout. readInput/writeOutput talk to os.Stdin/os.Stdout
// directly rather than the cobra command's own in/out streams, so the
// redirection has to happen at the os.Pipe level, not via cmd.SetIn/SetOut.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	if stdin != "" {
		r, w, err := os.Pipe()
		require.NoError(t, err)
		_, err = w.WriteString(stdin)
		require.NoError(t, err)
		w.Close()
		oldStdin := os.Stdin
		os.Stdin = r
		defer func() { os.Stdin = oldStdin }()
	}

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	oldStdout := os.Stdout
	os.Stdout = outW
	defer func() { os.Stdout = oldStdout }()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmdErr := cmd.Execute()

	outW.Close()
	var out bytes.Buffer
	_, readErr := out.ReadFrom(outR)
	require.NoError(t, readErr)

	return out.String(), cmdErr
}

func TestCLIReadsFileArgumentAndMangles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.js")
	require.NoError(t, os.WriteFile(in, []byte("const longName=1;console.log(longName)"), 0o644))

	out, err := runCLI(t, "", in, "--dialect", "js")
	require.NoError(t, err)
	assert.NotContains(t, out, "longName")
}

func TestCLIWritesToOutFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.js")
	outPath := filepath.Join(dir, "out.js")
	require.NoError(t, os.WriteFile(in, []byte("const x=1;console.log(x)"), 0o644))

	_, err := runCLI(t, "", in, "--dialect", "js", "--out", outPath)
	require.NoError(t, err)

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestCLIReadsFromStdin(t *testing.T) {
	out, err := runCLI(t, "const a=1;console.log(a)", "--dialect", "js")
	require.NoError(t, err)
	assert.NotContains(t, out, "const a")
}

func TestCLIRejectsUnknownDialect(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.js")
	require.NoError(t, os.WriteFile(in, []byte("const x=1"), 0o644))

	_, err := runCLI(t, "", in, "--dialect", "cobol")
	assert.Error(t, err)
}

func TestCLIAppliesHoistGlobalsFlag(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.js")
	src := ""
	for i := 0; i < 20; i++ {
		src += "abcdefghijklmnopqrst.foo();"
	}
	require.NoError(t, os.WriteFile(in, []byte(src), 0o644))

	out, err := runCLI(t, "", in, "--dialect", "js", "--hoist-globals")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
