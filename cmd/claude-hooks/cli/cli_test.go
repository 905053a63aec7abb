package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
)

// setupProjectDir creates a project with a .claude marker, makes it the
// working directory, and resets the root cache around the test.
func setupProjectDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, paths.ClaudeDir), 0o755))

	t.Chdir(root)
	paths.ClearProjectRootCache()
	t.Cleanup(paths.ClearProjectRootCache)
	return root
}

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeHookScript(t *testing.T, root, name, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell hook scripts require a POSIX shell")
	}
	path := paths.ScriptPath(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
}

// executeCommand runs the root command with args and optional stdin.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
