package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
)

func preToolPayload(tool, filePath, content string) string {
	return `{
		"hook_event_name": "PreToolUse",
		"tool_name": "` + tool + `",
		"tool_input": {"file_path": "` + filePath + `", "content": ` + content + `}
	}`
}

func TestRun_NoHooksConfigured(t *testing.T) {
	setupProjectDir(t)

	_, stderr, err := executeCommand(t, preToolPayload("Write", "a.py", `"x = 1"`), "run")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestRun_AllowingScript(t *testing.T) {
	root := setupProjectDir(t)
	writeHookScript(t, root, "ok.sh", "echo looks fine\nexit 0\n")
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"id": "ok", "script": "ok.sh"}]}
	}`)

	stdout, _, err := executeCommand(t, preToolPayload("Write", "a.py", `"x = 1"`), "run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "looks fine")
}

func TestRun_BlockingScriptExitsTwo(t *testing.T) {
	root := setupProjectDir(t)
	writeHookScript(t, root, "deny.sh", "echo 'not in this repo' >&2\nexit 2\n")
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"id": "deny", "script": "deny.sh"}]}
	}`)

	_, stderr, err := executeCommand(t, preToolPayload("Write", "a.py", `"x = 1"`), "run")

	var silent *SilentError
	require.ErrorAs(t, err, &silent)
	assert.Equal(t, 2, silent.ExitCode())
	assert.Contains(t, stderr, "not in this repo")
}

func TestRun_DirectoryOverrideApplies(t *testing.T) {
	root := setupProjectDir(t)
	writeHookScript(t, root, "root.sh", "echo from-root\nexit 0\n")
	writeHookScript(t, root, "src.sh", "echo from-src\nexit 0\n")
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"id": "mark", "script": "root.sh"}]}
	}`)
	writeProjectFile(t, root, "src/"+paths.DirConfigName, `{
		"hooks": {"pre-tool": [{"id": "mark", "script": "src.sh"}]}
	}`)

	stdout, _, err := executeCommand(t, preToolPayload("Write", "src/app.py", `"x = 1"`), "run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "from-src")
	assert.NotContains(t, stdout, "from-root")
}

func TestRun_BuiltinQualityBlocks(t *testing.T) {
	root := setupProjectDir(t)
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"id": "quality", "script": "builtin:quality", "file_patterns": ["*.py"]}]}
	}`)

	long := `"` + strings.Repeat("x", 150) + `"`
	_, stderr, err := executeCommand(t, preToolPayload("Write", "app.py", long), "run")

	var silent *SilentError
	require.ErrorAs(t, err, &silent)
	assert.Equal(t, 2, silent.ExitCode())
	assert.Contains(t, stderr, "characters long")
}

func TestRun_ToolFilterSkipsOtherTools(t *testing.T) {
	root := setupProjectDir(t)
	writeHookScript(t, root, "deny.sh", "echo no >&2\nexit 2\n")
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"id": "deny", "script": "deny.sh", "tools": ["Bash"]}]}
	}`)

	_, _, err := executeCommand(t, preToolPayload("Write", "a.py", `"x = 1"`), "run")
	require.NoError(t, err)
}

func TestRun_MalformedPayloadFailsOpen(t *testing.T) {
	root := setupProjectDir(t)
	writeHookScript(t, root, "deny.sh", "exit 2\n")
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"id": "deny", "script": "deny.sh"}]}
	}`)

	_, _, err := executeCommand(t, "this is not json", "run")
	assert.NoError(t, err)
}

func TestRun_UnknownEventIsIgnored(t *testing.T) {
	setupProjectDir(t)

	_, _, err := executeCommand(t, `{"hook_event_name": "Notification"}`, "run")
	assert.NoError(t, err)
}

func TestRun_StopEventUsesRootHooks(t *testing.T) {
	root := setupProjectDir(t)
	writeHookScript(t, root, "summary.sh", "echo session-summary\nexit 0\n")
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"stop": [{"id": "summary", "script": "summary.sh"}]}
	}`)

	stdout, _, err := executeCommand(t, `{"hook_event_name": "Stop", "session_id": "s1"}`, "run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "session-summary")
}

func TestRun_NonBlockingErrorSurfacesAndAllows(t *testing.T) {
	root := setupProjectDir(t)
	writeHookScript(t, root, "flaky.sh", "echo transient >&2\nexit 1\n")
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"post-tool": [{"id": "flaky", "script": "flaky.sh"}]}
	}`)

	payload := `{
		"hook_event_name": "PostToolUse",
		"tool_name": "Write",
		"tool_input": {"file_path": "a.py"}
	}`
	_, stderr, err := executeCommand(t, payload, "run")

	require.NoError(t, err)
	assert.Contains(t, stderr, "transient")
}

func TestSilentError(t *testing.T) {
	t.Parallel()

	err := NewExitError(2, errors.New("blocked"))
	assert.Equal(t, 2, err.ExitCode())
	assert.Equal(t, "blocked", err.Error())

	var silent *SilentError
	assert.True(t, errors.As(err, &silent))
	assert.Equal(t, 1, NewSilentError(errors.New("x")).ExitCode())
}
