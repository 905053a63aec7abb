package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/hookcfg"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
)

// installScript writes an executable hook script under the project's hooks
// directory and returns the reference to use in a hook definition.
func installScript(t *testing.T, root, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell hook scripts require a POSIX shell")
	}
	path := paths.ScriptPath(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return name
}

func TestRunHook_Allow(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	script := installScript(t, root, "ok.sh", "exit 0\n")

	res := New(root).RunHook(context.Background(), hookcfg.HookDef{ID: "ok", Script: script}, []byte(`{}`))

	require.NoError(t, res.Err)
	assert.False(t, res.Skipped)
	assert.Nil(t, res.Decision)
}

func TestRunHook_PlainStdoutIsOutput(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	script := installScript(t, root, "chatty.sh", "echo all good\nexit 0\n")

	res := New(root).RunHook(context.Background(), hookcfg.HookDef{ID: "chatty", Script: script}, []byte(`{}`))

	require.NoError(t, res.Err)
	assert.Nil(t, res.Decision)
	assert.Equal(t, "all good", res.Output)
}

func TestRunHook_Exit2Blocks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	script := installScript(t, root, "deny.sh", "echo 'not allowed' >&2\nexit 2\n")

	res := New(root).RunHook(context.Background(), hookcfg.HookDef{ID: "deny", Script: script}, []byte(`{}`))

	require.NoError(t, res.Err)
	require.True(t, res.Decision.Blocks())
	assert.Equal(t, "not allowed", res.Decision.Reason)
}

func TestRunHook_JSONDecisionOnStdout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	script := installScript(t, root, "judge.sh",
		`echo '{"decision": "block", "reason": "too long"}'`+"\nexit 0\n")

	res := New(root).RunHook(context.Background(), hookcfg.HookDef{ID: "judge", Script: script}, []byte(`{}`))

	require.NoError(t, res.Err)
	require.True(t, res.Decision.Blocks())
	assert.Equal(t, "too long", res.Decision.Reason)
	assert.Empty(t, res.Output)
}

func TestRunHook_OtherExitIsNonBlockingError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	script := installScript(t, root, "broken.sh", "echo boom >&2\nexit 1\n")

	res := New(root).RunHook(context.Background(), hookcfg.HookDef{ID: "broken", Script: script}, []byte(`{}`))

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "exit 1")
	assert.Contains(t, res.Err.Error(), "boom")
	assert.Nil(t, res.Decision)
}

func TestRunHook_PayloadOnStdinAndConfigInEnv(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	script := installScript(t, root, "inspect.sh",
		"read -r payload\n"+
			`if [ "$payload" != '{"tool_name":"Write"}' ]; then echo bad payload >&2; exit 1; fi`+"\n"+
			`if [ "$CLAUDE_HOOK_CONFIG" != '{"max":100}' ]; then echo bad config >&2; exit 1; fi`+"\n"+
			`if [ "$CLAUDE_PROJECT_DIR" != "`+root+`" ]; then echo bad root >&2; exit 1; fi`+"\n"+
			"exit 0\n")

	hook := hookcfg.HookDef{ID: "inspect", Script: script, Config: map[string]any{"max": 100}}
	res := New(root).RunHook(context.Background(), hook, []byte(`{"tool_name":"Write"}`))

	require.NoError(t, res.Err)
	assert.Nil(t, res.Decision)
}

func TestRunHook_MissingScriptIsSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	res := New(root).RunHook(context.Background(), hookcfg.HookDef{ID: "ghost", Script: "ghost.sh"}, []byte(`{}`))

	assert.True(t, res.Skipped)
	assert.NoError(t, res.Err)
	assert.Nil(t, res.Decision)
}

func TestRunHook_Timeout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	script := installScript(t, root, "slow.sh", "sleep 5\nexit 0\n")

	r := New(root)
	r.Timeout = 100 * time.Millisecond

	start := time.Now()
	res := r.RunHook(context.Background(), hookcfg.HookDef{ID: "slow", Script: script}, []byte(`{}`))

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "timed out")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunHook_Builtin(t *testing.T) {
	t.Parallel()

	r := New(t.TempDir())
	r.Builtins = map[string]BuiltinFunc{
		"quality": func(_ context.Context, payload []byte, config map[string]any) (*Decision, error) {
			assert.JSONEq(t, `{"x":1}`, string(payload))
			assert.Equal(t, float64(80), config["max_line_length"])
			return &Decision{Decision: DecisionBlock, Reason: "nope"}, nil
		},
	}

	hook := hookcfg.HookDef{
		ID:     "q",
		Script: "builtin:quality",
		Config: map[string]any{"max_line_length": float64(80)},
	}
	res := r.RunHook(context.Background(), hook, []byte(`{"x":1}`))

	require.NoError(t, res.Err)
	assert.True(t, res.Decision.Blocks())
}

func TestRunHook_UnknownBuiltin(t *testing.T) {
	t.Parallel()

	res := New(t.TempDir()).RunHook(context.Background(),
		hookcfg.HookDef{ID: "x", Script: "builtin:nope"}, []byte(`{}`))

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), `unknown builtin "nope"`)
}

func TestRunHook_BuiltinError(t *testing.T) {
	t.Parallel()

	r := New(t.TempDir())
	r.Builtins = map[string]BuiltinFunc{
		"bad": func(context.Context, []byte, map[string]any) (*Decision, error) {
			return nil, errors.New("internal failure")
		},
	}

	res := r.RunHook(context.Background(), hookcfg.HookDef{ID: "x", Script: "builtin:bad"}, []byte(`{}`))
	require.Error(t, res.Err)
}

func TestRunPhase_PreToolContinuesPastBlock(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	deny := installScript(t, root, "deny.sh", "echo no >&2\nexit 2\n")
	mark := installScript(t, root, "mark.sh", "touch \"$CLAUDE_PROJECT_DIR/ran\"\nexit 0\n")

	hooks := []hookcfg.HookDef{
		{ID: "deny", Script: deny},
		{ID: "mark", Script: mark},
	}
	results, blocked := New(root).RunPhase(context.Background(), hookcfg.PhasePreTool, hooks, []byte(`{}`))

	require.Len(t, results, 2)
	require.True(t, blocked.Blocks())
	assert.Equal(t, "no", blocked.Reason)
	assert.FileExists(t, filepath.Join(root, "ran"))
}

func TestRunPhase_StopHaltsOnBlock(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	deny := installScript(t, root, "deny.sh", "echo keep going >&2\nexit 2\n")
	mark := installScript(t, root, "mark.sh", "touch \"$CLAUDE_PROJECT_DIR/ran\"\nexit 0\n")

	hooks := []hookcfg.HookDef{
		{ID: "deny", Script: deny},
		{ID: "mark", Script: mark},
	}
	results, blocked := New(root).RunPhase(context.Background(), hookcfg.PhaseStop, hooks, []byte(`{}`))

	require.Len(t, results, 1)
	require.True(t, blocked.Blocks())
	assert.NoFileExists(t, filepath.Join(root, "ran"))
}

func TestRunPhase_FirstBlockWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	first := installScript(t, root, "first.sh", "echo first reason >&2\nexit 2\n")
	second := installScript(t, root, "second.sh", "echo second reason >&2\nexit 2\n")

	hooks := []hookcfg.HookDef{
		{ID: "first", Script: first},
		{ID: "second", Script: second},
	}
	_, blocked := New(root).RunPhase(context.Background(), hookcfg.PhasePreTool, hooks, []byte(`{}`))

	require.True(t, blocked.Blocks())
	assert.Equal(t, "first reason", blocked.Reason)
}
