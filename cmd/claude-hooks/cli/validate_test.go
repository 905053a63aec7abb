package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
)

func TestValidate_NoConfigFiles(t *testing.T) {
	setupProjectDir(t)

	stdout, _, err := executeCommand(t, "", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No hook configuration files found.")
}

func TestValidate_CleanProject(t *testing.T) {
	root := setupProjectDir(t)
	writeHookScript(t, root, "lint.sh", "exit 0\n")
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"id": "lint", "script": "lint.sh"}]}
	}`)

	stdout, _, err := executeCommand(t, "", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ .claude/hookconfig.json")
	assert.NotContains(t, stdout, "error:")
}

func TestValidate_ErrorsExitNonZero(t *testing.T) {
	root := setupProjectDir(t)
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"script": "lint.sh"}]}
	}`)

	stdout, _, err := executeCommand(t, "", "validate")

	var silent *SilentError
	require.ErrorAs(t, err, &silent)
	assert.Equal(t, 1, silent.ExitCode())
	assert.Contains(t, stdout, "✗ .claude/hookconfig.json")
	assert.Contains(t, stdout, "error:")
	assert.Contains(t, stdout, "1 error(s) found.")
}

func TestValidate_WarningsAloneSucceed(t *testing.T) {
	root := setupProjectDir(t)
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"id": "lint", "script": "missing.sh"}]}
	}`)

	stdout, _, err := executeCommand(t, "", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "! .claude/hookconfig.json")
	assert.Contains(t, stdout, "warning:")
}

func TestValidate_CoversDirectoryConfigs(t *testing.T) {
	root := setupProjectDir(t)
	writeHookScript(t, root, "ok.sh", "exit 0\n")
	writeProjectFile(t, root, paths.RootConfigFile, `{
		"hooks": {"pre-tool": [{"id": "ok", "script": "ok.sh"}]}
	}`)
	writeProjectFile(t, root, "src/"+paths.DirConfigName, `{not json`)

	stdout, _, err := executeCommand(t, "", "validate")

	var silent *SilentError
	require.ErrorAs(t, err, &silent)
	assert.Contains(t, stdout, "✓ .claude/hookconfig.json")
	assert.Contains(t, stdout, "✗ src/.claude-hooks.json")
}
