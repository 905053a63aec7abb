package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/jsonutil"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
)

// ClaudeSettings represents the .claude/settings.json structure.
type ClaudeSettings struct {
	Hooks ClaudeHooks `json:"hooks"`
}

// ClaudeHooks contains the hook configurations.
type ClaudeHooks struct {
	PreToolUse  []ClaudeHookMatcher `json:"PreToolUse,omitempty"`
	PostToolUse []ClaudeHookMatcher `json:"PostToolUse,omitempty"`
	Stop        []ClaudeHookMatcher `json:"Stop,omitempty"`
}

// ClaudeHookMatcher matches hooks to specific tool patterns.
type ClaudeHookMatcher struct {
	Matcher string            `json:"matcher,omitempty"`
	Hooks   []ClaudeHookEntry `json:"hooks"`
}

// ClaudeHookEntry represents a single hook command.
type ClaudeHookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

func newInstallCmd() *cobra.Command {
	var localDev bool
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register the dispatcher in .claude/settings.json",
		Long: `Adds the claude-hooks dispatcher to the PreToolUse, PostToolUse and Stop
events in .claude/settings.json, preserving existing entries. Idempotent:
running it again changes nothing unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := paths.ProjectRoot()
			if err != nil {
				return fmt.Errorf("locating project root: %w", err)
			}
			return runInstall(cmd, root, localDev, force)
		},
	}

	cmd.Flags().BoolVar(&localDev, "local-dev", false, "use 'go run' instead of the installed binary")
	cmd.Flags().BoolVar(&force, "force", false, "reinstall, replacing existing dispatcher entries")
	return cmd
}

// dispatcherCommand is the hook command written into settings.json.
func dispatcherCommand(localDev bool) string {
	if localDev {
		return "go run ${CLAUDE_PROJECT_DIR}/cmd/claude-hooks run"
	}
	return "claude-hooks run"
}

func runInstall(cmd *cobra.Command, root string, localDev, force bool) error {
	settingsPath := filepath.Join(root, filepath.FromSlash(paths.SettingsFile))

	// rawSettings preserves top-level keys this tool does not manage.
	var settings ClaudeSettings
	rawSettings := make(map[string]json.RawMessage)

	existingData, readErr := os.ReadFile(settingsPath)
	if readErr == nil {
		if err := json.Unmarshal(existingData, &rawSettings); err != nil {
			return fmt.Errorf("parsing existing settings.json: %w", err)
		}
		if hooksRaw, ok := rawSettings["hooks"]; ok {
			if err := json.Unmarshal(hooksRaw, &settings.Hooks); err != nil {
				return fmt.Errorf("parsing hooks in settings.json: %w", err)
			}
		}

		if !force {
			if err := confirmModify(cmd, settingsPath); err != nil {
				return err
			}
		}
	}

	command := dispatcherCommand(localDev)
	if force {
		settings.Hooks.PreToolUse = removeDispatcherEntries(settings.Hooks.PreToolUse)
		settings.Hooks.PostToolUse = removeDispatcherEntries(settings.Hooks.PostToolUse)
		settings.Hooks.Stop = removeDispatcherEntries(settings.Hooks.Stop)
	}

	installed := 0
	if !matcherCommandExists(settings.Hooks.PreToolUse, command) {
		settings.Hooks.PreToolUse = appendEntry(settings.Hooks.PreToolUse, "*", command)
		installed++
	}
	if !matcherCommandExists(settings.Hooks.PostToolUse, command) {
		settings.Hooks.PostToolUse = appendEntry(settings.Hooks.PostToolUse, "*", command)
		installed++
	}
	if !matcherCommandExists(settings.Hooks.Stop, command) {
		settings.Hooks.Stop = appendEntry(settings.Hooks.Stop, "", command)
		installed++
	}

	if installed == 0 {
		cmd.Println("Dispatcher already installed.")
		return nil
	}

	hooksRaw, err := json.Marshal(settings.Hooks)
	if err != nil {
		return fmt.Errorf("encoding hooks: %w", err)
	}
	rawSettings["hooks"] = hooksRaw

	data, err := jsonutil.MarshalIndentWithNewline(rawSettings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(settingsPath), err)
	}
	if err := os.WriteFile(settingsPath, data, 0o644); err != nil {
		return fmt.Errorf("writing settings.json: %w", err)
	}

	cmd.Printf("%s Installed dispatcher for %d event(s) in %s\n",
		render(styleOK, "✓"), installed, paths.SettingsFile)
	return nil
}

// confirmModify asks before touching an existing settings file.
func confirmModify(cmd *cobra.Command, settingsPath string) error {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Modify existing %s?", settingsPath)).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return NewSilentError(errors.New("aborted"))
		}
		return fmt.Errorf("getting confirmation: %w", err)
	}
	if !confirmed {
		cmd.Println("Nothing changed.")
		return NewSilentError(errors.New("declined"))
	}
	return nil
}

func matcherCommandExists(matchers []ClaudeHookMatcher, command string) bool {
	for _, m := range matchers {
		for _, h := range m.Hooks {
			if h.Command == command {
				return true
			}
		}
	}
	return false
}

func appendEntry(matchers []ClaudeHookMatcher, matcher, command string) []ClaudeHookMatcher {
	return append(matchers, ClaudeHookMatcher{
		Matcher: matcher,
		Hooks:   []ClaudeHookEntry{{Type: "command", Command: command}},
	})
}

// removeDispatcherEntries drops matchers that only carried our dispatcher,
// and our entries from mixed matchers. User hooks are untouched.
func removeDispatcherEntries(matchers []ClaudeHookMatcher) []ClaudeHookMatcher {
	var out []ClaudeHookMatcher
	for _, m := range matchers {
		m.Hooks = slices.DeleteFunc(slices.Clone(m.Hooks), func(h ClaudeHookEntry) bool {
			return isDispatcherCommand(h.Command)
		})
		if len(m.Hooks) > 0 {
			out = append(out, m)
		}
	}
	return out
}

func isDispatcherCommand(command string) bool {
	return command == dispatcherCommand(false) || command == dispatcherCommand(true)
}
