// Package cli implements the claude-hooks command tree: the universal
// dispatcher (run), the inspection commands (list, explain, validate,
// check), and the installer.
package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/hookcfg"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/telemetry"
)

const longDescription = `Hierarchical, pattern-based hooks for Claude Code.

Hooks are defined in .claude/hookconfig.json at the project root and can be
overridden per directory with .claude-hooks.json files. Each hook names a
script that runs on tool-use events (pre-tool, post-tool, stop) and can
allow, warn, or block the triggering action.

Getting Started:
  Run 'claude-hooks install' to register the dispatcher in
  .claude/settings.json, then add hooks to .claude/hookconfig.json.
`

// Version information (can be set at build time)
var (
	Version = "dev"
	Commit  = "unknown"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claude-hooks",
		Short: "Hierarchical hook dispatcher for Claude Code",
		Long:  longDescription,
		// Let main.go handle error printing to avoid duplication
		SilenceErrors: true,
		// Hide completion command from help but keep it functional
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			// Telemetry preference lives in the root config; nil defaults
			// to disabled.
			telemetryClient := telemetry.NewClient(Version, telemetryPreference())
			defer telemetryClient.Close()
			telemetryClient.TrackCommand(cmd, 0, false)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newExplainCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("claude-hooks %s (%s)\n", Version, Commit)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// telemetryPreference reads the opt-in flag from the root configuration's
// pass-through "telemetry" key.
func telemetryPreference() *bool {
	root, err := paths.ProjectRoot()
	if err != nil {
		return nil
	}
	doc, err := hookcfg.NewStore(root).Load(paths.RootConfigPath(root))
	if err != nil {
		return nil
	}
	raw, ok := doc.Extra["telemetry"]
	if !ok {
		return nil
	}
	var enabled bool
	if err := json.Unmarshal(raw, &enabled); err != nil {
		return nil
	}
	return &enabled
}
