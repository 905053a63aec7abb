package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/hookcfg"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
)

func newExplainCmd() *cobra.Command {
	var tool string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "explain <file>",
		Short: "Show the effective hooks for a file",
		Long: `Resolves the configuration chain for a file and prints the hooks that
would run on each phase, in dispatch order. Use --tool to see what a
specific tool's event would match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := paths.ProjectRoot()
			if err != nil {
				return fmt.Errorf("locating project root: %w", err)
			}
			return runExplain(cmd, root, args[0], tool, verbose)
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "match against a specific tool (e.g. Write)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show filters and the configuration chain")
	return cmd
}

func runExplain(cmd *cobra.Command, root, target, tool string, verbose bool) error {
	eng := hookcfg.NewEngine(root)

	cmd.Printf("Effective hooks for %s", target)
	if tool != "" {
		cmd.Printf(" (tool %s)", tool)
	}
	cmd.Println()

	if verbose {
		chain := eng.Chain(target)
		if len(chain) == 0 {
			cmd.Println(render(styleDim, "configuration chain: (none)"))
		} else {
			cmd.Println(render(styleDim, "configuration chain:"))
			for _, f := range chain {
				rel := paths.RelToRoot(root, f)
				if rel == "" {
					rel = f
				}
				cmd.Printf("  %s\n", render(styleDim, rel))
			}
		}
		cmd.Println()
	}

	matched := false
	for _, phase := range hookcfg.Phases() {
		hooks := eng.HooksForFileAndTool(target, phase, tool)
		if len(hooks) == 0 {
			continue
		}
		matched = true

		cmd.Printf("%s\n", render(stylePhase, string(phase)))
		for i, h := range hooks {
			cmd.Printf("  %d. %s  priority %d\n", i+1, render(styleHookID, h.ID), h.Priority)
			if verbose {
				explainFilters(cmd, root, h)
			}
		}
		cmd.Println()
	}

	if !matched {
		cmd.Println(render(styleDim, "No hooks match."))
	}
	return nil
}

func explainFilters(cmd *cobra.Command, root string, h hookcfg.HookDef) {
	cmd.Printf("     script: %s\n", h.Script)
	if len(h.FilePatterns) > 0 {
		cmd.Printf("     matched patterns: %s\n", strings.Join(h.FilePatterns, ", "))
	}
	if len(h.Tools) > 0 {
		cmd.Printf("     tools: %s\n", strings.Join(h.Tools, ", "))
	}
	if len(h.Directories) > 0 {
		cmd.Printf("     directories: %s\n", strings.Join(h.Directories, ", "))
	}
	if from := paths.RelToRoot(root, h.DefinedIn); from != "" {
		cmd.Printf("     %s\n", render(styleDim, "defined in "+from))
	}
}
