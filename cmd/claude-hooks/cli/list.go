package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/hookcfg"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/jsonutil"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/validation"
)

func newListCmd() *cobra.Command {
	var asJSON bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every hook defined in the project",
		Long: `Lists every hook from every configuration file in the project, grouped by
phase and sorted by priority. Provenance shows which file defined each hook.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := paths.ProjectRoot()
			if err != nil {
				return fmt.Errorf("locating project root: %w", err)
			}
			return runList(cmd, root, asJSON, verbose)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show filters and scripts")
	return cmd
}

// collectAllHooks loads every config file and groups its hooks by phase,
// sorted in dispatch order. Broken files are skipped.
func collectAllHooks(root string) (map[hookcfg.Phase][]hookcfg.HookDef, error) {
	files, err := validation.FindConfigFiles(root)
	if err != nil {
		return nil, err
	}

	store := hookcfg.NewStore(root)
	byPhase := make(map[hookcfg.Phase][]hookcfg.HookDef)
	for _, f := range files {
		doc, err := store.Load(f)
		if err != nil {
			continue
		}
		for phase, hooks := range doc.Hooks {
			for _, h := range hooks {
				byPhase[phase] = append(byPhase[phase], h.Clone())
			}
		}
	}

	for phase := range byPhase {
		slices.SortStableFunc(byPhase[phase], func(a, b hookcfg.HookDef) int {
			if a.Priority != b.Priority {
				return b.Priority - a.Priority
			}
			return strings.Compare(a.ID, b.ID)
		})
	}
	return byPhase, nil
}

func runList(cmd *cobra.Command, root string, asJSON, verbose bool) error {
	byPhase, err := collectAllHooks(root)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := jsonutil.MarshalIndentWithNewline(byPhase, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding hook list: %w", err)
		}
		cmd.Print(string(data))
		return nil
	}

	if len(byPhase) == 0 {
		cmd.Println("No hooks configured.")
		return nil
	}

	for _, phase := range hookcfg.Phases() {
		hooks := byPhase[phase]
		if len(hooks) == 0 {
			continue
		}
		cmd.Printf("%s (%d)\n", render(stylePhase, string(phase)), len(hooks))
		for _, h := range hooks {
			printHook(cmd, root, h, verbose)
		}
		cmd.Println()
	}
	return nil
}

func printHook(cmd *cobra.Command, root string, h hookcfg.HookDef, verbose bool) {
	status := ""
	if h.Disabled {
		status = " " + render(styleWarning, "(disabled)")
	}
	cmd.Printf("  %s  priority %d%s\n", render(styleHookID, h.ID), h.Priority, status)
	if h.Description != "" {
		cmd.Printf("      %s\n", h.Description)
	}
	if from := paths.RelToRoot(root, h.DefinedIn); from != "" {
		cmd.Printf("      %s\n", render(styleDim, "defined in "+from))
	}

	if !verbose {
		return
	}
	cmd.Printf("      script: %s\n", h.Script)
	if len(h.FilePatterns) > 0 {
		cmd.Printf("      files: %s\n", strings.Join(h.FilePatterns, ", "))
	}
	if len(h.Tools) > 0 {
		cmd.Printf("      tools: %s\n", strings.Join(h.Tools, ", "))
	}
	if len(h.Directories) > 0 {
		cmd.Printf("      directories: %s\n", strings.Join(h.Directories, ", "))
	}
}
