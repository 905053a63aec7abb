package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/validation"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every hook configuration file for problems",
		Long: `Strictly validates every configuration file in the project: structure,
required fields, duplicate ids, script existence. Dispatch itself is
lenient and skips broken files silently; this command is where problems
become visible. Exits 1 when any file has errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := paths.ProjectRoot()
			if err != nil {
				return fmt.Errorf("locating project root: %w", err)
			}
			return runValidate(cmd, root)
		},
	}
}

func runValidate(cmd *cobra.Command, root string) error {
	results, err := validation.ValidateAll(root)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cmd.Println("No hook configuration files found.")
		return nil
	}

	errorCount := 0
	for _, res := range results {
		rel := paths.RelToRoot(root, res.Path)
		if rel == "" {
			rel = res.Path
		}

		switch {
		case !res.OK():
			cmd.Printf("%s %s\n", render(styleError, "✗"), rel)
		case len(res.Warnings) > 0:
			cmd.Printf("%s %s\n", render(styleWarning, "!"), rel)
		default:
			cmd.Printf("%s %s\n", render(styleOK, "✓"), rel)
		}

		for _, e := range res.Errors {
			cmd.Printf("    %s %s\n", render(styleError, "error:"), e)
			errorCount++
		}
		for _, w := range res.Warnings {
			cmd.Printf("    %s %s\n", render(styleWarning, "warning:"), w)
		}
	}

	if errorCount > 0 {
		cmd.Printf("\n%d error(s) found.\n", errorCount)
		return NewSilentError(errors.New("validation failed"))
	}
	return nil
}
