package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/quality"
)

func newCheckCmd() *cobra.Command {
	limits := quality.DefaultLimits()

	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Run the code quality checks",
		Long: `Runs the built-in quality checks (line length, file length, function
length, nesting depth, indentation) over the given files, or over the
whole project when no files are named. This is the same checker hooks get
with script "builtin:quality". Exits 1 when findings exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, limits)
		},
	}

	cmd.Flags().IntVar(&limits.MaxLineLength, "max-line-length", limits.MaxLineLength, "maximum line length")
	cmd.Flags().IntVar(&limits.MaxFileLength, "max-file-length", limits.MaxFileLength, "maximum file length in lines")
	cmd.Flags().IntVar(&limits.MaxFunctionLength, "max-function-length", limits.MaxFunctionLength, "maximum function length in lines")
	cmd.Flags().IntVar(&limits.MaxNestingDepth, "max-nesting-depth", limits.MaxNestingDepth, "maximum nesting depth")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, limits quality.Limits) error {
	var findings []string

	if len(args) == 0 {
		root, err := paths.ProjectRoot()
		if err != nil {
			return fmt.Errorf("locating project root: %w", err)
		}
		findings = quality.ScanProject(root, limits)
	} else {
		for _, path := range args {
			for _, v := range quality.CheckFile(path, limits) {
				findings = append(findings, fmt.Sprintf("%s: %s", path, v))
			}
		}
	}

	if len(findings) == 0 {
		cmd.Println(render(styleOK, "No quality issues found."))
		return nil
	}

	for _, f := range findings {
		cmd.Printf("%s %s\n", render(styleError, "✗"), f)
	}
	cmd.Printf("\n%d finding(s).\n", len(findings))
	return NewSilentError(errors.New("quality check failed"))
}
