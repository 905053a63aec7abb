package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/hookcfg"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/logging"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/notify"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/pkgage"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/quality"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/runner"
	"github.com/claudehooks/cli/redact"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Dispatch hooks for an event read from stdin",
		Long: `Reads a tool-use event payload (JSON) from stdin, resolves the hooks that
apply to it, and runs them in priority order. Exits 2 with the reason on
stderr when a hook blocks the action.

Register this command in .claude/settings.json via 'claude-hooks install'.`,
		Args: cobra.NoArgs,
		RunE: runDispatch,
	}
}

// builtins wires the in-process hook handlers available as script
// references.
func builtins(root string) map[string]runner.BuiltinFunc {
	return map[string]runner.BuiltinFunc{
		"quality":     quality.Builtin(root),
		"package-age": pkgage.Builtin(pkgage.NewChecker()),
		"notify":      notify.Builtin(notify.New(root)),
	}
}

func runDispatch(cmd *cobra.Command, _ []string) error {
	root, err := paths.ProjectRoot()
	if err != nil {
		return fmt.Errorf("locating project root: %w", err)
	}
	logging.Init(root)
	defer logging.Close()

	ctx := logging.WithComponent(cmd.Context(), "dispatch")

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading event payload: %w", err)
	}

	// Fail open on malformed input: a broken payload must never block the
	// assistant.
	payload, err := runner.ParsePayload(data)
	if err != nil {
		logging.Warn(ctx, "ignoring malformed payload", slog.String("error", err.Error()))
		return nil
	}

	phase, ok := payload.Phase()
	if !ok {
		logging.Debug(ctx, "no hooks for event", slog.String("event", payload.HookEventName))
		return nil
	}
	ctx = logging.WithPhase(ctx, string(phase))
	if payload.ToolName != "" {
		ctx = logging.WithTool(ctx, payload.ToolName)
	}
	// Payloads carry tool input verbatim; strip secrets before they hit disk.
	logging.Debug(ctx, "event payload", slog.String("payload", string(redact.Payload(data))))

	eng := hookcfg.NewEngine(root)
	var hooks []hookcfg.HookDef
	if payload.ToolInput.FilePath != "" {
		hooks = eng.HooksForFileAndTool(payload.ToolInput.FilePath, phase, payload.ToolName)
	} else {
		hooks = eng.HooksForTool(payload.ToolName, phase)
	}
	if len(hooks) == 0 {
		return nil
	}
	logging.Info(ctx, "dispatching hooks", slog.Int("count", len(hooks)))

	r := runner.New(root)
	r.Builtins = builtins(root)
	results, blocked := r.RunPhase(ctx, phase, hooks, data)

	for _, res := range results {
		if res.Output != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.Output)
		}
		if res.Decision != nil && !res.Decision.Blocks() && res.Decision.Reason != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Decision.Reason)
		}
		if res.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Err)
		}
	}

	if blocked != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), blocked.Reason)
		return NewExitError(2, errors.New("action blocked by hook"))
	}
	return nil
}
