// Package runner is the dispatch boundary: it executes matched hooks as
// subprocesses and interprets their exit codes. The configuration engine
// decides which hooks run; this package runs them.
//
// Protocol, per hook: the event payload JSON is written to the subprocess's
// stdin and the hook's config map is passed JSON-encoded in the
// CLAUDE_HOOK_CONFIG environment variable. Exit 0 allows (an optional JSON
// decision may appear on stdout), exit 2 blocks with the reason on stderr,
// any other exit is a non-blocking error.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/hookcfg"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/logging"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
)

// DefaultTimeout bounds a single hook's execution.
const DefaultTimeout = 10 * time.Second

// BuiltinPrefix marks a script reference as a built-in handler instead of a
// file on disk, e.g. "builtin:quality".
const BuiltinPrefix = "builtin:"

// Decision is the structured verdict a hook may emit.
type Decision struct {
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// DecisionBlock is the only decision value with dispatch semantics.
const DecisionBlock = "block"

// Blocks reports whether the decision rejects the triggering action.
func (d *Decision) Blocks() bool {
	return d != nil && d.Decision == DecisionBlock
}

// Result is the outcome of running one hook.
type Result struct {
	Hook     hookcfg.HookDef
	Decision *Decision
	Output   string // stdout that was not a JSON decision
	Err      error  // non-blocking error (bad exit, timeout, spawn failure)
	Skipped  bool   // script missing on disk
}

// BuiltinFunc handles a builtin: script reference in-process.
type BuiltinFunc func(ctx context.Context, payload []byte, config map[string]any) (*Decision, error)

// Runner executes hooks for a project.
type Runner struct {
	Root     string
	Timeout  time.Duration
	Builtins map[string]BuiltinFunc
}

// New creates a runner with the default timeout.
func New(root string) *Runner {
	return &Runner{Root: root, Timeout: DefaultTimeout}
}

// RunPhase executes hooks in the order given (the matcher's dispatch order)
// and returns all results plus the first blocking decision, if any.
//
// For the stop phase a blocking decision halts execution immediately; for
// pre-tool and post-tool every hook runs and errors are non-blocking, so a
// single misbehaving hook cannot shadow the rest.
func (r *Runner) RunPhase(ctx context.Context, phase hookcfg.Phase, hooks []hookcfg.HookDef, payload []byte) ([]Result, *Decision) {
	var results []Result
	var blocked *Decision

	for _, h := range hooks {
		res := r.RunHook(ctx, h, payload)
		results = append(results, res)

		if res.Decision.Blocks() {
			if blocked == nil {
				blocked = res.Decision
			}
			if phase == hookcfg.PhaseStop {
				break
			}
		}
	}
	return results, blocked
}

// RunHook executes a single hook against the payload.
func (r *Runner) RunHook(ctx context.Context, hook hookcfg.HookDef, payload []byte) Result {
	ctx = logging.WithComponent(ctx, "runner")
	res := Result{Hook: hook}

	if name, ok := strings.CutPrefix(hook.Script, BuiltinPrefix); ok {
		return r.runBuiltin(ctx, name, hook, payload)
	}

	script := paths.ScriptPath(r.Root, hook.Script)
	if _, err := os.Stat(script); err != nil {
		logging.Debug(ctx, "skipping hook with missing script",
			slog.String("hook", hook.ID), slog.String("script", script))
		res.Skipped = true
		return res
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, script)
	cmd.Dir = r.Root
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Env = append(os.Environ(),
		"CLAUDE_HOOK_CONFIG="+encodeConfig(hook.Config),
		"CLAUDE_PROJECT_DIR="+r.Root,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		res.Err = fmt.Errorf("hook %s timed out after %s", hook.ID, timeout)
		return res
	}

	switch code := exitCode(err); {
	case err != nil && code < 0:
		res.Err = fmt.Errorf("running hook %s: %w", hook.ID, err)
	case code == 2:
		res.Decision = &Decision{Decision: DecisionBlock, Reason: strings.TrimSpace(stderr.String())}
	case code != 0:
		res.Err = fmt.Errorf("hook %s failed (exit %d): %s", hook.ID, code, strings.TrimSpace(stderr.String()))
	default:
		res.Decision, res.Output = parseOutput(stdout.String())
	}

	if res.Err != nil {
		logging.Warn(ctx, "hook error", slog.String("hook", hook.ID), slog.String("error", res.Err.Error()))
	}
	return res
}

func (r *Runner) runBuiltin(ctx context.Context, name string, hook hookcfg.HookDef, payload []byte) Result {
	res := Result{Hook: hook}
	fn, ok := r.Builtins[name]
	if !ok {
		res.Err = fmt.Errorf("hook %s: unknown builtin %q", hook.ID, name)
		return res
	}
	decision, err := fn(ctx, payload, hook.Config)
	res.Decision = decision
	if err != nil {
		res.Err = fmt.Errorf("builtin %s: %w", name, err)
	}
	return res
}

// parseOutput interprets a successful hook's stdout: a JSON decision object
// when it parses as one, plain output otherwise.
func parseOutput(stdout string) (*Decision, string) {
	out := strings.TrimSpace(stdout)
	if out == "" {
		return nil, ""
	}
	var d Decision
	if err := json.Unmarshal([]byte(out), &d); err == nil && d.Decision != "" {
		return &d, ""
	}
	return nil, out
}

func encodeConfig(config map[string]any) string {
	if len(config) == 0 {
		return "{}"
	}
	data, err := json.Marshal(config)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// exitCode extracts the subprocess exit code; -1 when the process never ran.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
