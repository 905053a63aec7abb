package quality

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/runner"
)

// Builtin adapts the quality checks to the hook protocol for hooks declared
// with script "builtin:quality".
//
// Semantics follow the phases: PreToolUse blocks on bad content before it is
// written, PostToolUse re-checks the written file and warns, Stop scans the
// project and blocks the session from ending over unresolved findings.
func Builtin(root string) runner.BuiltinFunc {
	return func(_ context.Context, payload []byte, config map[string]any) (*runner.Decision, error) {
		p, err := runner.ParsePayload(payload)
		if err != nil {
			return nil, err
		}
		limits := LimitsFromConfig(config)

		switch p.HookEventName {
		case "PreToolUse":
			return checkPreTool(p, limits), nil
		case "PostToolUse":
			return checkPostTool(p, limits), nil
		case "Stop":
			return checkStop(root, limits), nil
		}
		return nil, nil
	}
}

// checkPreTool inspects the content a mutation is about to write.
func checkPreTool(p *runner.Payload, limits Limits) *runner.Decision {
	if !p.IsFileMutation() || p.ToolInput.FilePath == "" {
		return nil
	}
	ft := TypeForPath(p.ToolInput.FilePath)
	if ft == TypeUnknown {
		return nil
	}

	for _, content := range p.WrittenContent() {
		// Edits are fragments, not whole files; file-level limits do not
		// apply to them.
		fragmentLimits := limits
		fragmentLimits.MaxFileLength = int(^uint(0) >> 1)

		if violations := CheckContent(content, ft, fragmentLimits); len(violations) > 0 {
			return &runner.Decision{
				Decision: runner.DecisionBlock,
				Reason:   formatViolations(p.ToolInput.FilePath, violations),
			}
		}
	}
	return nil
}

// checkPostTool re-checks the file after the write landed. Findings warn but
// never block; the stop check is the enforcement point.
func checkPostTool(p *runner.Payload, limits Limits) *runner.Decision {
	if !p.IsFileMutation() || p.ToolInput.FilePath == "" {
		return nil
	}
	if violations := CheckFile(p.ToolInput.FilePath, limits); len(violations) > 0 {
		return &runner.Decision{
			Decision: "warn",
			Reason:   formatViolations(p.ToolInput.FilePath, violations) + "\nFix these before ending the session or the stop check will block.",
		}
	}
	return nil
}

// checkStop scans the whole project and blocks while findings remain.
func checkStop(root string, limits Limits) *runner.Decision {
	findings := ScanProject(root, limits)
	if len(findings) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("Code quality issues found:\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	b.WriteString("Fix all findings above before stopping.")
	return &runner.Decision{Decision: runner.DecisionBlock, Reason: b.String()}
}

// scanSkipDirs are never descended into during a project scan.
var scanSkipDirs = map[string]bool{
	".git":         true,
	".claude":      true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// ScanProject checks every recognized source file under root and returns
// findings prefixed with the file's root-relative path.
func ScanProject(root string, limits Limits) []string {
	var findings []string

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if scanSkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		violations := CheckFile(path, limits)
		if len(violations) == 0 {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		for _, v := range violations {
			findings = append(findings, fmt.Sprintf("%s: %s", filepath.ToSlash(rel), v))
		}
		return nil
	})

	return findings
}

func formatViolations(path string, violations []Violation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Code quality issues in %s:\n", path)
	for _, v := range violations {
		fmt.Fprintf(&b, "  - %s\n", v)
	}
	return strings.TrimRight(b.String(), "\n")
}
