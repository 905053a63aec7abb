package pkgage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/logging"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/runner"
)

// DefaultMaxAge is how old an installed version may be before the install
// is blocked.
const DefaultMaxAge = 180 * 24 * time.Hour

// Checker evaluates package specs against the age limit.
type Checker struct {
	Client *Client
	MaxAge time.Duration
	Now    func() time.Time
}

// NewChecker creates a checker with the default registry and limit.
func NewChecker() *Checker {
	return &Checker{Client: NewClient(), MaxAge: DefaultMaxAge, Now: time.Now}
}

// Finding is the verdict for one package spec.
type Finding struct {
	Spec    Spec
	Blocked bool
	Reason  string
}

// CheckCommand checks every package an install command names. Registry
// failures never block; an unreachable registry must not stop development.
func (c *Checker) CheckCommand(ctx context.Context, command string) []Finding {
	var findings []Finding
	for _, raw := range ExtractPackages(command) {
		if !IsRegistryPackage(raw) {
			continue
		}
		findings = append(findings, c.checkSpec(ctx, ParseSpec(raw)))
	}
	return findings
}

func (c *Checker) checkSpec(ctx context.Context, spec Spec) Finding {
	ctx = logging.WithComponent(ctx, "pkgage")

	info, err := c.Client.Info(ctx, spec.Name)
	if err != nil {
		logging.Debug(ctx, "registry lookup failed",
			slog.String("package", spec.Name), slog.String("error", err.Error()))
		return Finding{Spec: spec}
	}

	published, ok := info.PublishTime(spec.Version)
	if !ok {
		logging.Debug(ctx, "no publish time for version",
			slog.String("package", spec.String()))
		return Finding{Spec: spec}
	}

	age := c.Now().Sub(published)
	if age <= c.MaxAge {
		return Finding{Spec: spec}
	}

	reason := fmt.Sprintf("Package %s is too old (published %d days ago, max allowed: %d days).",
		spec.String(), int(age.Hours()/24), int(c.MaxAge.Hours()/24))
	if upgrade := suggestUpgrade(info, spec.Version); upgrade != "" {
		reason += " " + upgrade
	}
	return Finding{Spec: spec, Blocked: true, Reason: reason}
}

// suggestUpgrade names the latest version when it is semver-newer than the
// one being installed.
func suggestUpgrade(info *PackageInfo, version string) string {
	latest := info.Latest()
	if latest == "" || version == latestTag {
		return ""
	}
	if semver.Compare("v"+latest, "v"+version) <= 0 {
		return ""
	}
	return fmt.Sprintf("Latest version is %s.", latest)
}

// Builtin adapts the checker to the hook protocol for hooks declared with
// script "builtin:package-age". Only PreToolUse Bash events are inspected;
// config key max_age_days overrides the limit.
func Builtin(checker *Checker) runner.BuiltinFunc {
	return func(ctx context.Context, payload []byte, config map[string]any) (*runner.Decision, error) {
		p, err := runner.ParsePayload(payload)
		if err != nil {
			return nil, err
		}
		if p.HookEventName != "PreToolUse" || p.ToolName != "Bash" || p.ToolInput.Command == "" {
			return nil, nil
		}

		ck := *checker
		if days, ok := config["max_age_days"].(float64); ok && days > 0 {
			ck.MaxAge = time.Duration(days) * 24 * time.Hour
		}

		var reasons []string
		for _, f := range ck.CheckCommand(ctx, p.ToolInput.Command) {
			if f.Blocked {
				reasons = append(reasons, f.Reason)
			}
		}
		if len(reasons) == 0 {
			return nil, nil
		}
		return &runner.Decision{
			Decision: runner.DecisionBlock,
			Reason:   strings.Join(reasons, "\n"),
		}, nil
	}
}
