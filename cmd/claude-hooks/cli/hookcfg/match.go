package hookcfg

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match filters and orders the hooks from an effective configuration that
// apply to one event.
//
// target is the file path the event concerns (or the project root for
// tool-only events); tool is the tool name, or "" when the event carries
// none. root anchors the directory filter's project-relative paths.
//
// Returned hooks are sorted by descending priority, ties broken by ascending
// id, so dispatch order is deterministic and reproducible. The result is a
// deep copy; mutating it cannot affect the cached configuration.
func Match(doc *Document, phase Phase, target, tool, root string) []HookDef {
	var out []HookDef
	for _, h := range doc.Hooks[phase] {
		if hookApplies(h, target, tool, root) {
			out = append(out, h.Clone())
		}
	}

	slices.SortStableFunc(out, func(a, b HookDef) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// hookApplies reports whether every filter on the hook admits the event.
func hookApplies(h HookDef, target, tool, root string) bool {
	if h.Disabled {
		return false
	}
	return matchesFilePatterns(h.FilePatterns, target) &&
		matchesTools(h.Tools, tool) &&
		matchesDirectories(h.Directories, target, root)
}

// matchesFilePatterns glob-matches the target's base name. Patterns are
// shell globs (*, ?, [...]), case-sensitive. An absent pattern list, or the
// bare wildcard, matches everything.
func matchesFilePatterns(patterns []string, target string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := filepath.Base(target)
	for _, p := range patterns {
		if p == Wildcard {
			return true
		}
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

// matchesTools checks the tool filter. A hook that restricts tools never
// matches an event that carries no tool.
func matchesTools(tools []string, tool string) bool {
	if len(tools) == 0 || slices.Contains(tools, Wildcard) {
		return true
	}
	if tool == "" {
		return false
	}
	return slices.Contains(tools, tool)
}

// matchesDirectories checks that the target's project-relative path equals
// one of the listed directories or is nested under one. Prefix match is on
// path segments: "src" admits "src/x.py" but not "srcextra/x.py".
func matchesDirectories(directories []string, target, root string) bool {
	if len(directories) == 0 {
		return true
	}

	rel := relForTarget(target, root)
	if rel == "" {
		return false
	}

	for _, dir := range directories {
		dir = strings.Trim(filepath.ToSlash(dir), "/")
		if dir == "" {
			continue
		}
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}
	return false
}

// relForTarget returns target's slash-separated path relative to root, or ""
// when target is outside the project.
func relForTarget(target, root string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}
