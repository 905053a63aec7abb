// Package validation implements the strict configuration checker behind the
// validate command. Unlike resolution, which fails open, validation surfaces
// every problem it can find so authors can fix files before they are silently
// skipped at dispatch time.
package validation

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/hookcfg"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
)

// Result collects the findings for one configuration file. Errors make the
// file unusable (resolution would skip it); warnings are suspicious but legal.
type Result struct {
	Path     string
	Errors   []string
	Warnings []string
}

// OK reports whether the file passed without errors.
func (r Result) OK() bool { return len(r.Errors) == 0 }

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// skipDirs are never descended into while searching for config files.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// FindConfigFiles returns every hook configuration file under root: the root
// configuration (when present) followed by all directory-local files in walk
// order.
func FindConfigFiles(root string) ([]string, error) {
	var files []string

	if _, err := os.Stat(paths.RootConfigPath(root)); err == nil {
		files = append(files, paths.RootConfigPath(root))
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == paths.DirConfigName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}

// ValidateFile checks one configuration file. root anchors script existence
// checks for relative script paths.
func ValidateFile(root, path string) Result {
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.errorf("unreadable: %v", err)
		return res
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		res.warnf("file is empty")
		return res
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		res.errorf("invalid JSON: %v", err)
		return res
	}

	if v, ok := raw["hooks"]; ok {
		validateHooks(root, v, &res)
	}
	if v, ok := raw["exclude"]; ok {
		var exclude []string
		if err := json.Unmarshal(v, &exclude); err != nil {
			res.errorf(`"exclude" must be an array of hook ids`)
		}
	}
	if v, ok := raw["extends"]; ok {
		validateExtends(v, path, root, &res)
	}

	return res
}

func validateHooks(root string, raw json.RawMessage, res *Result) {
	var byPhase map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byPhase); err != nil {
		res.errorf(`"hooks" must be an object mapping phases to hook arrays`)
		return
	}

	for phase, rawList := range byPhase {
		if !hookcfg.KnownPhase(hookcfg.Phase(phase)) {
			res.warnf("unknown phase %q (known: pre-tool, post-tool, stop)", phase)
		}

		var hooks []hookcfg.HookDef
		if err := json.Unmarshal(rawList, &hooks); err != nil {
			res.errorf("phase %q: hooks must be an array of hook objects", phase)
			continue
		}

		seen := make(map[string]bool)
		for i, h := range hooks {
			where := fmt.Sprintf("phase %q hook %d", phase, i)
			if h.ID != "" {
				where = fmt.Sprintf("phase %q hook %q", phase, h.ID)
			}

			if h.ID == "" {
				res.errorf(`%s: missing required "id"`, where)
			} else if seen[h.ID] {
				res.errorf("%s: duplicate id within phase", where)
			}
			seen[h.ID] = true

			if h.Script == "" {
				res.errorf(`%s: missing required "script"`, where)
			} else if _, err := os.Stat(paths.ScriptPath(root, h.Script)); err != nil {
				res.warnf("%s: script %s not found", where, paths.ScriptPath(root, h.Script))
			}

			if h.Priority < 0 {
				res.warnf("%s: negative priority %d", where, h.Priority)
			}
		}
	}
}

func validateExtends(raw json.RawMessage, from, root string, res *Result) {
	var ref string
	if err := json.Unmarshal(raw, &ref); err != nil {
		res.errorf(`"extends" must be a string`)
		return
	}
	if strings.HasPrefix(ref, "@") {
		res.warnf("extends %q: named presets are not implemented yet", ref)
		return
	}

	local := filepath.Join(filepath.Dir(from), filepath.FromSlash(ref))
	atRoot := filepath.Join(root, filepath.FromSlash(ref))
	if _, err := os.Stat(local); err != nil {
		if _, err := os.Stat(atRoot); err != nil {
			res.warnf("extends %q: target not found", ref)
		}
	}
}

// ValidateAll validates every configuration file under root.
func ValidateAll(root string) ([]Result, error) {
	files, err := FindConfigFiles(root)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(files))
	for _, f := range files {
		results = append(results, ValidateFile(root, f))
	}
	return results, nil
}
