// Package paths centralizes project-root discovery and the well-known
// locations of hook configuration files.
//
// The project root is found once per working directory and cached: first via
// git (any repository the working directory sits inside), then by walking
// upward looking for a .claude marker directory, finally falling back to the
// working directory itself.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	git "github.com/go-git/go-git/v5"
)

// Directory and file constants, all relative to the project root.
const (
	// ClaudeDir is the tool-metadata directory.
	ClaudeDir = ".claude"

	// RootConfigFile is the root hook configuration file.
	RootConfigFile = ".claude/hookconfig.json"

	// DirConfigName is the per-directory hook configuration filename.
	DirConfigName = ".claude-hooks.json"

	// HooksDir is where hook scripts live.
	HooksDir = ".claude/hooks"

	// LogsDir is where diagnostic logs are written.
	LogsDir = ".claude/logs"

	// SettingsFile is the Claude Code settings file the installer edits.
	SettingsFile = ".claude/settings.json"
)

// projectRootCache caches the discovered root to avoid repeated discovery.
// Keyed by the working directory to handle directory changes (tests chdir).
var (
	projectRootMu       sync.RWMutex
	projectRootCache    string
	projectRootCacheDir string
)

// ProjectRoot returns the project root directory.
// Discovery order: enclosing git worktree, nearest ancestor containing a
// .claude directory, then the working directory. The result is cached per
// working directory; it cannot change during a run.
func ProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	projectRootMu.RLock()
	if projectRootCache != "" && projectRootCacheDir == cwd {
		cached := projectRootCache
		projectRootMu.RUnlock()
		return cached, nil
	}
	projectRootMu.RUnlock()

	root := discoverRoot(cwd)

	projectRootMu.Lock()
	projectRootCache = root
	projectRootCacheDir = cwd
	projectRootMu.Unlock()

	return root, nil
}

// ClearProjectRootCache clears the cached project root.
// Primarily useful for tests that change directories.
func ClearProjectRootCache() {
	projectRootMu.Lock()
	projectRootCache = ""
	projectRootCacheDir = ""
	projectRootMu.Unlock()
}

// discoverRoot walks the discovery order for a given working directory.
func discoverRoot(cwd string) string {
	if repo, err := git.PlainOpenWithOptions(cwd, &git.PlainOpenOptions{DetectDotGit: true}); err == nil {
		if wt, err := repo.Worktree(); err == nil {
			return wt.Filesystem.Root()
		}
	}

	// No git repository: look for a .claude marker directory.
	dir := cwd
	for {
		if info, err := os.Stat(filepath.Join(dir, ClaudeDir)); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd
}

// RootConfigPath returns the absolute path of the root configuration file.
func RootConfigPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(RootConfigFile))
}

// DirConfigPath returns the absolute path of a directory-local configuration
// file for the given directory.
func DirConfigPath(dir string) string {
	return filepath.Join(dir, DirConfigName)
}

// ScriptPath resolves a hook script reference to an absolute path.
// Relative script paths are anchored at the hooks directory under the root.
func ScriptPath(root, script string) string {
	if filepath.IsAbs(script) {
		return script
	}
	return filepath.Join(root, filepath.FromSlash(HooksDir), filepath.FromSlash(script))
}

// RelToRoot converts an absolute path to a slash-separated path relative to
// root. Returns "" if the path is outside the root.
func RelToRoot(root, path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}
