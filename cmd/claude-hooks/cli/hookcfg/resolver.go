package hookcfg

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/claudehooks/cli/cmd/claude-hooks/cli/logging"
	"github.com/claudehooks/cli/cmd/claude-hooks/cli/paths"
)

// Resolver computes the effective configuration for target paths by folding
// the applicable document chain through Merge.
//
// The Resolver exclusively owns both caches (the Store's file cache and the
// per-directory effective-config cache). A broken document anywhere in a
// chain contributes nothing and is reported through the logging side
// channel; resolution itself never fails.
type Resolver struct {
	store *Store
	root  string

	mu    sync.RWMutex
	byDir map[string]*Document
}

// NewResolver creates a resolver anchored at the given project root.
func NewResolver(root string) *Resolver {
	return &Resolver{
		store: NewStore(root),
		root:  root,
		byDir: make(map[string]*Document),
	}
}

// Root returns the project root this resolver is anchored at.
func (r *Resolver) Root() string { return r.root }

// ResolveFor returns the effective configuration for a target path.
//
// The result is cached keyed by the target's absolute containing directory:
// every file in one directory shares the same chain, so two files in the
// same directory are guaranteed to see identical configuration. Callers must
// treat the returned document as immutable.
func (r *Resolver) ResolveFor(target string) *Document {
	dir := r.containingDir(target)

	r.mu.RLock()
	if doc, ok := r.byDir[dir]; ok {
		r.mu.RUnlock()
		return doc
	}
	r.mu.RUnlock()

	doc := r.resolveDir(dir)

	// Compute-once, last-writer-wins: a racing duplicate computation is
	// idempotent, a torn cache write is not.
	r.mu.Lock()
	r.byDir[dir] = doc
	r.mu.Unlock()

	return doc
}

// Chain returns the configuration files that exist and contribute to the
// effective configuration for target, in merge order (root first). Used by
// the explain command.
func (r *Resolver) Chain(target string) []string {
	var existing []string
	for _, candidate := range r.candidates(r.containingDir(target)) {
		if _, err := os.Stat(candidate); err == nil {
			existing = append(existing, candidate)
		}
	}
	return existing
}

// InvalidateCaches clears the file cache and the effective-config cache.
// Required when configuration files change during a long-lived process.
func (r *Resolver) InvalidateCaches() {
	r.store.Invalidate()
	r.mu.Lock()
	r.byDir = make(map[string]*Document)
	r.mu.Unlock()
}

// containingDir returns the absolute directory whose chain applies to target.
// A target that is itself a directory anchors its own chain.
func (r *Resolver) containingDir(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return abs
	}
	return filepath.Dir(abs)
}

// resolveDir folds the candidate chain for a directory into one document.
func (r *Resolver) resolveDir(dir string) *Document {
	ctx := logging.WithComponent(context.Background(), "resolver")

	effective := NewDocument()
	for _, candidate := range r.candidates(dir) {
		doc, err := r.store.Load(candidate)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			// Fail open: a broken document must never prevent hooks from
			// other well-formed files.
			logging.Warn(ctx, "skipping unparsable config",
				slog.String("path", candidate),
				slog.String("error", err.Error()),
			)
			continue
		}
		effective = Merge(effective, doc)
	}
	return effective
}

// candidates returns the candidate config file paths for a directory, in
// merge order: the root configuration first, then every directory-local
// config from the project root down to the directory. Components outside
// the project root contribute nothing.
func (r *Resolver) candidates(dir string) []string {
	out := []string{paths.RootConfigPath(r.root)}

	rel, err := filepath.Rel(r.root, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return out
	}

	current := r.root
	for part := range strings.SplitSeq(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		out = append(out, paths.DirConfigPath(current))
	}
	return out
}
