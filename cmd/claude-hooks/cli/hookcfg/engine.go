package hookcfg

import "path/filepath"

// Engine is the public entry point combining the resolver and the matcher.
// Stateless request/response over the resolver's caches.
type Engine struct {
	resolver *Resolver
}

// NewEngine creates an engine for a project root.
func NewEngine(root string) *Engine {
	abs, err := filepath.Abs(root)
	if err == nil {
		root = abs
	}
	return &Engine{resolver: NewResolver(root)}
}

// Root returns the project root.
func (e *Engine) Root() string { return e.resolver.Root() }

// HooksForFile returns the ordered hooks applying to a file event: the
// effective configuration for the file's directory chain, matched with no
// tool restriction supplied.
func (e *Engine) HooksForFile(path string, phase Phase) []HookDef {
	doc := e.resolver.ResolveFor(path)
	return Match(doc, phase, path, "", e.resolver.Root())
}

// HooksForFileAndTool returns the ordered hooks applying to a tool event
// that targets a specific file (e.g. a Write to a path).
func (e *Engine) HooksForFileAndTool(path string, phase Phase, tool string) []HookDef {
	doc := e.resolver.ResolveFor(path)
	return Match(doc, phase, path, tool, e.resolver.Root())
}

// HooksForTool returns the ordered hooks applying to a tool-only event.
// Tool events have no file-scoped override chain; they resolve against the
// project root alone.
func (e *Engine) HooksForTool(tool string, phase Phase) []HookDef {
	doc := e.resolver.ResolveFor(e.resolver.Root())
	return Match(doc, phase, e.resolver.Root(), tool, e.resolver.Root())
}

// ResolveFor exposes the effective configuration for a path (read-only).
func (e *Engine) ResolveFor(path string) *Document {
	return e.resolver.ResolveFor(path)
}

// Chain returns the contributing configuration files for a path, root first.
func (e *Engine) Chain(path string) []string {
	return e.resolver.Chain(path)
}

// InvalidateCaches clears both the file cache and the effective-config
// cache, forcing the next resolution to re-read from disk.
func (e *Engine) InvalidateCaches() {
	e.resolver.InvalidateCaches()
}
