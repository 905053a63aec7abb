package hookcfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound reports that a configuration file does not exist. Callers treat
// it as "contributes nothing", never as a failure.
var ErrNotFound = errors.New("hook config file not found")

// ParseError reports a configuration file with malformed JSON. Callers skip
// the document and continue with the rest of the chain.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store reads and caches configuration documents by path.
//
// Documents returned by Load have their extends chain fully resolved and
// every hook stamped with provenance. Returned documents are shared cache
// entries: callers must treat them as immutable (Merge and Match always
// deep-copy before modifying).
type Store struct {
	root string

	mu    sync.Mutex
	cache map[string]*storeEntry
}

type storeEntry struct {
	doc *Document
	err error
}

// NewStore creates a store anchored at the given project root. The root is
// used as the fallback base for resolving extends references.
func NewStore(root string) *Store {
	return &Store{
		root:  root,
		cache: make(map[string]*storeEntry),
	}
}

// Load reads and parses the configuration file at path, returning a cached
// parse when available. Returns ErrNotFound for a missing file and a
// *ParseError for malformed content.
func (s *Store) Load(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.cache[abs]; ok {
		return entry.doc, entry.err
	}

	doc, err := s.load(abs, map[string]bool{})
	s.cache[abs] = &storeEntry{doc: doc, err: err}
	return doc, err
}

// Invalidate drops all cached parses.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*storeEntry)
}

// load reads a single file and resolves its extends chain. visited tracks
// the files already on the current extends path so a cycle terminates with
// a partial merge instead of recursing forever.
func (s *Store) load(path string, visited map[string]bool) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	doc.setProvenance(path)

	if doc.Extends == "" {
		return doc, nil
	}

	visited[path] = true
	base := s.loadExtended(doc.Extends, path, visited)
	if base == nil {
		// Unresolvable extension is silently skipped; the document still
		// contributes its own content.
		out := doc.Clone()
		out.Extends = ""
		return out, nil
	}

	return Merge(base, doc), nil
}

// loadExtended resolves an extends reference: first relative to the
// referencing document's directory, then relative to the project root.
// Returns nil when the reference cannot be resolved (named presets, missing
// targets, cycles, unparsable bases).
func (s *Store) loadExtended(ref, from string, visited map[string]bool) *Document {
	if strings.HasPrefix(ref, "@") {
		// Named presets are reserved for future use.
		return nil
	}

	candidates := []string{
		filepath.Join(filepath.Dir(from), filepath.FromSlash(ref)),
	}
	if s.root != "" {
		candidates = append(candidates, filepath.Join(s.root, filepath.FromSlash(ref)))
	}

	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if visited[abs] {
			// Extends cycle: stop extending, keep what has merged so far.
			return nil
		}
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		base, err := s.load(abs, visited)
		if err != nil {
			return nil
		}
		return base
	}
	return nil
}
