// Package hookcfg implements the hierarchical hook configuration engine:
// loading configuration documents, merging them with override/exclude/extends
// semantics, resolving the effective configuration for a path, and matching
// hooks against tool-use events.
//
// The engine only decides WHICH hooks apply, in WHAT order, with WHAT
// configuration. Executing them is the runner package's job.
package hookcfg

import (
	"encoding/json"
	"maps"
	"slices"
)

// Phase is a point in the tool-use lifecycle at which hooks run.
type Phase string

// Hook event phases.
const (
	PhasePreTool  Phase = "pre-tool"
	PhasePostTool Phase = "post-tool"
	PhaseStop     Phase = "stop"
)

// Phases returns the known phases in their canonical display order.
func Phases() []Phase {
	return []Phase{PhasePreTool, PhasePostTool, PhaseStop}
}

// KnownPhase reports whether p is one of the recognized event phases.
func KnownPhase(p Phase) bool {
	return p == PhasePreTool || p == PhasePostTool || p == PhaseStop
}

// DefaultPriority is assigned to hooks that don't declare one. Higher runs first.
const DefaultPriority = 50

// Wildcard matches any file pattern or tool.
const Wildcard = "*"

// HookDef is a single hook rule.
//
// ID is the merge key: within one merged configuration's hook list for a
// phase, IDs are unique and a later overlay replaces an earlier definition.
type HookDef struct {
	ID           string         `json:"id"`
	Script       string         `json:"script,omitempty"`
	Priority     int            `json:"priority"`
	FilePatterns []string       `json:"file_patterns,omitempty"`
	Tools        []string       `json:"tools,omitempty"`
	Directories  []string       `json:"directories,omitempty"`
	Disabled     bool           `json:"disabled,omitempty"`
	Description  string         `json:"description,omitempty"`
	Config       map[string]any `json:"config,omitempty"`

	// DefinedIn records the configuration file that defined (or last
	// overrode) this hook. Provenance only, not part of identity.
	DefinedIn string `json:"defined_in,omitempty"`
}

// UnmarshalJSON decodes a hook definition, applying the default priority
// when the field is absent.
func (h *HookDef) UnmarshalJSON(data []byte) error {
	type alias HookDef
	tmp := alias{Priority: DefaultPriority}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*h = HookDef(tmp)
	return nil
}

// Clone returns a deep copy. Merged and matched results are always clones so
// callers can never contaminate cached documents.
func (h HookDef) Clone() HookDef {
	out := h
	out.FilePatterns = slices.Clone(h.FilePatterns)
	out.Tools = slices.Clone(h.Tools)
	out.Directories = slices.Clone(h.Directories)
	out.Config = maps.Clone(h.Config)
	return out
}

// Document is the parsed contents of one configuration file. The same shape
// serves as the effective configuration after a chain merge, at which point
// Extends is guaranteed empty and Exclude has been applied.
type Document struct {
	// Hooks maps an event phase to its ordered hook definitions.
	Hooks map[Phase][]HookDef

	// Exclude lists hook ids removed from the base when this document is
	// applied as an overlay. Phase-agnostic: the id is removed from every
	// phase it appears in.
	Exclude []string

	// Extends optionally references a base document (relative path, or
	// "@name" reserved for named presets). Resolved at load time.
	Extends string

	// Extra carries unrecognized top-level keys (e.g. a version marker)
	// with simple overwrite semantics on merge.
	Extra map[string]json.RawMessage
}

// NewDocument returns an empty document, the identity element for Merge.
func NewDocument() *Document {
	return &Document{}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Exclude: slices.Clone(d.Exclude),
		Extends: d.Extends,
	}
	if d.Hooks != nil {
		out.Hooks = make(map[Phase][]HookDef, len(d.Hooks))
		for phase, list := range d.Hooks {
			cloned := make([]HookDef, len(list))
			for i, h := range list {
				cloned[i] = h.Clone()
			}
			out.Hooks[phase] = cloned
		}
	}
	out.Extra = maps.Clone(d.Extra)
	return out
}

// reserved top-level keys that are never carried by pass-through copy.
func reservedKey(k string) bool {
	return k == "hooks" || k == "exclude" || k == "extends"
}

// UnmarshalJSON decodes a configuration document, splitting recognized keys
// from pass-through keys.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Document{}

	if v, ok := raw["hooks"]; ok {
		if err := json.Unmarshal(v, &d.Hooks); err != nil {
			return err
		}
	}
	if v, ok := raw["exclude"]; ok {
		if err := json.Unmarshal(v, &d.Exclude); err != nil {
			return err
		}
	}
	if v, ok := raw["extends"]; ok {
		if err := json.Unmarshal(v, &d.Extends); err != nil {
			return err
		}
	}

	for k, v := range raw {
		if reservedKey(k) {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]json.RawMessage)
		}
		d.Extra[k] = v
	}
	return nil
}

// MarshalJSON re-emits the document in its file shape.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+3)
	for k, v := range d.Extra {
		out[k] = v
	}
	if len(d.Hooks) > 0 {
		out["hooks"] = d.Hooks
	}
	if len(d.Exclude) > 0 {
		out["exclude"] = d.Exclude
	}
	if d.Extends != "" {
		out["extends"] = d.Extends
	}
	return json.Marshal(out)
}

// setProvenance stamps every hook in the document with the file it came from.
// Called once at parse time, before any extends merging, so replacement
// correctly attributes a hook to the file that last overrode it.
func (d *Document) setProvenance(path string) {
	for phase, list := range d.Hooks {
		for i := range list {
			list[i].DefinedIn = path
		}
		d.Hooks[phase] = list
	}
}
