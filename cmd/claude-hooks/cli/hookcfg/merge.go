package hookcfg

import (
	"encoding/json"
	"slices"
)

// Merge combines a base document with an overlay, overlay winning.
//
// Override policy: FULL REPLACEMENT. An overlay hook whose id matches a base
// hook replaces that base hook entirely, at the base hook's position. There
// is no field-level union; a hook is always exactly what its last definition
// says. The policy is pinned by TestMerge_FullReplacementPolicy.
//
// Pure function: inputs are never mutated and no collection is aliased into
// the result.
//
// Algorithm:
//  1. Deep-copy base.
//  2. Remove every hook whose id is in overlay.Exclude, from every phase
//     (exclusion is phase-agnostic).
//  3. Per phase: overlay hooks replace same-id base hooks in place; overlay
//     hooks with no base counterpart are appended in overlay order.
//  4. Pass-through keys from overlay overwrite same-named base keys.
//     hooks/exclude/extends are never copied verbatim; the result carries
//     neither an exclude list nor an extends reference.
//
// The resulting hook order is not dispatch order; Match sorts by priority.
func Merge(base, overlay *Document) *Document {
	out := base.Clone()
	out.Extends = ""
	out.Exclude = nil

	if len(overlay.Exclude) > 0 {
		excluded := make(map[string]bool, len(overlay.Exclude))
		for _, id := range overlay.Exclude {
			excluded[id] = true
		}
		for phase, list := range out.Hooks {
			out.Hooks[phase] = slices.DeleteFunc(list, func(h HookDef) bool {
				return excluded[h.ID]
			})
		}
	}

	for phase, overlayList := range overlay.Hooks {
		if len(overlayList) == 0 {
			continue
		}
		if out.Hooks == nil {
			out.Hooks = make(map[Phase][]HookDef)
		}
		out.Hooks[phase] = mergeHookList(out.Hooks[phase], overlayList)
	}

	for k, v := range overlay.Extra {
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}

	return out
}

// mergeHookList merges one phase's hook lists. baseList is owned by the
// caller's working copy and may be modified; overlayList is read-only.
func mergeHookList(baseList, overlayList []HookDef) []HookDef {
	// Last definition wins if an overlay repeats an id.
	overlayByID := make(map[string]HookDef, len(overlayList))
	var appendOrder []string
	for _, h := range overlayList {
		if _, seen := overlayByID[h.ID]; !seen {
			appendOrder = append(appendOrder, h.ID)
		}
		overlayByID[h.ID] = h
	}

	replaced := make(map[string]bool)
	for i := range baseList {
		if o, ok := overlayByID[baseList[i].ID]; ok {
			baseList[i] = o.Clone()
			replaced[o.ID] = true
		}
	}

	for _, id := range appendOrder {
		if !replaced[id] {
			baseList = append(baseList, overlayByID[id].Clone())
		}
	}
	return baseList
}
