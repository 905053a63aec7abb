// Package redact strips secrets from hook event payloads before they reach
// the diagnostic log. Payloads carry tool input verbatim, so a Bash command
// with an API token or a Write with a credentials file would otherwise be
// persisted under .claude/logs.
package redact

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// secretPattern matches high-entropy strings that may be secrets.
var secretPattern = regexp.MustCompile(`[A-Za-z0-9/+_=-]{10,}`)

// entropyThreshold is the minimum Shannon entropy for a string to be
// considered a secret. High enough to pass common identifiers, low enough to
// catch typical API keys, which sit well above 5.0.
const entropyThreshold = 4.5

var (
	detector     *detect.Detector
	detectorOnce sync.Once
)

func getDetector() *detect.Detector {
	detectorOnce.Do(func() {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return
		}
		detector = d
	})
	return detector
}

// region is a byte range to redact.
type region struct{ start, end int }

// String replaces secrets in s with "REDACTED" using layered detection:
// high-entropy alphanumeric sequences, plus the gitleaks rule set for known
// secret formats. A string is redacted when either layer flags it.
func String(s string) string {
	var regions []region

	for _, loc := range secretPattern.FindAllStringIndex(s, -1) {
		if shannonEntropy(s[loc[0]:loc[1]]) > entropyThreshold {
			regions = append(regions, region{loc[0], loc[1]})
		}
	}

	if d := getDetector(); d != nil {
		for _, f := range d.DetectString(s) {
			if f.Secret == "" {
				continue
			}
			searchFrom := 0
			for {
				idx := strings.Index(s[searchFrom:], f.Secret)
				if idx < 0 {
					break
				}
				absIdx := searchFrom + idx
				regions = append(regions, region{absIdx, absIdx + len(f.Secret)})
				searchFrom = absIdx + len(f.Secret)
			}
		}
	}

	if len(regions) == 0 {
		return s
	}
	return applyRegions(s, regions)
}

// applyRegions merges overlapping regions and substitutes each with the
// redaction marker.
func applyRegions(s string, regions []region) string {
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].start < regions[j].start
	})
	merged := []region{regions[0]}
	for _, r := range regions[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end {
			if r.end > last.end {
				last.end = r.end
			}
		} else {
			merged = append(merged, r)
		}
	}

	var b strings.Builder
	prev := 0
	for _, r := range merged {
		b.WriteString(s[prev:r.start])
		b.WriteString("REDACTED")
		prev = r.end
	}
	b.WriteString(s[prev:])
	return b.String()
}

// Payload redacts string values inside a JSON event payload and returns the
// re-encoded document. Keys that name identifiers rather than content
// (session ids, tool ids) are left alone so log lines stay correlatable.
// Input that does not parse as JSON is redacted as plain text.
func Payload(data []byte) []byte {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return []byte(String(string(data)))
	}

	redacted, changed := walkValue(parsed)
	if !changed {
		return data
	}
	out, err := json.Marshal(redacted)
	if err != nil {
		return []byte(String(string(data)))
	}
	return out
}

// walkValue redacts every string leaf and reports whether anything changed.
func walkValue(v any) (any, bool) {
	switch val := v.(type) {
	case map[string]any:
		changed := false
		for k, child := range val {
			if skipKey(k) {
				continue
			}
			repl, c := walkValue(child)
			if c {
				val[k] = repl
				changed = true
			}
		}
		return val, changed
	case []any:
		changed := false
		for i, child := range val {
			repl, c := walkValue(child)
			if c {
				val[i] = repl
				changed = true
			}
		}
		return val, changed
	case string:
		redacted := String(val)
		return redacted, redacted != val
	default:
		return v, false
	}
}

// skipKey excludes identifier-style keys from redaction. Session and tool
// ids are opaque tokens that trip the entropy check but are needed to
// correlate log lines.
func skipKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, "id") || strings.HasSuffix(lower, "ids")
}

func shannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	freq := make(map[byte]int)
	for i := range len(s) {
		freq[s[i]]++
	}
	length := float64(len(s))
	var entropy float64
	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}
