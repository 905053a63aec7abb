// Package quality implements the built-in code quality checks: line length,
// file length, function length, nesting depth, and indentation consistency.
// Exposed both as the check subcommand and as the "builtin:quality" hook.
package quality

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Limits are the thresholds the checks enforce.
type Limits struct {
	MaxLineLength     int
	MaxFileLength     int
	MaxFunctionLength int
	MaxNestingDepth   int
}

// DefaultLimits returns the stock thresholds.
func DefaultLimits() Limits {
	return Limits{
		MaxLineLength:     100,
		MaxFileLength:     200,
		MaxFunctionLength: 30,
		MaxNestingDepth:   3,
	}
}

// LimitsFromConfig overlays a hook's config map onto the defaults.
// Recognized keys: max_line_length, max_file_length, max_function_length,
// max_nesting_depth. JSON numbers arrive as float64.
func LimitsFromConfig(config map[string]any) Limits {
	l := DefaultLimits()
	if v, ok := intFromConfig(config, "max_line_length"); ok {
		l.MaxLineLength = v
	}
	if v, ok := intFromConfig(config, "max_file_length"); ok {
		l.MaxFileLength = v
	}
	if v, ok := intFromConfig(config, "max_function_length"); ok {
		l.MaxFunctionLength = v
	}
	if v, ok := intFromConfig(config, "max_nesting_depth"); ok {
		l.MaxNestingDepth = v
	}
	return l
}

func intFromConfig(config map[string]any, key string) (int, bool) {
	switch v := config[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// FileType selects which language heuristics apply.
type FileType string

const (
	TypePython     FileType = "python"
	TypeJavaScript FileType = "javascript"
	TypeRuby       FileType = "ruby"
	TypeUnknown    FileType = "unknown"
)

// TypeForPath maps a file extension to a file type. TypeScript shares the
// JavaScript heuristics.
func TypeForPath(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return TypePython
	case ".js", ".jsx", ".ts", ".tsx":
		return TypeJavaScript
	case ".rb":
		return TypeRuby
	default:
		return TypeUnknown
	}
}

// indentWidth is the indentation unit each language's nesting is counted in.
func (t FileType) indentWidth() int {
	if t == TypePython {
		return 4
	}
	return 2
}

// Violation is one finding in one file.
type Violation struct {
	Line    int // 0 for file-level findings
	Message string
}

func (v Violation) String() string {
	if v.Line > 0 {
		return fmt.Sprintf("line %d: %s", v.Line, v.Message)
	}
	return v.Message
}

// CheckContent runs every applicable check over content. Unknown file types
// produce no findings.
func CheckContent(content string, ft FileType, limits Limits) []Violation {
	if ft == TypeUnknown {
		return nil
	}
	lines := strings.Split(content, "\n")

	var out []Violation
	out = append(out, checkFileLength(lines, limits)...)
	out = append(out, checkLineLength(lines, limits)...)
	out = append(out, checkFunctionLength(lines, ft, limits)...)
	out = append(out, checkNestingDepth(lines, ft, limits)...)
	out = append(out, checkIndentation(lines, ft)...)
	return out
}

// CheckFile reads and checks a file on disk. A missing or unreadable file
// produces no findings, matching the fail-open posture of dispatch.
func CheckFile(path string, limits Limits) []Violation {
	ft := TypeForPath(path)
	if ft == TypeUnknown {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return CheckContent(string(data), ft, limits)
}

func checkFileLength(lines []string, limits Limits) []Violation {
	if len(lines) > limits.MaxFileLength {
		return []Violation{{
			Message: fmt.Sprintf("file is %d lines long (max %d)", len(lines), limits.MaxFileLength),
		}}
	}
	return nil
}

func checkLineLength(lines []string, limits Limits) []Violation {
	var out []Violation
	for i, line := range lines {
		n := len(strings.TrimRight(line, " \t\r"))
		if n > limits.MaxLineLength {
			out = append(out, Violation{
				Line:    i + 1,
				Message: fmt.Sprintf("%d characters long (max %d)", n, limits.MaxLineLength),
			})
		}
	}
	return out
}

var (
	pyFuncRe = regexp.MustCompile(`^\s*(?:async\s+)?def\s+(\w+)\s*\(`)
	jsFuncRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?(?:function\s+(\w+)|(?:const|let|var)\s+(\w+)\s*=.*(?:function|\(.*\)\s*=>|async))`)
)

func checkFunctionLength(lines []string, ft FileType, limits Limits) []Violation {
	switch ft {
	case TypePython:
		return checkPyFunctions(lines, limits)
	case TypeJavaScript:
		return checkJSFunctions(lines, limits)
	default:
		return nil
	}
}

// checkPyFunctions measures def-to-def spans. The last function runs to the
// end of the file.
func checkPyFunctions(lines []string, limits Limits) []Violation {
	var out []Violation
	start, name := 0, ""

	report := func(end int) {
		if length := end - start; length > limits.MaxFunctionLength {
			out = append(out, Violation{
				Line:    start,
				Message: fmt.Sprintf("function %q is %d lines long (max %d)", name, length, limits.MaxFunctionLength),
			})
		}
	}

	for i, line := range lines {
		m := pyFuncRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if start > 0 {
			report(i + 1)
		}
		start, name = i+1, m[1]
	}
	if start > 0 {
		report(len(lines) + 1)
	}
	return out
}

// checkJSFunctions tracks brace balance from a function declaration to its
// closing brace. Heuristic, not a parser; good enough to flag sprawl.
func checkJSFunctions(lines []string, limits Limits) []Violation {
	var out []Violation
	inFunc := false
	start, braces := 0, 0
	name := ""

	for i, line := range lines {
		if !inFunc {
			m := jsFuncRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name = m[1]
			if name == "" {
				name = m[2]
			}
			inFunc = true
			start = i + 1
			braces = strings.Count(line, "{") - strings.Count(line, "}")
			continue
		}

		braces += strings.Count(line, "{") - strings.Count(line, "}")
		if braces != 0 || !strings.Contains(line, "}") {
			continue
		}

		if length := i + 1 - start + 1; length > limits.MaxFunctionLength {
			out = append(out, Violation{
				Line:    start,
				Message: fmt.Sprintf("function %q is %d lines long (max %d)", name, length, limits.MaxFunctionLength),
			})
		}
		inFunc = false
	}
	return out
}

func checkNestingDepth(lines []string, ft FileType, limits Limits) []Violation {
	var out []Violation
	width := ft.indentWidth()

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth := indentColumns(line) / width
		if depth > limits.MaxNestingDepth {
			out = append(out, Violation{
				Line:    i + 1,
				Message: fmt.Sprintf("nesting depth %d (max %d)", depth, limits.MaxNestingDepth),
			})
		}
	}
	return out
}

// checkIndentation flags indentation that is not a multiple of the
// language's unit. Comment lines are exempt.
func checkIndentation(lines []string, ft FileType) []Violation {
	if ft != TypePython && ft != TypeRuby {
		return nil
	}
	width := 4
	if ft == TypeRuby {
		width = 2
	}

	var out []Violation
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if cols := indentColumns(line); cols%width != 0 {
			out = append(out, Violation{
				Line:    i + 1,
				Message: fmt.Sprintf("indentation of %d columns is not a multiple of %d", cols, width),
			})
		}
	}
	return out
}

// indentColumns counts leading whitespace, tabs as 4 columns.
func indentColumns(line string) int {
	cols := 0
	for _, r := range line {
		switch r {
		case ' ':
			cols++
		case '\t':
			cols += 4
		default:
			return cols
		}
	}
	return cols
}
