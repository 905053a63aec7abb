package hookcfg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleHookDoc(phase Phase, h HookDef) *Document {
	return &Document{Hooks: map[Phase][]HookDef{phase: {h}}}
}

func TestMatch_FilePatterns(t *testing.T) {
	t.Parallel()

	root := string(filepath.Separator) + "project"

	tests := []struct {
		name     string
		patterns []string
		target   string
		want     bool
	}{
		{name: "no patterns matches anything", patterns: nil, target: "src/thing.bin", want: true},
		{name: "wildcard matches anything", patterns: []string{"*"}, target: "src/thing.bin", want: true},
		{name: "suffix glob matches", patterns: []string{"*.py"}, target: "src/app.py", want: true},
		{name: "suffix glob rejects", patterns: []string{"*.py"}, target: "src/app.js", want: false},
		{name: "any pattern suffices", patterns: []string{"*.go", "*.py"}, target: "app.py", want: true},
		{name: "question mark", patterns: []string{"app.p?"}, target: "app.py", want: true},
		{name: "character class", patterns: []string{"app.[jt]s"}, target: "app.ts", want: true},
		{name: "case sensitive", patterns: []string{"*.py"}, target: "APP.PY", want: false},
		{name: "basename only", patterns: []string{"*.py"}, target: "a/b.py/c.txt", want: false},
		{name: "no directory globbing", patterns: []string{"src/*.py"}, target: "src/app.py", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := singleHookDoc(PhasePreTool, HookDef{ID: "h", Script: "h.sh", FilePatterns: tt.patterns})
			got := Match(doc, PhasePreTool, filepath.Join(root, filepath.FromSlash(tt.target)), "", root)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestMatch_Tools(t *testing.T) {
	t.Parallel()

	root := string(filepath.Separator) + "project"

	tests := []struct {
		name  string
		tools []string
		tool  string
		want  bool
	}{
		{name: "no filter matches any tool", tools: nil, tool: "Write", want: true},
		{name: "no filter matches no tool", tools: nil, tool: "", want: true},
		{name: "listed tool matches", tools: []string{"Write", "Edit"}, tool: "Edit", want: true},
		{name: "unlisted tool rejected", tools: []string{"Write"}, tool: "Bash", want: false},
		{name: "wildcard matches any tool", tools: []string{"*"}, tool: "Bash", want: true},
		{name: "wildcard matches missing tool", tools: []string{"*"}, tool: "", want: true},
		{name: "restricting filter rejects missing tool", tools: []string{"Write"}, tool: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := singleHookDoc(PhasePreTool, HookDef{ID: "h", Script: "h.sh", Tools: tt.tools})
			got := Match(doc, PhasePreTool, filepath.Join(root, "file.txt"), tt.tool, root)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestMatch_Directories(t *testing.T) {
	t.Parallel()

	root := string(filepath.Separator) + "project"

	tests := []struct {
		name        string
		directories []string
		target      string
		want        bool
	}{
		{name: "no filter matches anywhere", directories: nil, target: "anywhere/x.py", want: true},
		{name: "direct child matches", directories: []string{"src"}, target: "src/x.py", want: true},
		{name: "nested descendant matches", directories: []string{"src"}, target: "src/deep/x.py", want: true},
		{name: "outside rejected", directories: []string{"src"}, target: "lib/x.py", want: false},
		{name: "segment boundary respected", directories: []string{"src"}, target: "srcextra/x.py", want: false},
		{name: "nested directory filter", directories: []string{"src/api"}, target: "src/api/x.py", want: true},
		{name: "any listed directory suffices", directories: []string{"lib", "src"}, target: "src/x.py", want: true},
		{name: "trailing slash tolerated", directories: []string{"src/"}, target: "src/x.py", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := singleHookDoc(PhasePreTool, HookDef{ID: "h", Script: "h.sh", Directories: tt.directories})
			got := Match(doc, PhasePreTool, filepath.Join(root, filepath.FromSlash(tt.target)), "", root)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestMatch_DirectoryFilterOutsideRoot(t *testing.T) {
	t.Parallel()

	root := string(filepath.Separator) + "project"
	doc := singleHookDoc(PhasePreTool, HookDef{ID: "h", Script: "h.sh", Directories: []string{"src"}})

	got := Match(doc, PhasePreTool, string(filepath.Separator)+filepath.Join("elsewhere", "src", "x.py"), "", root)
	assert.Empty(t, got)
}

func TestMatch_DisabledHookNeverMatches(t *testing.T) {
	t.Parallel()

	root := string(filepath.Separator) + "project"
	doc := singleHookDoc(PhasePreTool, HookDef{ID: "h", Script: "h.sh", Disabled: true})

	got := Match(doc, PhasePreTool, filepath.Join(root, "x.py"), "", root)
	assert.Empty(t, got)
}

func TestMatch_PhaseIsolation(t *testing.T) {
	t.Parallel()

	root := string(filepath.Separator) + "project"
	doc := singleHookDoc(PhasePostTool, HookDef{ID: "h", Script: "h.sh"})

	assert.Empty(t, Match(doc, PhasePreTool, filepath.Join(root, "x.py"), "", root))
	assert.Len(t, Match(doc, PhasePostTool, filepath.Join(root, "x.py"), "", root), 1)
}

func TestMatch_Ordering(t *testing.T) {
	t.Parallel()

	root := string(filepath.Separator) + "project"
	doc := &Document{Hooks: map[Phase][]HookDef{
		PhasePreTool: {
			{ID: "zeta", Script: "z.sh", Priority: 50},
			{ID: "low", Script: "l.sh", Priority: 10},
			{ID: "alpha", Script: "a.sh", Priority: 50},
			{ID: "high", Script: "h.sh", Priority: 99},
		},
	}}

	got := Match(doc, PhasePreTool, filepath.Join(root, "x.py"), "", root)
	assert.Equal(t, []string{"high", "alpha", "zeta", "low"}, hookIDs(got))
}

func TestMatch_ResultIsACopy(t *testing.T) {
	t.Parallel()

	root := string(filepath.Separator) + "project"
	doc := singleHookDoc(PhasePreTool, HookDef{ID: "h", Script: "h.sh", Config: map[string]any{"max": 1}})

	got := Match(doc, PhasePreTool, filepath.Join(root, "x.py"), "", root)
	require.Len(t, got, 1)
	got[0].Script = "mutated.sh"
	got[0].Config["max"] = 99

	assert.Equal(t, "h.sh", doc.Hooks[PhasePreTool][0].Script)
	assert.Equal(t, 1, doc.Hooks[PhasePreTool][0].Config["max"])
}

func TestMatch_AllFiltersMustAdmit(t *testing.T) {
	t.Parallel()

	root := string(filepath.Separator) + "project"
	doc := singleHookDoc(PhasePreTool, HookDef{
		ID:           "h",
		Script:       "h.sh",
		FilePatterns: []string{"*.py"},
		Tools:        []string{"Write"},
		Directories:  []string{"src"},
	})

	match := func(target, tool string) int {
		return len(Match(doc, PhasePreTool, filepath.Join(root, filepath.FromSlash(target)), tool, root))
	}

	assert.Equal(t, 1, match("src/app.py", "Write"))
	assert.Equal(t, 0, match("src/app.js", "Write"))
	assert.Equal(t, 0, match("src/app.py", "Bash"))
	assert.Equal(t, 0, match("lib/app.py", "Write"))
}
