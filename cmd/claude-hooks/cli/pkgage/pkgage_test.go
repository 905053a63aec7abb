package pkgage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec string
		want Spec
	}{
		{spec: "left-pad@1.0.0", want: Spec{Name: "left-pad", Version: "1.0.0"}},
		{spec: "express", want: Spec{Name: "express", Version: "latest"}},
		{spec: "@types/node@20.1.0", want: Spec{Name: "@types/node", Version: "20.1.0"}},
		{spec: "@scope/pkg", want: Spec{Name: "@scope/pkg", Version: "latest"}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseSpec(tt.spec))
		})
	}
}

func TestIsRegistryPackage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec string
		want bool
	}{
		{spec: "express", want: true},
		{spec: "@types/node@20.1.0", want: true},
		{spec: "./local-pkg", want: false},
		{spec: "/abs/path", want: false},
		{spec: "git+https://github.com/x/y.git", want: false},
		{spec: "https://example.com/pkg.tgz", want: false},
		{spec: "file:../sibling", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRegistryPackage(tt.spec))
		})
	}
}

func TestExtractPackages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{
			name:    "npm install single",
			command: "npm install express",
			want:    []string{"express"},
		},
		{
			name:    "npm i multiple",
			command: "npm i express lodash@4.17.21",
			want:    []string{"express", "lodash@4.17.21"},
		},
		{
			name:    "yarn add",
			command: "yarn add react react-dom",
			want:    []string{"react", "react-dom"},
		},
		{
			name:    "pnpm add",
			command: "pnpm add vite",
			want:    []string{"vite"},
		},
		{
			name:    "flags stripped",
			command: "npm install --save-dev typescript -g",
			want:    []string{"typescript"},
		},
		{
			name:    "bare install restores lockfile",
			command: "npm install",
			want:    nil,
		},
		{
			name:    "unrelated command",
			command: "ls -la",
			want:    nil,
		},
		{
			name:    "install within larger command",
			command: "cd web && npm install left-pad@1.0.0",
			want:    []string{"left-pad@1.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractPackages(tt.command))
		})
	}
}
