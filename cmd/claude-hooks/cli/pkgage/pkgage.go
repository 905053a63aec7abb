// Package pkgage guards npm installs against stale dependencies: it parses
// package specs out of npm/yarn commands, looks up publish dates in the npm
// registry, and blocks installs of versions older than a configurable limit.
package pkgage

import (
	"regexp"
	"strings"
)

// Spec is a parsed package reference.
type Spec struct {
	Name    string
	Version string
}

// latestTag is the implied version when a spec carries none.
const latestTag = "latest"

// specRe splits name@version, leaving scoped names ("@scope/pkg") intact.
var specRe = regexp.MustCompile(`^(@?[^@]+)@(.+)$`)

// ParseSpec splits "name@version" into its parts; a bare name means latest.
func ParseSpec(spec string) Spec {
	if m := specRe.FindStringSubmatch(spec); m != nil {
		return Spec{Name: m[1], Version: m[2]}
	}
	return Spec{Name: spec, Version: latestTag}
}

// String re-renders the spec.
func (s Spec) String() string {
	return s.Name + "@" + s.Version
}

// localRefRe identifies specs that never hit the registry: relative paths,
// absolute paths, git and http URLs, file: references.
var localRefRe = regexp.MustCompile(`^(\.|/|git\+|http|file:)`)

// IsRegistryPackage reports whether the spec refers to a registry package
// rather than a local or git source.
func IsRegistryPackage(spec string) bool {
	return !localRefRe.MatchString(spec)
}

// installCmdRe matches the package-list portion of npm/yarn install commands.
var installCmdRe = regexp.MustCompile(`(?:npm|yarn|pnpm)\s+(?:install|add|i)\s+(.+)`)

var flagRe = regexp.MustCompile(`--\S+`)

// ExtractPackages pulls package specs out of a shell command. Flags are
// stripped; a bare "npm install" (restoring package.json) yields nothing.
func ExtractPackages(command string) []string {
	m := installCmdRe.FindStringSubmatch(command)
	if m == nil {
		return nil
	}

	rest := strings.TrimSpace(flagRe.ReplaceAllString(m[1], ""))

	var out []string
	for _, field := range strings.Fields(rest) {
		if strings.HasPrefix(field, "-") {
			continue
		}
		out = append(out, field)
	}
	return out
}
