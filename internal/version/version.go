// Package version reports the build's VCS revision for --version, the way
// gokrazy/tools' internal/version does.
package version

import "runtime/debug"

// Read returns a human-readable build identifier derived from the Go
// module's embedded VCS info, or "<not okay>" if the binary wasn't built
// with module/VCS info available (e.g. go build of a single file).
func Read() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "<not okay>"
	}

	var revision string
	var modified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if revision == "" {
		return "<not okay>"
	}

	suffix := ""
	if modified {
		suffix = " (modified)"
	}
	return "unify-gpt " + revision + suffix
}
