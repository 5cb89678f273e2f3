// Package buildinfo holds the identifiers stamped into a build with
// -ldflags "-X caekeeb/internal/buildinfo.Version=...".
package buildinfo

import "strings"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short is the identifier shown on the boot screen and in the window title.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	}
	return "dev"
}

// Long is the --version text: version, then commit and date when known.
func Long() string {
	var b strings.Builder
	b.WriteString("caekeeb ")
	if Version == "" {
		b.WriteString("dev")
	} else {
		b.WriteString(Version)
	}
	if Commit != "" && Commit != "unknown" {
		b.WriteString(" (" + Commit)
		if Date != "" && Date != "unknown" {
			b.WriteString(", " + Date)
		}
		b.WriteString(")")
	}
	return b.String()
}
