// Package buildinfo identifies the firmware image in banners and logs.
package buildinfo

// Version is set at build time via -ldflags; "dev" for local builds.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = ""

// Short returns a compact image identifier.
func Short() string {
	switch {
	case Version != "dev":
		return Version
	case Commit != "":
		return "dev+" + Commit
	}
	return "dev"
}
