package version

import "runtime/debug"

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/version.Version=v1.2.3"
var Version = defaultVersion

const defaultVersion = "v0.1.0"

// String returns Version, or the module version recorded by `go install`
// when Version was left at its default and the build has one.
func String() string {
	if Version != defaultVersion {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}
