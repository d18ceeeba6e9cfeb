// Package version exposes the version stamped into the binary at build
// time.
package version

// version is overridden via -ldflags by the Build mage target.
var version = "v0.0.0"

// Value returns the build version, or the development default when the
// binary was built without ldflags.
func Value() string {
	return version
}
