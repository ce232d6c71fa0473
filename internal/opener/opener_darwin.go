//go:build darwin

package opener

// New returns the opener for macOS.
func New() ImageOpener {
	return newCommandOpener("open")
}
