//go:build !darwin && !windows

package opener

// New returns the opener for Linux and the BSDs.
func New() ImageOpener {
	return newCommandOpener("xdg-open")
}
