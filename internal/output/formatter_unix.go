//go:build !windows

package output

// enableANSI reports ANSI support; Unix terminals handle escape codes natively
func enableANSI() bool {
	return true
}
