//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package cli

import "os"

// TerminalWidth returns DefaultWidth; terminals are not probed on this platform.
func TerminalWidth(*os.File) int {
	return DefaultWidth
}
