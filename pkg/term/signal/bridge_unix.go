// ABOUTME: POSIX signal name table for the five signals this module recognizes.
// ABOUTME: syscall.SIGWINCH et al. keyed by name instead of hardcoded to one callback.

//go:build unix

package signal

import (
	"os"
	"syscall"
)

var signalsByName = map[string]os.Signal{
	"INT":   syscall.SIGINT,
	"QUIT":  syscall.SIGQUIT,
	"TSTP":  syscall.SIGTSTP,
	"CONT":  syscall.SIGCONT,
	"WINCH": syscall.SIGWINCH,
}
