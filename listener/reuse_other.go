//go:build !unix

package listener

import "syscall"

// On Windows SO_REUSEADDR lets another socket steal a bound port, which
// is not what we want. TIME_WAIT doesn't block rebinding there anyway.
func reuseAddr(_, _ string, _ syscall.RawConn) error {
	return nil
}
