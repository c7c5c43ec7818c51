//go:build windows

package server

import "syscall"

// sighup is not delivered on Windows, the handler is never triggered.
const sighup = syscall.SIGHUP
