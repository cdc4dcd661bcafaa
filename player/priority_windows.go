//go:build windows

package player

import (
	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadPriority = kernel32.NewProc("SetThreadPriority")
	procGetCurrentThread  = kernel32.NewProc("GetCurrentThread")
)

const threadPriorityHighest = 2

// raisePriority bumps the process and driving thread to high
// priority. Failures are ignored: this is an optimization, never a
// precondition.
func raisePriority() {
	_ = windows.SetPriorityClass(windows.CurrentProcess(), windows.HIGH_PRIORITY_CLASS)
	thread, _, _ := procGetCurrentThread.Call()
	procSetThreadPriority.Call(thread, threadPriorityHighest)
}
