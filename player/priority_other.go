//go:build !windows

package player

// raisePriority is a no-op outside Windows; changing scheduling class
// there needs capabilities the player should not require.
func raisePriority() {}
