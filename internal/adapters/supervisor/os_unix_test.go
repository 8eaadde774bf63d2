//go:build !windows

package supervisor

func isWindows() bool { return false }
