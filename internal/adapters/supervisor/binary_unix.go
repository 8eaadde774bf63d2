//go:build !windows

package supervisor

// binaryName is the game executable's path under an instance's bin/x64/
// directory on non-Windows platforms.
const binaryName = "factorio"
