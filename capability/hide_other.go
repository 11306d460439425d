//go:build !windows

package capability

import "os/exec"

// hideWindow is a no-op outside Windows; there is no console to suppress.
func hideWindow(cmd *exec.Cmd) {}
