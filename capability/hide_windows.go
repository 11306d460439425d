//go:build windows

package capability

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// hideWindow suppresses the console window Windows would otherwise pop up
// for every probe subprocess (nvidia-smi, wmic, ffmpeg -encoders, ...).
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
