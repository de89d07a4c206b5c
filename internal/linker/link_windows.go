//go:build windows

package linker

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/windows"
)

// platformLink creates a directory junction for directories, which needs no
// privilege, and a symlink for files.
func platformLink(oldname, newname string) error {
	info, err := os.Stat(oldname)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return os.Symlink(oldname, newname)
	}
	out, err := exec.Command("cmd", "/c", "mklink", "/J", newname, oldname).CombinedOutput() // #nosec G204
	if err != nil {
		return fmt.Errorf("%w: mklink /J: %v: %s", errors.ErrUnsupported, err, out)
	}
	return nil
}

func isPlatformUnsupported(err error) bool {
	return errors.Is(err, windows.ERROR_PRIVILEGE_NOT_HELD) ||
		errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}
