//go:build unix

package linker

import (
	"errors"
	"os"
	"syscall"
)

func platformLink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

func isPlatformUnsupported(err error) bool {
	return errors.Is(err, syscall.EXDEV) || errors.Is(err, syscall.EOPNOTSUPP)
}
