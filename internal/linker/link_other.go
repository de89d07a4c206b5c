//go:build !unix && !windows

package linker

import "os"

func platformLink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

func isPlatformUnsupported(error) bool {
	return false
}
