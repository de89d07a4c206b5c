//nolint:revive // var-naming - package name is meaningful
package util

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateTempDir creates a canonical temporary directory for testing. The
// result has symlinks resolved so it compares equal to EvalSymlinks output
// (macOS /var -> /private/var).
func CreateTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return dir
}

// WriteFile writes content to a file, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// MakeSkill creates dir with a SKILL.md manifest and returns dir.
func MakeSkill(t *testing.T, dir string) string {
	t.Helper()
	name := filepath.Base(dir)
	WriteFile(t, filepath.Join(dir, "SKILL.md"), "---\nname: "+name+"\ndescription: "+name+" skill\n---\n\n# "+name+"\n")
	return dir
}

// MakeDir creates a directory and its parents.
func MakeDir(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	return dir
}

// Symlink creates a symlink at link pointing to target, skipping the test
// when the platform refuses.
func Symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(link), 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

// IsSymlink reports whether path is a symlink.
func IsSymlink(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}
