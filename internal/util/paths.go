// Package util holds filesystem path helpers shared across skillcast.
package util

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// HomeEnv overrides the skillcast storage root.
	HomeEnv = "SKILLCAST_HOME"
	// ProjectEnv overrides the project root (defaults to the working directory).
	ProjectEnv = "SKILLCAST_PROJECT"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// SkillcastHome returns the storage root, $SKILLCAST_HOME or ~/.skillcast.
func SkillcastHome() string {
	if v := os.Getenv(HomeEnv); v != "" {
		return ExpandPath(v, "")
	}
	return filepath.Join(HomeDir(), ".skillcast")
}

// SourcesPath returns the registry storage area holding one entry per source.
func SourcesPath() string {
	return filepath.Join(SkillcastHome(), "sources")
}

// ConfigFilePath returns the path of the registry/config file.
func ConfigFilePath() string {
	return filepath.Join(SkillcastHome(), "config.yaml")
}

// LockFilePath returns the path of the advisory command lock.
func LockFilePath() string {
	return filepath.Join(SkillcastHome(), "skillcast.lock")
}

// ProjectRoot returns $SKILLCAST_PROJECT or the working directory.
func ProjectRoot() (string, error) {
	if v := os.Getenv(ProjectEnv); v != "" {
		return ExpandPath(v, ""), nil
	}
	return os.Getwd()
}

// ExpandPath expands a leading ~ and resolves relative paths against baseDir
// (the working directory when baseDir is empty). Returns "" for "".
func ExpandPath(p, baseDir string) string {
	if p == "" {
		return ""
	}
	if p == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		return filepath.Join(HomeDir(), p[2:])
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if baseDir == "" {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

// IsWithin reports whether path equals root or lies below it. Both paths
// should already be canonical.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CanonicalPath resolves symlinks and returns an absolute path.
func CanonicalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// IsHiddenOrVendored reports whether a directory entry name is skipped by
// recursive scans: dot-prefixed names and node_modules.
func IsHiddenOrVendored(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}
