package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceKind distinguishes fetched working copies from linked local folders.
type SourceKind string

const (
	// SourceRemote is a git remote cloned into the registry storage area.
	SourceRemote SourceKind = "git"
	// SourceLocal is a local directory linked into the registry storage area.
	SourceLocal SourceKind = "local"
)

// IsValid returns true if the kind is recognized.
func (k SourceKind) IsValid() bool {
	return k == SourceRemote || k == SourceLocal
}

// String returns the persisted form of the kind.
func (k SourceKind) String() string {
	return string(k)
}

// ParseSourceKind parses a kind. "remote" is accepted as an alias of "git".
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "git", "remote":
		return SourceRemote, nil
	case "local":
		return SourceLocal, nil
	default:
		return "", fmt.Errorf("unknown source type %q", s)
	}
}

// Source is a registered origin of skills.
type Source struct {
	// Name is the unique registry key and the directory name under storage.
	Name string `json:"name" yaml:"-"`
	// Kind is remote (git) or local.
	Kind SourceKind `json:"type" yaml:"type"`
	// Origin is the remote URL for git sources or the canonical absolute path
	// for local sources.
	Origin string `json:"origin" yaml:"-"`
}

// RootPath returns the source's directory inside the storage area.
func (s Source) RootPath(storage string) string {
	return filepath.Join(storage, s.Name)
}

// IsRemote returns true for git sources.
func (s Source) IsRemote() bool {
	return s.Kind == SourceRemote
}
