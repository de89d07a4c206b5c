// Package linker places a skill directory at a destination by symbolic link,
// falling back to a recursive copy when the host refuses links.
package linker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/model"
)

// Method reports how a destination was materialized.
type Method int

const (
	MethodLink Method = iota
	MethodCopy
)

// String returns "link" or "copy".
func (m Method) String() string {
	if m == MethodCopy {
		return "copy"
	}
	return "link"
}

// SymlinkFunc creates newname as a link to oldname.
type SymlinkFunc func(oldname, newname string) error

// Linker implements the link-or-copy strategy.
type Linker struct {
	symlink SymlinkFunc
}

// Option configures a Linker.
type Option func(*Linker)

// WithSymlinkFunc replaces the link primitive, e.g. to force the copy path.
func WithSymlinkFunc(fn SymlinkFunc) Option {
	return func(l *Linker) {
		l.symlink = fn
	}
}

// New returns a Linker using the platform's directory link primitive
// (symlink, or a junction on Windows).
func New(opts ...Option) *Linker {
	l := &Linker{symlink: platformLink}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Place clears dst and links it to src. When linking fails because the
// platform or filesystem does not support it, src is copied instead.
// Other link failures are returned unchanged.
func (l *Linker) Place(src, dst string, isDir bool) (Method, error) {
	if err := removeExisting(dst); err != nil {
		return MethodLink, model.Wrap(model.KindInternal, dst, err)
	}

	linkErr := l.symlink(src, dst)
	if linkErr == nil {
		logging.Debug("linked", logging.Path(dst), slog.String("target", src))
		return MethodLink, nil
	}
	if !IsUnsupported(linkErr) {
		return MethodLink, model.Wrap(model.KindInternal, dst, linkErr)
	}

	logging.Debug("link unsupported, copying instead",
		logging.Path(dst),
		logging.Err(linkErr),
	)
	// a failed link attempt may leave nothing behind, but be sure
	if err := removeExisting(dst); err != nil {
		return MethodCopy, model.Wrap(model.KindInternal, dst, err)
	}
	if err := copyEntry(src, dst, isDir); err != nil {
		return MethodCopy, model.Wrap(model.KindLinkUnsupported, dst,
			fmt.Errorf("copy fallback failed after %v: %w", linkErr, err))
	}
	return MethodCopy, nil
}

// Copy clears dst and copies src into it without attempting a link.
func (l *Linker) Copy(src, dst string, isDir bool) error {
	if err := removeExisting(dst); err != nil {
		return model.Wrap(model.KindInternal, dst, err)
	}
	if err := copyEntry(src, dst, isDir); err != nil {
		return model.Wrap(model.KindInternal, dst, err)
	}
	return nil
}

// Link clears dst and links it to src with no copy fallback. Used where a
// copy would change meaning, such as registering a live local source.
func (l *Linker) Link(src, dst string) error {
	if err := removeExisting(dst); err != nil {
		return model.Wrap(model.KindInternal, dst, err)
	}
	if err := l.symlink(src, dst); err != nil {
		kind := model.KindInternal
		if IsUnsupported(err) {
			kind = model.KindLinkUnsupported
		}
		return model.Wrap(kind, dst, err)
	}
	return nil
}

// Remove deletes whatever occupies path. Links are removed without touching
// their targets. A missing path is not an error.
func Remove(path string) error {
	return removeExisting(path)
}

// IsUnsupported reports whether err is a link-creation failure that a copy
// can work around: permission or privilege refusal, unsupported operation,
// or a cross-device restriction.
func IsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errors.ErrUnsupported) || errors.Is(err, fs.ErrPermission) {
		return true
	}
	return isPlatformUnsupported(err)
}

func copyEntry(src, dst string, isDir bool) error {
	if isDir {
		return copyDir(src, dst)
	}
	return copyFile(src, dst)
}

// removeExisting removes a file, symlink, or directory at the given path.
// Uses os.Lstat so a symlink is removed as an entry and its target is kept.
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove directory %q: %w", path, err)
		}
		logging.Debug("removed existing directory", logging.Path(path))
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		logging.Debug("removed existing symlink", logging.Path(path))
	}
	return nil
}
