// Package vcs fetches remote skill sources with the git executable.
package vcs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/klauern/skillcast/internal/logging"
)

// DefaultRepoName is used when no name can be derived from an origin.
const DefaultRepoName = "external-skills"

// Fetcher clones and updates remote sources.
type Fetcher interface {
	// Clone fetches origin into dest, which must not exist yet.
	Clone(ctx context.Context, origin, dest string) error
	// Pull fast-forwards the clone at dir.
	Pull(ctx context.Context, dir string) error
}

// Git implements Fetcher by running git.
type Git struct {
	// Binary is the git executable; empty means "git" from PATH.
	Binary string
	// Env is appended to the process environment.
	Env []string
}

// NewGit returns a Git fetcher using git from PATH.
func NewGit() *Git {
	return &Git{}
}

// Clone runs git clone origin dest.
func (g *Git) Clone(ctx context.Context, origin, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	return g.run(ctx, "clone", origin, dest)
}

// Pull runs git pull --ff-only inside dir.
func (g *Git) Pull(ctx context.Context, dir string) error {
	return g.run(ctx, "-C", dir, "pull", "--ff-only")
}

func (g *Git) run(ctx context.Context, args ...string) error {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}

	// #nosec G204 - arguments are origins and paths, never shell-interpreted
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.Env = append(cmd.Env, g.Env...)

	logging.Debug("running git", logging.Operation(strings.Join(args, " ")))
	output, err := cmd.CombinedOutput()
	if err != nil {
		out := strings.TrimSpace(string(output))
		if out == "" {
			return fmt.Errorf("git %s: %w", args[0], err)
		}
		return fmt.Errorf("git %s: %w: %s", args[0], err, out)
	}
	return nil
}

// IsRemote reports whether input looks like a git origin rather than a
// local path.
func IsRemote(input string) bool {
	return strings.HasPrefix(input, "http") ||
		strings.HasPrefix(input, "git@") ||
		strings.HasSuffix(input, ".git")
}

// RepoName derives a source name from an origin: the trailing path segment
// with any .git suffix removed.
func RepoName(origin string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(origin), "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if i := strings.LastIndexAny(trimmed, "/:\\"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" || trimmed == "." || trimmed == ".." {
		return DefaultRepoName
	}
	return trimmed
}
