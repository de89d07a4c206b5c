package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/util"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteSkill creates a skill directory at relDir with a SKILL.md manifest
// and returns the directory path.
func (f *Fixture) WriteSkill(relDir, description string) string {
	f.t.Helper()

	name := filepath.Base(filepath.FromSlash(relDir))
	skillContent := "---\n"
	skillContent += "name: " + name + "\n"
	if description != "" {
		skillContent += "description: " + description + "\n"
	}
	skillContent += "---\n\n# " + name + "\n"

	return filepath.Dir(f.WriteFile(relDir+"/"+"SKILL.md", skillContent))
}

// MkdirAll creates a directory and all parent directories relative to the base.
func (f *Fixture) MkdirAll(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, filepath.FromSlash(relPath))

	if err := os.MkdirAll(fullPath, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, filepath.FromSlash(relPath))
}

// Exists returns true if the file or directory exists. Dangling links count
// as existing.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Lstat(f.Path(relPath))
	return err == nil
}

// IsLink returns true if relPath is a symbolic link.
func (f *Fixture) IsLink(relPath string) bool {
	f.t.Helper()
	return util.IsSymlink(f.t, f.Path(relPath))
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := f.Path(relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}

	return string(data)
}

// Root returns the fixture base directory.
func (f *Fixture) Root() string {
	return f.baseDir
}

// ProjectFixture returns a fixture rooted at the harness project, creating
// the given agent folders.
func (h *Harness) ProjectFixture(agents ...model.Agent) *Fixture {
	h.t.Helper()

	f := NewFixture(h.t, h.projectDir)
	for _, a := range agents {
		f.MkdirAll(a.Dir())
	}
	return f
}

// SourceFixture creates an empty directory named name for use as a local
// source.
func (h *Harness) SourceFixture(name string) *Fixture {
	h.t.Helper()

	dir := filepath.Join(util.CreateTempDir(h.t), name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		h.t.Fatalf("failed to create source directory: %v", err)
	}
	return NewFixture(h.t, dir)
}

// GitSource creates a bare repository <tmp>/<name>.git holding the given
// skills (slash paths) and returns its path, which the CLI treats as a git
// origin. The test is skipped when git is not installed.
func (h *Harness) GitSource(name string, skills ...string) string {
	h.t.Helper()
	h.RequireGit()

	work := h.SourceFixture(name + "-work")
	for _, s := range skills {
		work.WriteSkill(s, s+" skill")
	}
	origin := filepath.Join(util.CreateTempDir(h.t), name+".git")

	h.git(work.Root(), "init", "-q")
	h.git(work.Root(), "add", "-A")
	h.git(work.Root(), "commit", "-q", "--allow-empty", "-m", "initial skills")
	h.git("", "clone", "-q", "--bare", work.Root(), origin)
	return origin
}

// RequireGit skips the test when the git executable is not installed.
func (h *Harness) RequireGit() {
	h.t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		h.t.Skip("git not installed")
	}
}

// PushSkill adds a skill to a bare repository created by GitSource.
func (h *Harness) PushSkill(origin, skill string) {
	h.t.Helper()

	work := filepath.Join(util.CreateTempDir(h.t), "push")
	h.git("", "clone", "-q", origin, work)
	NewFixture(h.t, work).WriteSkill(skill, skill+" skill")
	h.git(work, "add", "-A")
	h.git(work, "commit", "-q", "-m", "add "+skill)
	h.git(work, "push", "-q", "origin", "HEAD")
}

func (h *Harness) git(dir string, args ...string) {
	h.t.Helper()

	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := exec.Command("git", args...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=skillcast", "GIT_AUTHOR_EMAIL=skillcast@example.com",
		"GIT_COMMITTER_NAME=skillcast", "GIT_COMMITTER_EMAIL=skillcast@example.com",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		h.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
}
