package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/skillcast/internal/discovery"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/project"
	"github.com/klauern/skillcast/internal/util"
)

// fakeFetcher "clones" by creating the listed skills under dest.
type fakeFetcher struct {
	t       *testing.T
	skills  map[string][]string
	pullErr error
	clones  []string
	pulls   []string
}

func (f *fakeFetcher) Clone(_ context.Context, origin, dest string) error {
	f.clones = append(f.clones, origin)
	skills, ok := f.skills[origin]
	if !ok {
		util.MakeDir(f.t, dest)
		return errors.New("repository not found")
	}
	for _, s := range skills {
		util.MakeSkill(f.t, filepath.Join(dest, filepath.FromSlash(s)))
	}
	return nil
}

func (f *fakeFetcher) Pull(_ context.Context, dir string) error {
	f.pulls = append(f.pulls, dir)
	return f.pullErr
}

type env struct {
	home    string
	storage string
	proj    *project.Project
	fetcher *fakeFetcher
	reg     *Registry
}

func newEnv(t *testing.T) env {
	t.Helper()
	home := util.CreateTempDir(t)
	e := env{
		home:    home,
		storage: filepath.Join(home, "sources"),
		fetcher: &fakeFetcher{t: t, skills: map[string][]string{
			"https://example.com/acme/skills.git": {"lint", ".claude/skills/review"},
			"https://example.com/other/skills.git": {"deploy"},
		}},
	}
	root := util.MakeDir(t, filepath.Join(home, "project"))
	util.MakeDir(t, filepath.Join(root, ".claude"))
	util.MakeDir(t, filepath.Join(root, ".codex"))
	e.proj = project.New(root, e.storage, nil)
	e.reg = New(e.storage, e.fetcher, e.proj)
	return e
}

func TestAddRemote(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	st, res, err := e.reg.AddRemote(ctx, model.State{}, "https://example.com/acme/skills.git", AddOptions{})
	require.NoError(t, err)
	assert.False(t, res.Refreshed)
	assert.Equal(t, []string{"skills"}, st.Names())
	src, _ := st.Get("skills")
	assert.Equal(t, model.SourceRemote, src.Kind)

	skills := discovery.Discover(e.reg.Root("skills"))
	assert.Len(t, skills, 2)

	// Same origin again refreshes instead of cloning.
	st2, res, err := e.reg.AddRemote(ctx, st, "https://example.com/acme/skills.git", AddOptions{})
	require.NoError(t, err)
	assert.True(t, res.Refreshed)
	assert.Equal(t, st, st2)
	assert.Len(t, e.fetcher.clones, 1)
	assert.Len(t, e.fetcher.pulls, 1)
}

func TestAddRemote_PullFailureIsWarning(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	st, _, err := e.reg.AddRemote(ctx, model.State{}, "https://example.com/acme/skills.git", AddOptions{})
	require.NoError(t, err)

	e.fetcher.pullErr = errors.New("could not resolve host")
	st2, res, err := e.reg.AddRemote(ctx, st, "https://example.com/acme/skills.git", AddOptions{})
	require.NoError(t, err)
	assert.Equal(t, st, st2)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], model.ErrOriginUnreachable)
}

func TestAddRemote_CloneFailure(t *testing.T) {
	e := newEnv(t)

	st, _, err := e.reg.AddRemote(context.Background(), model.State{}, "https://example.com/missing.git", AddOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrOriginUnreachable)
	assert.Empty(t, st.Sources)
	assert.NoDirExists(t, e.reg.Root("missing"), "partial clone must be removed")
}

func TestAddRemote_Collision(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	st, _, err := e.reg.AddRemote(ctx, model.State{}, "https://example.com/acme/skills.git", AddOptions{})
	require.NoError(t, err)

	st2, _, err := e.reg.AddRemote(ctx, st, "https://example.com/other/skills.git", AddOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Contains(t, err.Error(), "--name")
	assert.Equal(t, st, st2)

	st3, _, err := e.reg.AddRemote(ctx, st, "https://example.com/other/skills.git", AddOptions{Name: "other"})
	require.NoError(t, err)
	assert.Equal(t, []string{"skills", "other"}, st3.Names())
}

func TestAddRemote_InvalidName(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.reg.AddRemote(context.Background(), model.State{}, "https://example.com/acme/skills.git", AddOptions{Name: "local"})
	assert.ErrorIs(t, err, model.ErrInvalid)
	assert.Empty(t, e.fetcher.clones)
}

func TestAddLocal(t *testing.T) {
	e := newEnv(t)
	dir := filepath.Join(e.home, "my-skills")
	util.MakeSkill(t, filepath.Join(dir, "foo"))

	st, res, err := e.reg.AddLocal(model.State{}, dir, AddOptions{})
	require.NoError(t, err)
	assert.Equal(t, "my-skills", res.Source.Name)
	assert.Equal(t, dir, res.Source.Origin)
	assert.True(t, util.IsSymlink(t, e.reg.Root("my-skills")))
	assert.FileExists(t, filepath.Join(e.reg.Root("my-skills"), "foo", "SKILL.md"))

	st2, res, err := e.reg.AddLocal(st, dir, AddOptions{})
	require.NoError(t, err)
	assert.True(t, res.Refreshed)
	assert.Equal(t, st, st2)
}

func TestAddLocal_Errors(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.reg.AddLocal(model.State{}, filepath.Join(e.home, "nope"), AddOptions{})
	assert.ErrorIs(t, err, model.ErrNotFound)

	file := filepath.Join(e.home, "file.txt")
	util.WriteFile(t, file, "x")
	_, _, err = e.reg.AddLocal(model.State{}, file, AddOptions{})
	assert.ErrorIs(t, err, model.ErrInvalid)

	a := util.MakeDir(t, filepath.Join(e.home, "a", "shared"))
	b := util.MakeDir(t, filepath.Join(e.home, "b", "shared"))
	st, _, err := e.reg.AddLocal(model.State{}, a, AddOptions{})
	require.NoError(t, err)
	_, _, err = e.reg.AddLocal(st, b, AddOptions{})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestAddLocal_UnregisteredStorageEntry(t *testing.T) {
	e := newEnv(t)
	util.MakeDir(t, filepath.Join(e.storage, "stale"))
	dir := util.MakeDir(t, filepath.Join(e.home, "stale"))

	_, _, err := e.reg.AddLocal(model.State{}, dir, AddOptions{})
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.DirExists(t, filepath.Join(e.storage, "stale"))
}

func TestRemove_Cascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	st, _, err := e.reg.AddRemote(ctx, model.State{}, "https://example.com/acme/skills.git", AddOptions{})
	require.NoError(t, err)
	st, _, err = e.reg.AddRemote(ctx, st, "https://example.com/other/skills.git", AddOptions{Name: "other"})
	require.NoError(t, err)

	for _, s := range []string{"lint", "review"} {
		_, err := e.proj.Activate(project.ActivateRequest{Source: "skills", Skill: s})
		require.NoError(t, err)
	}
	_, err = e.proj.Activate(project.ActivateRequest{Source: "other", Skill: "deploy"})
	require.NoError(t, err)
	_, err = e.proj.Activate(project.ActivateRequest{Source: "skills", Skill: "lint", Copy: true})
	require.Error(t, err, "already present everywhere")

	copied := util.MakeSkill(t, filepath.Join(e.proj.SkillsDir(model.Codex), "pinned"))

	require.Len(t, e.proj.ListActive(), 6)

	st, res, err := e.reg.Remove(st, "skills")
	require.NoError(t, err)
	assert.Len(t, res.Unlinked, 4)
	assert.Equal(t, []string{"other"}, st.Names())
	assert.NoDirExists(t, e.reg.Root("skills"))

	for _, a := range e.proj.ListActive() {
		assert.False(t, a.BelongsTo("skills"), "left behind %s", a.Key)
	}
	assert.Len(t, e.proj.ListActive(), 2)
	assert.DirExists(t, copied)
}

func TestRemove_LocalSourceKeepsOrigin(t *testing.T) {
	e := newEnv(t)
	dir := filepath.Join(e.home, "demo")
	util.MakeSkill(t, filepath.Join(dir, "foo"))
	st, _, err := e.reg.AddLocal(model.State{}, dir, AddOptions{})
	require.NoError(t, err)
	_, err = e.proj.Activate(project.ActivateRequest{Source: "demo", Skill: "foo"})
	require.NoError(t, err)
	require.Equal(t, "demo/foo", e.proj.ListActive()[0].Key)

	st, res, err := e.reg.Remove(st, "demo")
	require.NoError(t, err)
	assert.Len(t, res.Unlinked, 2)
	assert.Empty(t, st.Sources)
	assert.Empty(t, e.proj.ListActive())
	assert.NoFileExists(t, e.reg.Root("demo"))
	assert.FileExists(t, filepath.Join(dir, "foo", "SKILL.md"))
}

func TestRemove_NotFound(t *testing.T) {
	e := newEnv(t)
	st := model.State{}.With(model.Source{Name: "a", Kind: model.SourceLocal, Origin: "/a"})

	st2, _, err := e.reg.Remove(st, "b")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, st, st2)
}

func TestRemove_RefusesPathsOutsideStorage(t *testing.T) {
	e := newEnv(t)
	keep := util.MakeDir(t, filepath.Join(e.home, "keepme"))
	util.WriteFile(t, filepath.Join(keep, "precious.txt"), "x")
	st := model.State{Sources: []model.Source{{Name: "../keepme", Kind: model.SourceLocal, Origin: keep}}}

	st2, _, err := e.reg.Remove(st, "../keepme")
	assert.ErrorIs(t, err, model.ErrInvalid)
	assert.Equal(t, st, st2)
	assert.FileExists(t, filepath.Join(keep, "precious.txt"))
}

func TestSync(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	st, _, err := e.reg.AddRemote(ctx, model.State{}, "https://example.com/acme/skills.git", AddOptions{})
	require.NoError(t, err)
	dir := filepath.Join(e.home, "demo")
	util.MakeSkill(t, filepath.Join(dir, "foo"))
	util.MakeSkill(t, filepath.Join(dir, "gone"))
	st, _, err = e.reg.AddLocal(st, dir, AddOptions{})
	require.NoError(t, err)
	st = st.With(model.Source{Name: "lost", Kind: model.SourceRemote, Origin: "https://example.com/lost.git"})

	for _, s := range []string{"lint", "review"} {
		_, err := e.proj.Activate(project.ActivateRequest{Source: "skills", Skill: s, Agents: []model.Agent{model.Claude}})
		require.NoError(t, err)
	}
	for _, s := range []string{"foo", "gone"} {
		_, err := e.proj.Activate(project.ActivateRequest{Source: "demo", Skill: s, Agents: []model.Agent{model.Claude}})
		require.NoError(t, err)
	}
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "gone")))

	var seen []string
	report := e.reg.Sync(ctx, st, SyncOptions{OnSource: func(s SourceStatus) { seen = append(seen, s.Name) }})

	assert.Equal(t, []string{"skills", "demo", "lost"}, seen)
	require.Len(t, report.Sources, 3)
	assert.Equal(t, StatusUpdated, report.Sources[0].Status)
	assert.Equal(t, StatusLocal, report.Sources[1].Status)
	assert.Equal(t, StatusMissing, report.Sources[2].Status)
	assert.Equal(t, 3, report.Relinked)
	require.Len(t, report.Orphans, 1)
	assert.Equal(t, "demo/gone", report.Orphans[0].Key)
	assert.True(t, util.IsSymlink(t, filepath.Join(e.proj.SkillsDir(model.Claude), "gone")), "orphans are left in place")
	assert.Len(t, e.proj.ListActive(), 4)
}

func TestSync_PullFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	st, _, err := e.reg.AddRemote(ctx, model.State{}, "https://example.com/acme/skills.git", AddOptions{})
	require.NoError(t, err)
	e.fetcher.pullErr = errors.New("offline")

	report := e.reg.Sync(ctx, st, SyncOptions{})
	require.Len(t, report.Sources, 1)
	assert.Equal(t, StatusFailed, report.Sources[0].Status)
	assert.ErrorIs(t, report.Sources[0].Err, model.ErrOriginUnreachable)
}

func TestRefresh_Unknown(t *testing.T) {
	e := newEnv(t)
	_, err := e.reg.Refresh(context.Background(), model.State{}, "x")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
