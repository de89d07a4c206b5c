package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/util"
)

type found struct {
	Name     string
	Location string
}

func summarize(skills []model.Skill) []found {
	out := make([]found, 0, len(skills))
	for _, s := range skills {
		out = append(out, found{Name: s.Name, Location: s.Location})
	}
	return out
}

func TestDiscover_TierOrder(t *testing.T) {
	root := util.CreateTempDir(t)
	util.MakeSkill(t, filepath.Join(root, "foo"))
	util.MakeSkill(t, filepath.Join(root, ".claude", "skills", "bar"))

	skills := Discover(root)

	assert.Equal(t, []found{
		{Name: "bar", Location: "claude"},
		{Name: "foo", Location: ""},
	}, summarize(skills))
	assert.Equal(t, filepath.Join(root, ".claude", "skills", "bar"), skills[0].Path)
	assert.Equal(t, "bar skill", skills[0].Description)
}

func TestDiscover_AllAgentFolders(t *testing.T) {
	root := util.CreateTempDir(t)
	util.MakeSkill(t, filepath.Join(root, ".codex", "skills", "c"))
	util.MakeSkill(t, filepath.Join(root, ".gemini", "skills", "g"))
	util.MakeSkill(t, filepath.Join(root, ".claude", "skills", "a"))
	util.MakeDir(t, filepath.Join(root, ".claude", "skills", "no-manifest"))

	assert.Equal(t, []found{
		{Name: "a", Location: "claude"},
		{Name: "g", Location: "gemini"},
		{Name: "c", Location: "codex"},
	}, summarize(Discover(root)))
}

func TestDiscover_DedupAcrossTiers(t *testing.T) {
	root := util.CreateTempDir(t)
	bar := util.MakeSkill(t, filepath.Join(root, ".claude", "skills", "bar"))
	// the same real directory is reachable from the generic tree
	util.Symlink(t, bar, filepath.Join(root, "shared", "bar"))

	skills := Discover(root)

	require.Len(t, skills, 1)
	assert.Equal(t, "bar", skills[0].Name)
	assert.Equal(t, "claude", skills[0].Location)
}

func TestDiscover_DedupWithinTier2(t *testing.T) {
	root := util.CreateTempDir(t)
	real := util.MakeSkill(t, filepath.Join(root, "a", "foo"))
	util.Symlink(t, real, filepath.Join(root, "b", "foo"))

	assert.Equal(t, []found{{Name: "foo", Location: "a"}}, summarize(Discover(root)))
}

func TestDiscover_NestedSkills(t *testing.T) {
	root := util.CreateTempDir(t)
	util.MakeSkill(t, filepath.Join(root, "outer"))
	util.MakeSkill(t, filepath.Join(root, "outer", "inner"))
	util.MakeSkill(t, filepath.Join(root, "group", "deep", "leaf"))

	assert.Equal(t, []found{
		{Name: "leaf", Location: "group/deep"},
		{Name: "outer", Location: ""},
		{Name: "inner", Location: "outer"},
	}, summarize(Discover(root)))
}

func TestDiscover_SkipsHiddenAndVendored(t *testing.T) {
	root := util.CreateTempDir(t)
	util.MakeSkill(t, filepath.Join(root, ".git", "hooks-skill"))
	util.MakeSkill(t, filepath.Join(root, "node_modules", "pkg"))
	util.MakeSkill(t, filepath.Join(root, "docs", ".hidden"))
	util.MakeSkill(t, filepath.Join(root, ".cursor", "skills", "other"))
	util.MakeSkill(t, filepath.Join(root, "visible"))

	assert.Equal(t, []found{{Name: "visible", Location: ""}}, summarize(Discover(root)))
}

func TestDiscover_RootInsideAgentFolder(t *testing.T) {
	root := util.CreateTempDir(t)
	narrow := filepath.Join(root, ".claude", "skills")
	util.MakeSkill(t, filepath.Join(narrow, "bar"))
	// would be found by tier 1 if it ran on the narrowed root
	util.MakeSkill(t, filepath.Join(narrow, ".claude", "skills", "ghost"))

	assert.Equal(t, []found{{Name: "bar", Location: ""}}, summarize(Discover(narrow)))
}

func TestDiscover_BrokenEntriesSkipped(t *testing.T) {
	root := util.CreateTempDir(t)
	util.MakeSkill(t, filepath.Join(root, "ok"))
	util.Symlink(t, filepath.Join(root, "missing"), filepath.Join(root, "dangling"))
	util.Symlink(t, filepath.Join(root, "missing"), filepath.Join(root, ".claude", "skills", "dangling"))

	assert.Equal(t, []found{{Name: "ok", Location: ""}}, summarize(Discover(root)))
}

func TestDiscover_SymlinkCycle(t *testing.T) {
	root := util.CreateTempDir(t)
	util.MakeSkill(t, filepath.Join(root, "a", "foo"))
	util.Symlink(t, root, filepath.Join(root, "a", "loop"))

	assert.Equal(t, []found{{Name: "foo", Location: "a"}}, summarize(Discover(root)))
}

func TestDiscover_MissingRoot(t *testing.T) {
	assert.Empty(t, Discover(filepath.Join(util.CreateTempDir(t), "nope")))
}

func TestDiscoverSource(t *testing.T) {
	storage := util.CreateTempDir(t)
	util.MakeSkill(t, filepath.Join(storage, "demo", "foo"))

	skills, err := DiscoverSource(storage, model.Source{Name: "demo", Kind: model.SourceLocal})
	require.NoError(t, err)
	assert.Len(t, skills, 1)

	util.Symlink(t, filepath.Join(storage, "gone"), filepath.Join(storage, "broken"))
	_, err = DiscoverSource(storage, model.Source{Name: "broken", Kind: model.SourceLocal})
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, os.RemoveAll(filepath.Join(storage, "demo")))
	_, err = DiscoverSource(storage, model.Source{Name: "demo"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestInsideAgentFolder(t *testing.T) {
	assert.True(t, InsideAgentFolder("/src/.claude/skills"))
	assert.True(t, InsideAgentFolder("/src/.codex"))
	assert.False(t, InsideAgentFolder("/src/claude"))
	assert.False(t, InsideAgentFolder("/src/.claudex/skills"))
}
