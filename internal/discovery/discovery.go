// Package discovery finds skill directories below a source root.
//
// Discovery runs in two tiers. Tier 1 looks in the agent folders
// (.claude/skills, .gemini/skills, .codex/skills) directly below the root.
// Tier 2 walks the rest of the tree depth-first, skipping hidden entries and
// node_modules. A directory reachable by more than one path is reported once,
// by the first tier that reaches its canonical path.
package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/manifest"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/util"
)

// Discover returns the skills below root in tier order. It never caches and
// never fails: unreadable or broken entries are skipped.
func Discover(root string) []model.Skill {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		logging.Debug("discovery root not found", logging.Path(root))
		return nil
	}

	w := &walker{
		root:    root,
		claimed: make(map[string]bool),
		visited: make(map[string]bool),
	}

	if !InsideAgentFolder(root) {
		for _, agent := range model.AllAgents() {
			w.scanAgentFolder(agent)
		}
	}
	w.scanTree(root, "")

	logging.Debug("discovered skills", logging.Path(root), logging.Count(len(w.skills)))
	return w.skills
}

// DiscoverSource discovers the skills of a registered source. A source whose
// root no longer resolves to a directory is reported as not found.
func DiscoverSource(storage string, src model.Source) ([]model.Skill, error) {
	root := src.RootPath(storage)
	info, err := os.Stat(root)
	if err != nil {
		return nil, model.Wrap(model.KindNotFound, src.Name, err)
	}
	if !info.IsDir() {
		return nil, model.Errorf(model.KindNotFound, src.Name, "source root %s is not a directory", root)
	}
	return Discover(root), nil
}

// InsideAgentFolder reports whether any segment of path is an agent folder
// name, in which case tier 1 would rediscover the same skills.
func InsideAgentFolder(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if model.IsReservedSegment(seg) {
			return true
		}
	}
	return false
}

type walker struct {
	root    string
	skills  []model.Skill
	claimed map[string]bool
	visited map[string]bool
}

// claim records dir as a skill unless its canonical path was already claimed.
func (w *walker) claim(name, dir, location string, agent model.Agent) {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return
	}
	if w.claimed[real] {
		logging.Debug("skipping duplicate skill", logging.Skill(name), logging.Path(dir))
		return
	}
	w.claimed[real] = true
	w.skills = append(w.skills, model.Skill{
		Name:        name,
		Path:        dir,
		Location:    location,
		Agent:       agent,
		Description: manifest.Summary(dir),
	})
}

func (w *walker) scanAgentFolder(agent model.Agent) {
	dir := filepath.Join(w.root, agent.Dir(), model.SkillsDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if util.IsHiddenOrVendored(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		if manifest.Exists(path) {
			w.claim(entry.Name(), path, agent.String(), agent)
		}
	}
}

// scanTree walks dir depth-first. rel is dir's slash-separated path relative
// to the root and becomes the location tag of skills found directly in dir.
func (w *walker) scanTree(dir, rel string) {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil || w.visited[real] {
		return
	}
	w.visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if util.IsHiddenOrVendored(name) {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		if manifest.Exists(path) {
			w.claim(name, path, rel, "")
		}
		// skills may contain nested skills
		w.scanTree(path, joinRel(rel, name))
	}
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
