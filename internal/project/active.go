package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/skillcast/internal/linker"
	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/util"
)

// ListActive reconstructs the active skills from the links in every agent
// skills directory. Plain directories are not included because their origin
// cannot be determined. Nothing is cached; every call rescans.
func (p *Project) ListActive() []model.Activation {
	var active []model.Activation
	for _, a := range p.ListEntries() {
		if a.Linked {
			active = append(active, a)
		}
	}
	return active
}

// ListEntries lists every skill entry in the agent skills directories,
// links and copies alike. Copies carry a local/<name> key and no target.
func (p *Project) ListEntries() []model.Activation {
	storage := p.storageRoots()

	var entries []model.Activation
	for _, agent := range model.AllAgents() {
		dir := p.SkillsDir(agent)
		items, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, item := range items {
			if util.IsHiddenOrVendored(item.Name()) {
				continue
			}
			full := filepath.Join(dir, item.Name())
			info, err := os.Lstat(full)
			if err != nil {
				continue
			}
			if info.Mode()&os.ModeSymlink != 0 {
				entries = append(entries, classifyLink(agent, full, storage))
				continue
			}
			if info.IsDir() {
				entries = append(entries, model.Activation{
					Agent: agent,
					Name:  item.Name(),
					Key:   model.LocalKey(item.Name()),
				})
			}
		}
	}
	return entries
}

// FindActive returns entries whose key equals query or whose name matches it
// case-insensitively, optionally limited to one agent.
func (p *Project) FindActive(query string, agent model.Agent) []model.Activation {
	var matches []model.Activation
	for _, a := range p.ListEntries() {
		if agent != "" && a.Agent != agent {
			continue
		}
		if a.Key == query || strings.EqualFold(a.Name, query) {
			matches = append(matches, a)
		}
	}
	return matches
}

// RemoveActivation deletes one agent's entry. Links are removed without
// touching their target. A plain directory is refused unless force is set,
// since it may hold user edits and its origin cannot be verified.
func (p *Project) RemoveActivation(agent model.Agent, name string, force bool) error {
	dest := filepath.Join(p.SkillsDir(agent), name)
	info, err := os.Lstat(dest)
	if err != nil {
		return model.Wrap(model.KindNotFound, dest, err)
	}
	if info.Mode()&os.ModeSymlink == 0 && !force {
		return model.Errorf(model.KindAmbiguousOrigin, dest, "not a link; origin cannot be verified (use --force to delete the copy)")
	}
	if err := linker.Remove(dest); err != nil {
		return model.Wrap(model.KindInternal, dest, err)
	}
	logging.Info("removed skill", logging.Agent(agent.String()), logging.Path(dest))
	return nil
}

// DestPath returns where an activation lives.
func (p *Project) DestPath(a model.Activation) string {
	return filepath.Join(p.SkillsDir(a.Agent), a.Name)
}

// storageRoots returns the storage path as given and with symlinks resolved,
// so link targets written either way are recognized.
func (p *Project) storageRoots() []string {
	roots := []string{filepath.Clean(p.Storage)}
	if real, err := filepath.EvalSymlinks(p.Storage); err == nil && real != roots[0] {
		roots = append(roots, real)
	}
	return roots
}

// classifyLink derives the key of a link. The link's own target is checked
// first: links into storage/<source>/... belong to that source even when the
// source entry is itself a link to a local directory. Failing that, the fully
// resolved target is checked.
func classifyLink(agent model.Agent, full string, storage []string) model.Activation {
	name := filepath.Base(full)
	a := model.Activation{Agent: agent, Name: name, Linked: true, Key: model.LocalKey(name)}

	raw, err := os.Readlink(full)
	if err != nil {
		return a
	}
	if !filepath.IsAbs(raw) {
		raw = filepath.Join(filepath.Dir(full), raw)
	}
	a.Target = filepath.Clean(raw)
	if real, err := filepath.EvalSymlinks(full); err == nil {
		a.Resolved = real
	}

	for _, candidate := range []string{a.Target, a.Resolved} {
		if candidate == "" {
			continue
		}
		if source, ok := sourceUnder(storage, candidate); ok {
			a.Key = model.SkillKey(source, name)
			return a
		}
	}
	return a
}

// sourceUnder returns the first path segment of path below any storage root.
func sourceUnder(storage []string, path string) (string, bool) {
	for _, root := range storage {
		if !util.IsWithin(root, path) {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			continue
		}
		first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
		return first, true
	}
	return "", false
}
