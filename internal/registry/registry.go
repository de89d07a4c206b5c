// Package registry maintains the set of registered skill sources and their
// working copies in the storage area. Operations take the current state and
// return the next one; persisting it is left to the caller.
package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/klauern/skillcast/internal/linker"
	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/project"
	"github.com/klauern/skillcast/internal/util"
	"github.com/klauern/skillcast/internal/vcs"
)

// Registry operates on the storage area. Project is optional; when nil,
// removing a source does not touch any project.
type Registry struct {
	Storage string
	Fetcher vcs.Fetcher
	Project *project.Project
	Linker  *linker.Linker
}

// New returns a Registry. A nil fetcher uses git, and the linker is taken
// from the project when one is given.
func New(storage string, fetcher vcs.Fetcher, proj *project.Project) *Registry {
	if fetcher == nil {
		fetcher = vcs.NewGit()
	}
	l := linker.New()
	if proj != nil {
		l = proj.Linker()
	}
	return &Registry{Storage: storage, Fetcher: fetcher, Project: proj, Linker: l}
}

// AddOptions customizes source registration.
type AddOptions struct {
	// Name overrides the derived source name.
	Name string
}

// AddResult describes a registration.
type AddResult struct {
	Source model.Source
	// Refreshed is true when the origin was already registered and was
	// updated instead of fetched.
	Refreshed bool
	// Warnings are non-fatal problems, such as a failed pull.
	Warnings []error
}

// Root returns the storage directory of a source.
func (r *Registry) Root(name string) string {
	return filepath.Join(r.Storage, name)
}

// AddRemote registers a git origin by cloning it into storage. When the
// same origin is already registered, it is pulled instead and a pull failure
// is reported as a warning.
func (r *Registry) AddRemote(ctx context.Context, st model.State, origin string, opts AddOptions) (model.State, AddResult, error) {
	name := opts.Name
	if name == "" {
		name = vcs.RepoName(origin)
	}
	if err := model.ValidateSourceName(name); err != nil {
		return st, AddResult{}, err
	}
	src := model.Source{Name: name, Kind: model.SourceRemote, Origin: origin}
	result := AddResult{Source: src}
	log := logging.With(logging.Source(name))

	if existing, ok := st.Get(name); ok {
		if err := checkSameOrigin(existing, src); err != nil {
			return st, result, err
		}
		if _, err := os.Stat(r.Root(name)); err == nil {
			result.Refreshed = true
			if err := r.Fetcher.Pull(ctx, r.Root(name)); err != nil {
				warn := model.Wrap(model.KindOriginUnreachable, name, err)
				log.Warn("pull failed", logging.Err(err))
				result.Warnings = append(result.Warnings, warn)
			}
			return st, result, nil
		}
		log.Info("working copy missing, cloning again")
	} else if err := r.checkStorageFree(name); err != nil {
		return st, result, err
	}

	if err := os.MkdirAll(r.Storage, 0o750); err != nil {
		return st, result, model.Wrap(model.KindInternal, r.Storage, err)
	}
	if err := r.Fetcher.Clone(ctx, origin, r.Root(name)); err != nil {
		if rmErr := linker.Remove(r.Root(name)); rmErr != nil {
			log.Warn("failed to remove partial clone", logging.Err(rmErr))
		}
		return st, result, model.Wrap(model.KindOriginUnreachable, origin, err)
	}

	log.Info("cloned source", logging.Path(r.Root(name)))
	return st.With(src), result, nil
}

// AddLocal registers a local directory by linking storage/<name> to its
// canonical path. Registering the same directory again replaces the link.
func (r *Registry) AddLocal(st model.State, path string, opts AddOptions) (model.State, AddResult, error) {
	canonical, err := util.CanonicalPath(util.ExpandPath(path, ""))
	if err != nil {
		return st, AddResult{}, model.Wrap(model.KindNotFound, path, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return st, AddResult{}, model.Wrap(model.KindNotFound, canonical, err)
	}
	if !info.IsDir() {
		return st, AddResult{}, model.Errorf(model.KindInvalid, canonical, "not a directory")
	}
	if storage, err := util.CanonicalPath(r.Storage); err == nil && util.IsWithin(storage, canonical) {
		return st, AddResult{}, model.Errorf(model.KindInvalid, canonical, "path is inside the skillcast storage area")
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(canonical)
	}
	if err := model.ValidateSourceName(name); err != nil {
		return st, AddResult{}, err
	}
	src := model.Source{Name: name, Kind: model.SourceLocal, Origin: canonical}
	result := AddResult{Source: src}

	if existing, ok := st.Get(name); ok {
		if err := checkSameOrigin(existing, src); err != nil {
			return st, result, err
		}
		result.Refreshed = true
	} else if err := r.checkStorageFree(name); err != nil {
		return st, result, err
	}

	if err := os.MkdirAll(r.Storage, 0o750); err != nil {
		return st, result, model.Wrap(model.KindInternal, r.Storage, err)
	}
	if err := r.Linker.Link(canonical, r.Root(name)); err != nil {
		return st, result, err
	}

	logging.Info("linked local source", logging.Source(name), logging.Path(canonical))
	return st.With(src), result, nil
}

// RemoveResult lists what removing a source cleaned up.
type RemoveResult struct {
	Source model.Source
	// Unlinked are the project activations removed with the source.
	Unlinked []model.Activation
	Warnings []error
}

// Remove unregisters a source. Every linked activation in the project that
// belongs to it is removed first, then its storage entry. Copies are left
// alone since their origin cannot be verified.
func (r *Registry) Remove(st model.State, name string) (model.State, RemoveResult, error) {
	src, ok := st.Get(name)
	if !ok {
		return st, RemoveResult{}, model.Errorf(model.KindNotFound, name, "source is not registered")
	}
	result := RemoveResult{Source: src}
	if err := r.checkRoot(name); err != nil {
		return st, result, err
	}

	if r.Project != nil {
		for _, a := range r.Project.ListActive() {
			if !a.BelongsTo(name) {
				continue
			}
			if err := r.Project.RemoveActivation(a.Agent, a.Name, false); err != nil {
				logging.Warn("failed to remove activation", logging.Skill(a.Key), logging.Err(err))
				result.Warnings = append(result.Warnings, err)
				continue
			}
			result.Unlinked = append(result.Unlinked, a)
		}
	}

	if err := linker.Remove(r.Root(name)); err != nil {
		return st, result, model.Wrap(model.KindInternal, r.Root(name), err)
	}

	logging.Info("removed source", logging.Source(name), logging.Count(len(result.Unlinked)))
	return st.Without(name), result, nil
}

// checkRoot refuses names whose storage entry would fall outside storage.
func (r *Registry) checkRoot(name string) error {
	if err := model.ValidateSourceName(name); err != nil {
		return err
	}
	root := r.Root(name)
	if root == filepath.Clean(r.Storage) || !util.IsWithin(r.Storage, root) {
		return model.Errorf(model.KindInvalid, name, "resolves outside the storage area")
	}
	return nil
}

// checkSameOrigin fails with a conflict when name is already taken by a
// different origin.
func checkSameOrigin(existing, incoming model.Source) error {
	if existing.Kind == incoming.Kind && existing.Origin == incoming.Origin {
		return nil
	}
	return model.Errorf(model.KindConflict, existing.Name,
		"already registered for %s; choose another name with --name", existing.Origin)
}

// checkStorageFree fails when an unregistered entry occupies storage/<name>.
func (r *Registry) checkStorageFree(name string) error {
	if _, err := os.Lstat(r.Root(name)); err == nil {
		return model.Errorf(model.KindConflict, r.Root(name),
			"storage entry exists but is not registered; remove it or choose another name with --name")
	} else if !errors.Is(err, os.ErrNotExist) {
		return model.Wrap(model.KindInternal, r.Root(name), err)
	}
	return nil
}
