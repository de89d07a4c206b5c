package registry

import (
	"context"
	"os"

	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/model"
)

// Status is the outcome of refreshing one source.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusFailed  Status = "failed"
	StatusLocal   Status = "local"
	StatusMissing Status = "missing"
)

// SourceStatus reports how one source was refreshed.
type SourceStatus struct {
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
	Err    error  `json:"-" yaml:"-"`
}

// Refresh pulls a remote source. Local sources need no refresh; they are
// only checked for a broken link. Fetch failures are returned in the status,
// not as an error.
func (r *Registry) Refresh(ctx context.Context, st model.State, name string) (SourceStatus, error) {
	src, ok := st.Get(name)
	if !ok {
		return SourceStatus{}, model.Errorf(model.KindNotFound, name, "source is not registered")
	}
	status := SourceStatus{Name: name}

	if _, err := os.Stat(r.Root(name)); err != nil {
		status.Status = StatusMissing
		status.Err = model.Wrap(model.KindNotFound, r.Root(name), err)
		logging.Warn("source storage missing", logging.Source(name), logging.Err(err))
		return status, nil
	}
	if !src.IsRemote() {
		status.Status = StatusLocal
		return status, nil
	}

	if err := r.Fetcher.Pull(ctx, r.Root(name)); err != nil {
		status.Status = StatusFailed
		status.Err = model.Wrap(model.KindOriginUnreachable, name, err)
		logging.Warn("pull failed", logging.Source(name), logging.Err(err))
		return status, nil
	}
	status.Status = StatusUpdated
	return status, nil
}

// SyncOptions configures Sync.
type SyncOptions struct {
	// OnSource is called after each source is refreshed.
	OnSource func(SourceStatus)
}

// SyncReport summarizes a sync.
type SyncReport struct {
	Sources []SourceStatus `json:"sources" yaml:"sources"`
	// Relinked counts activations placed again.
	Relinked int `json:"relinked" yaml:"relinked"`
	// Orphans are activations whose target no longer exists. They are left
	// in place.
	Orphans []model.Activation `json:"orphans,omitempty" yaml:"orphans,omitempty"`
	// Failures are activations that could not be placed again.
	Failures []error `json:"-" yaml:"-"`
}

// Sync refreshes every source and then places every linked activation of the
// project again, so links track their sources and hosts that lost link
// support get copies.
func (r *Registry) Sync(ctx context.Context, st model.State, opts SyncOptions) SyncReport {
	var report SyncReport
	for _, name := range st.Names() {
		if ctx.Err() != nil {
			break
		}
		status, err := r.Refresh(ctx, st, name)
		if err != nil {
			continue
		}
		report.Sources = append(report.Sources, status)
		if opts.OnSource != nil {
			opts.OnSource(status)
		}
	}

	if r.Project == nil {
		return report
	}
	for _, a := range r.Project.ListActive() {
		if a.Resolved == "" {
			logging.Warn("activation target missing", logging.Skill(a.Key), logging.Agent(a.Agent.String()))
			report.Orphans = append(report.Orphans, a)
			continue
		}
		if _, err := r.Linker.Place(a.Target, r.Project.DestPath(a), true); err != nil {
			report.Failures = append(report.Failures, err)
			continue
		}
		report.Relinked++
	}

	logging.Info("sync finished", logging.Count(report.Relinked))
	return report
}
