package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillcast/internal/config"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/progress"
	"github.com/klauern/skillcast/internal/registry"
	"github.com/klauern/skillcast/internal/ui"
	"github.com/klauern/skillcast/internal/ui/tui"
	"github.com/klauern/skillcast/internal/vcs"
)

func sourceCommand() *cli.Command {
	return &cli.Command{
		Name:  "source",
		Usage: "Manage skill sources",
		Description: `Register git repositories or local directories that hold skills.

   Examples:
     skillcast source add https://github.com/acme/skills.git
     skillcast source add ~/work/my-skills --name mine
     skillcast source list --format json
     skillcast source sync`,
		Commands: []*cli.Command{
			sourceAddCommand(),
			sourceListCommand(),
			sourceRemoveCommand(),
			sourceSyncCommand(),
		},
	}
}

func sourceAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Register a git URL or local directory",
		UsageText: "skillcast source add <url|path> [--name NAME]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Source name (default: derived from the URL or directory)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e := envFrom(ctx)
			if cmd.Args().Len() != 1 {
				return model.Errorf(model.KindInvalid, "source add", "requires exactly one <url|path> argument")
			}
			input := strings.TrimSpace(cmd.Args().First())
			opts := registry.AddOptions{Name: cmd.String("name")}

			return e.withLock(func() error {
				st := e.cfg.State()
				var (
					next   model.State
					result registry.AddResult
					err    error
				)
				if vcs.IsRemote(input) {
					fmt.Println(ui.Info(e.t("source.cloning", input)))
					next, result, err = e.reg.AddRemote(ctx, st, input, opts)
				} else {
					next, result, err = e.reg.AddLocal(st, input, opts)
				}
				if err != nil {
					return err
				}
				for _, w := range result.Warnings {
					e.warn(w)
				}
				if err := e.commit(next); err != nil {
					return err
				}

				if result.Refreshed {
					fmt.Println(ui.StatusSuccess(e.t("source.refreshed", result.Source.Name)))
				} else {
					fmt.Println(ui.StatusSuccess(e.t("source.added", ui.Bold(result.Source.Name), result.Source.Origin)))
				}
				return nil
			})
		},
	}
}

// sourceEntry is the structured output of one source.
type sourceEntry struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

func sourceListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List registered sources",
		Flags:   []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e := envFrom(ctx)
			format, err := e.outputFormat(cmd)
			if err != nil {
				return err
			}

			if format != config.FormatTable {
				entries := make([]sourceEntry, 0, len(e.cfg.Sources))
				for _, src := range e.cfg.Sources {
					entry := sourceEntry{Name: src.Name, Type: src.Kind.String()}
					if src.IsRemote() {
						entry.URL = src.Origin
					} else {
						entry.Path = src.Origin
					}
					entries = append(entries, entry)
				}
				return outputStructured(format, map[string][]sourceEntry{"sources": entries})
			}

			fmt.Println(ui.Header(e.t("source.header")))
			if len(e.cfg.Sources) == 0 {
				fmt.Println(ui.Warning(e.t("source.none")))
				return nil
			}
			for _, src := range e.cfg.Sources {
				fmt.Printf("   %s %s %s\n", ui.SourceIcon(src.Kind), ui.Bold(src.Name), ui.Path("("+src.Origin+")"))
			}
			return nil
		},
	}
}

func sourceRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Unregister a source and remove its linked skills from the project",
		UsageText: "skillcast source remove [name]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e := envFrom(ctx)
			name := cmd.Args().First()
			if name == "" {
				if err := e.requireArg("source remove"); err != nil {
					return err
				}
				picked, err := e.pickSource(e.t("source.pick.rm"))
				if errors.Is(err, tui.ErrCanceled) {
					return nil
				}
				if err != nil {
					return err
				}
				name = picked
			}

			return e.withLock(func() error {
				fmt.Println(ui.Info(e.t("source.removing", name)))
				next, result, err := e.reg.Remove(e.cfg.State(), name)
				if err != nil {
					return err
				}
				for _, w := range result.Warnings {
					e.warn(w)
				}
				if err := e.commit(next); err != nil {
					return err
				}
				if len(result.Unlinked) > 0 {
					fmt.Println(ui.Warning(e.t("source.unlinked", len(result.Unlinked))))
				}
				fmt.Println(ui.StatusSuccess(e.t("source.removed", name)))
				return nil
			})
		},
	}
}

func sourceSyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Update git sources and re-link active skills",
		Flags: []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e := envFrom(ctx)
			format, err := e.outputFormat(cmd)
			if err != nil {
				return err
			}

			return e.withLock(func() error {
				st := e.cfg.State()
				structured := format != config.FormatTable
				if !structured {
					fmt.Println(ui.Header(e.t("sync.header")))
				}

				bar := progress.New(progress.Options{
					Max:         len(st.Sources),
					Description: "Syncing",
					Writer:      os.Stderr,
				})
				report := e.reg.Sync(ctx, st, registry.SyncOptions{
					OnSource: func(s registry.SourceStatus) { bar.Step(s.Name) },
				})
				if err := bar.Finish(); err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return model.Wrap(model.KindInternal, "source sync", err)
				}

				if structured {
					return outputStructured(format, report)
				}
				for _, s := range report.Sources {
					e.printSyncStatus(s)
				}
				for _, a := range report.Orphans {
					fmt.Println(ui.StatusWarning(e.t("sync.orphan", a.Key)))
				}
				for _, err := range report.Failures {
					e.warn(err)
				}
				fmt.Println(ui.StatusSuccess(e.t("sync.done", report.Relinked)))
				return nil
			})
		},
	}
}

func (e *env) printSyncStatus(s registry.SourceStatus) {
	switch s.Status {
	case registry.StatusUpdated:
		fmt.Println(ui.StatusSuccess(e.t("sync.updated", s.Name)))
	case registry.StatusFailed:
		fmt.Println(ui.StatusWarning(e.t("sync.failed", s.Name, s.Err)))
	case registry.StatusLocal:
		fmt.Println(ui.StatusSkipped(e.t("sync.local", s.Name)))
	case registry.StatusMissing:
		fmt.Println(ui.StatusError(e.t("sync.missing", s.Name)))
	}
}

// pickSource asks for one registered source.
func (e *env) pickSource(title string) (string, error) {
	if len(e.cfg.Sources) == 0 {
		return "", model.Errorf(model.KindNotFound, "sources", "%s", e.t("source.none"))
	}
	items := make([]tui.Item, 0, len(e.cfg.Sources))
	for _, src := range e.cfg.Sources {
		items = append(items, tui.Item{
			Label:  ui.SourceIcon(src.Kind) + " " + src.Name,
			Tag:    src.Kind.String(),
			Detail: src.Origin,
		})
	}
	idx, err := tui.Pick(title, items)
	if err != nil {
		return "", err
	}
	return e.cfg.Sources[idx].Name, nil
}
