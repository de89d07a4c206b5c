package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/skillcast/internal/config"
	"github.com/klauern/skillcast/internal/i18n"
	"github.com/klauern/skillcast/internal/linker"
	"github.com/klauern/skillcast/internal/lockfile"
	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/project"
	"github.com/klauern/skillcast/internal/registry"
	"github.com/klauern/skillcast/internal/ui"
	"github.com/klauern/skillcast/internal/util"
	"github.com/klauern/skillcast/internal/vcs"
)

// newFetcher builds the version-control client. Tests replace it.
var newFetcher = func() vcs.Fetcher { return vcs.NewGit() }

// interactive reports whether pickers may be shown. Tests replace it.
var interactive = ui.IsInteractive

// env is the per-invocation state shared by commands.
type env struct {
	cfg     *config.Config
	msg     *i18n.Printer
	storage string
	project *project.Project
	reg     *registry.Registry
}

type envKey struct{}

func newEnv(cmd *cli.Command, cfg *config.Config) (*env, error) {
	lang := cfg.Lang
	if v := cmd.String("lang"); v != "" {
		if _, err := i18n.Parse(v); err != nil {
			return nil, err
		}
		lang = v
	}

	root := cmd.String("project")
	if root == "" {
		wd, err := util.ProjectRoot()
		if err != nil {
			return nil, model.Wrap(model.KindInternal, "project root", err)
		}
		root = wd
	}
	root = util.ExpandPath(root, "")

	storage := util.SourcesPath()
	proj := project.New(root, storage, linker.New())
	logging.Debug("environment ready", logging.Path(root), "storage", storage)

	return &env{
		cfg:     cfg,
		msg:     i18n.New(lang),
		storage: storage,
		project: proj,
		reg:     registry.New(storage, newFetcher(), proj),
	}, nil
}

func withEnv(ctx context.Context, e *env) context.Context {
	return context.WithValue(ctx, envKey{}, e)
}

func envFrom(ctx context.Context) *env {
	e, _ := ctx.Value(envKey{}).(*env)
	return e
}

// t formats a localized message.
func (e *env) t(key string, args ...any) string {
	return e.msg.T(key, args...)
}

// commit stores the registry state in the config file.
func (e *env) commit(st model.State) error {
	e.cfg.SetState(st)
	if err := e.cfg.Save(); err != nil {
		return model.Wrap(model.KindInternal, config.FilePath(), err)
	}
	return nil
}

// withLock runs fn while holding the command lock. The config is read
// again under the lock so fn never saves over another command's change.
func (e *env) withLock(fn func() error) error {
	lock, err := lockfile.Acquire(util.LockFilePath())
	if err != nil {
		if errors.Is(err, lockfile.ErrAlreadyLocked) {
			return model.Wrap(model.KindConflict, util.LockFilePath(), err)
		}
		return model.Wrap(model.KindInternal, util.LockFilePath(), err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.Warn("failed to release lock", logging.Err(err))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg
	return fn()
}

// requireArg fails when an omitted argument cannot be asked for.
func (e *env) requireArg(command string) error {
	if interactive() {
		return nil
	}
	return model.Errorf(model.KindInvalid, command, "%s", e.t("error.needs.arg", command))
}

// warn prints a non-fatal problem.
func (e *env) warn(err error) {
	fmt.Println(ui.StatusWarning(e.t("warning", err)))
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: table, json, yaml (default from config)",
	}
}

// outputFormat returns the --format value or the configured default.
func (e *env) outputFormat(cmd *cli.Command) (string, error) {
	format := cmd.String("format")
	if format == "" {
		return e.cfg.Output.Format, nil
	}
	if !config.ValidFormat(format) {
		return "", model.Errorf(model.KindInvalid, format, "unsupported format (use table, json, or yaml)")
	}
	return format, nil
}

// outputAnyJSON outputs any value as JSON.
func outputAnyJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// outputAnyYAML outputs any value as YAML.
func outputAnyYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// outputStructured writes v as JSON or YAML.
func outputStructured(format string, v any) error {
	if format == config.FormatYAML {
		return outputAnyYAML(v)
	}
	return outputAnyJSON(v)
}
