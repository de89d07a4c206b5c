package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillcast/internal/config"
	"github.com/klauern/skillcast/internal/discovery"
	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/project"
	"github.com/klauern/skillcast/internal/ui"
	"github.com/klauern/skillcast/internal/ui/tui"
)

// sourceSkills is the structured discover output for one source.
type sourceSkills struct {
	Source string        `json:"source" yaml:"source"`
	Skills []model.Skill `json:"skills" yaml:"skills"`
}

func discoverCommand() *cli.Command {
	return &cli.Command{
		Name:      "discover",
		Usage:     "List the skills of one or all registered sources",
		UsageText: "skillcast discover [source]",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e := envFrom(ctx)
			format, err := e.outputFormat(cmd)
			if err != nil {
				return err
			}

			sources := e.cfg.Sources
			if name := cmd.Args().First(); name != "" {
				src, ok := e.cfg.State().Get(name)
				if !ok {
					return model.Errorf(model.KindNotFound, name, "source is not registered")
				}
				sources = []model.Source{src}
			}

			var out []sourceSkills
			for _, src := range sources {
				skills, err := discovery.DiscoverSource(e.storage, src)
				if err != nil {
					if len(sources) == 1 {
						return err
					}
					e.warn(err)
					continue
				}
				out = append(out, sourceSkills{Source: src.Name, Skills: skills})
			}

			if format != config.FormatTable {
				return outputStructured(format, map[string][]sourceSkills{"sources": out})
			}
			if len(sources) == 0 {
				fmt.Println(ui.Warning(e.t("source.none")))
				return nil
			}
			for _, group := range out {
				e.printSkills(group)
			}
			return nil
		},
	}
}

func (e *env) printSkills(group sourceSkills) {
	if len(group.Skills) == 0 {
		fmt.Println(ui.Warning(e.t("discover.none", group.Source)))
		return
	}
	fmt.Println(ui.Header(e.t("discover.header", group.Source)))
	for _, s := range group.Skills {
		line := fmt.Sprintf("   %s %s", s.Name, ui.Dim("["+s.LocationTag()+"]"))
		if s.Description != "" {
			line += "  " + ui.Dim(s.Description)
		}
		fmt.Println(line)
	}
}

func useCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Usage:     "Activate skills in the current project",
		UsageText: "skillcast use [source[/skill]] [--claude] [--gemini] [--codex] [--copy]",
		Description: `Link a skill from a registered source into the project's agent folders.
   Only agents whose folder (.claude, .gemini, .codex) exists in the project
   are targeted. Without a skill, pickers are shown in a terminal.

   Examples:
     skillcast use demo/foo
     skillcast use demo/group/deep --claude
     skillcast use demo --copy`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "claude", Usage: "Activate for Claude"},
			&cli.BoolFlag{Name: "gemini", Usage: "Activate for Gemini"},
			&cli.BoolFlag{Name: "codex", Usage: "Activate for Codex"},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the skill instead of linking it",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e := envFrom(ctx)
			agents := agentFlags(cmd)

			reqs, err := e.useRequests(cmd.Args().First(), agents)
			if errors.Is(err, tui.ErrCanceled) {
				return nil
			}
			if err != nil {
				return err
			}

			copyFlag := cmd.Bool("copy")
			return e.withLock(func() error {
				var errs []error
				for _, req := range reqs {
					req.Copy = copyFlag
					if err := e.activate(req); err != nil {
						errs = append(errs, err)
					}
				}
				return errors.Join(errs...)
			})
		},
	}
}

// agentFlags returns the agents selected with --claude, --gemini and --codex.
func agentFlags(cmd *cli.Command) []model.Agent {
	var agents []model.Agent
	for _, a := range model.AllAgents() {
		if cmd.Bool(a.String()) {
			agents = append(agents, a)
		}
	}
	return agents
}

// useRequests turns the use argument into activation requests, asking for
// whatever is missing.
func (e *env) useRequests(arg string, agents []model.Agent) ([]project.ActivateRequest, error) {
	sourceName, skill, _ := model.SplitKey(arg)
	if arg != "" && skill != "" {
		if !e.cfg.State().Has(sourceName) {
			return nil, model.Errorf(model.KindNotFound, sourceName, "source is not registered")
		}
		return []project.ActivateRequest{{Source: sourceName, Skill: skill, Agents: agents}}, nil
	}

	if err := e.requireArg("use"); err != nil {
		return nil, err
	}
	if arg == "" {
		picked, err := e.pickSource(e.t("source.pick"))
		if err != nil {
			return nil, err
		}
		sourceName = picked
	} else {
		sourceName = strings.TrimSuffix(arg, "/")
	}

	src, ok := e.cfg.State().Get(sourceName)
	if !ok {
		return nil, model.Errorf(model.KindNotFound, sourceName, "source is not registered")
	}
	skills, err := discovery.DiscoverSource(e.storage, src)
	if err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return nil, model.Errorf(model.KindNotFound, sourceName, "%s", e.t("use.noskills", sourceName))
	}

	items := make([]tui.Item, 0, len(skills))
	for _, s := range skills {
		items = append(items, tui.Item{Label: s.Name, Tag: s.LocationTag(), Detail: s.Description})
	}
	picked, err := tui.PickMany(e.t("use.pick", sourceName), items)
	if err != nil {
		return nil, err
	}

	if len(agents) == 0 {
		agents, err = e.pickAgents()
		if err != nil {
			return nil, err
		}
	}

	reqs := make([]project.ActivateRequest, 0, len(picked))
	for _, i := range picked {
		reqs = append(reqs, project.ActivateRequest{
			Source: sourceName,
			Skill:  skills[i].Name,
			Path:   skills[i].Path,
			Agents: agents,
		})
	}
	return reqs, nil
}

// pickAgents asks which of the project's agents to target when there is a
// choice to make.
func (e *env) pickAgents() ([]model.Agent, error) {
	detected := e.project.DetectAgents()
	if len(detected) < 2 {
		return detected, nil
	}
	items := make([]tui.Item, 0, len(detected))
	all := make([]int, 0, len(detected))
	for i, a := range detected {
		items = append(items, tui.Item{Label: ui.AgentLabel(a), Detail: e.project.SkillsDir(a)})
		all = append(all, i)
	}
	picked, err := tui.PickMany(e.t("use.agents"), items, all...)
	if err != nil {
		return nil, err
	}
	agents := make([]model.Agent, 0, len(picked))
	for _, i := range picked {
		agents = append(agents, detected[i])
	}
	return agents, nil
}

// activate runs one activation and prints its per-agent outcome.
func (e *env) activate(req project.ActivateRequest) error {
	result, err := e.project.Activate(req)
	for _, ar := range result.Agents {
		dir := e.project.SkillsDir(ar.Agent)
		switch {
		case ar.Err != nil:
			fmt.Println(ui.StatusError(e.t("use.failed", result.Key, ui.AgentLabel(ar.Agent), ar.Err)))
		case ar.Outcome == project.OutcomeLinked:
			fmt.Println(ui.StatusSuccess(e.t("use.linked", result.Key, dir)))
		case ar.Outcome == project.OutcomeCopied:
			fmt.Println(ui.StatusSuccess(e.t("use.copied", result.Key, dir)))
		case ar.Outcome == project.OutcomeAlreadyPresent:
			fmt.Println(ui.StatusWarning(e.t("use.present", result.Key, dir)))
		case ar.Outcome == project.OutcomeAgentAbsent && len(req.Agents) > 0:
			fmt.Println(ui.StatusSkipped(e.t("use.absent", ar.Agent.Dir())))
		case ar.Outcome == project.OutcomeAgentAbsent:
			logging.Debug("agent folder absent", logging.Agent(ar.Agent.String()))
		}
	}
	if err != nil {
		return err
	}
	fmt.Println(ui.StatusSuccess(e.t("use.done", ui.Bold(result.Key), result.Count())))
	return nil
}

// activeEntry is the structured output of one project skill.
type activeEntry struct {
	Agent  model.Agent `json:"agent" yaml:"agent"`
	Name   string      `json:"name" yaml:"name"`
	Key    string      `json:"key" yaml:"key"`
	Source string      `json:"source,omitempty" yaml:"source,omitempty"`
	Linked bool        `json:"linked" yaml:"linked"`
	Target string      `json:"target,omitempty" yaml:"target,omitempty"`
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the skills active in the current project",
		Flags:   []cli.Flag{formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e := envFrom(ctx)
			format, err := e.outputFormat(cmd)
			if err != nil {
				return err
			}
			entries := e.project.ListEntries()

			if format != config.FormatTable {
				out := make([]activeEntry, 0, len(entries))
				for _, a := range entries {
					entry := activeEntry{Agent: a.Agent, Name: a.Name, Key: a.Key, Linked: a.Linked, Target: a.Target}
					if a.IsTracked() {
						entry.Source = a.SourceName()
					}
					out = append(out, entry)
				}
				return outputStructured(format, map[string][]activeEntry{"skills": out})
			}

			if len(entries) == 0 {
				fmt.Println(ui.Warning(e.t("list.none")))
				return nil
			}
			fmt.Println(ui.Header(e.t("list.header")))
			for _, agent := range model.AllAgents() {
				group := slices.DeleteFunc(slices.Clone(entries), func(a model.Activation) bool {
					return a.Agent != agent
				})
				if len(group) == 0 {
					continue
				}
				fmt.Println(ui.Bold(e.t("list.agent", ui.AgentLabel(agent), e.project.SkillsDir(agent))))
				for _, a := range group {
					fmt.Printf("   %s %s %s\n", ui.StatusSuccess(""), a.Name, e.entryOrigin(a))
				}
			}
			return nil
		},
	}
}

// entryOrigin describes where an active entry comes from.
func (e *env) entryOrigin(a model.Activation) string {
	switch {
	case !a.Linked:
		return ui.Warning(e.t("list.copy"))
	case a.IsTracked():
		return ui.Path(e.t("list.linked", a.SourceName()))
	case a.Target != "":
		return ui.Path(e.t("list.linked", a.Target))
	default:
		return ""
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove an active skill from the project",
		UsageText: "skillcast remove [source/skill|name] [--agent AGENT] [--force]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "agent",
				Aliases: []string{"a"},
				Usage:   "Only remove the skill for this agent (claude, gemini, codex)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Also delete copies, whose origin cannot be verified",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e := envFrom(ctx)
			var agent model.Agent
			if v := cmd.String("agent"); v != "" {
				a, err := model.ParseAgent(v)
				if err != nil {
					return model.Wrap(model.KindInvalid, v, err)
				}
				agent = a
			}

			targets, err := e.removeTargets(cmd.Args().First(), agent)
			if errors.Is(err, tui.ErrCanceled) {
				return nil
			}
			if err != nil {
				return err
			}

			force := cmd.Bool("force")
			return e.withLock(func() error {
				var errs []error
				for _, a := range targets {
					dir := e.project.SkillsDir(a.Agent)
					if err := e.project.RemoveActivation(a.Agent, a.Name, force); err != nil {
						if model.KindOf(err) == model.KindAmbiguousOrigin {
							fmt.Println(ui.StatusWarning(e.t("remove.force", a.Name, dir)))
						}
						errs = append(errs, err)
						continue
					}
					fmt.Println(ui.StatusSuccess(e.t("remove.done", a.Key, dir)))
				}
				return errors.Join(errs...)
			})
		},
	}
}

// removeTargets finds the entries named by query, or asks for them.
func (e *env) removeTargets(query string, agent model.Agent) ([]model.Activation, error) {
	if query != "" {
		matches := e.project.FindActive(query, agent)
		if len(matches) == 0 {
			return nil, model.Errorf(model.KindNotFound, query, "skill is not active in this project")
		}
		return matches, nil
	}

	if err := e.requireArg("remove"); err != nil {
		return nil, err
	}
	var entries []model.Activation
	for _, a := range e.project.ListEntries() {
		if agent == "" || a.Agent == agent {
			entries = append(entries, a)
		}
	}
	if len(entries) == 0 {
		return nil, model.Errorf(model.KindNotFound, "project", "%s", e.t("remove.none"))
	}

	items := make([]tui.Item, 0, len(entries))
	for _, a := range entries {
		items = append(items, tui.Item{Label: a.Key, Tag: a.Agent.String(), Detail: e.project.DestPath(a)})
	}
	picked, err := tui.PickMany(e.t("remove.pick"), items)
	if err != nil {
		return nil, err
	}
	out := make([]model.Activation, 0, len(picked))
	for _, i := range picked {
		out = append(out, entries[i])
	}
	return out, nil
}
