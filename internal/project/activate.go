package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauern/skillcast/internal/linker"
	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/manifest"
	"github.com/klauern/skillcast/internal/model"
)

// ErrNoEligibleTargets is returned when none of the requested agents has a
// folder in the project.
var ErrNoEligibleTargets = errors.New("no eligible agent directories in project")

// Outcome describes what activation did for one agent.
type Outcome int

const (
	OutcomeLinked Outcome = iota
	OutcomeCopied
	OutcomeAgentAbsent
	OutcomeAlreadyPresent
)

// String returns a short label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeLinked:
		return "linked"
	case OutcomeCopied:
		return "copied"
	case OutcomeAgentAbsent:
		return "agent absent"
	case OutcomeAlreadyPresent:
		return "already present"
	default:
		return "unknown"
	}
}

// Installed reports whether the outcome populated the agent directory.
func (o Outcome) Installed() bool {
	return o == OutcomeLinked || o == OutcomeCopied
}

// ActivateRequest names the skill to activate and where.
type ActivateRequest struct {
	Source string
	// Skill is the skill name, optionally a slash path below the source root.
	Skill string
	// Path is the skill directory; resolved from Source and Skill when empty.
	Path string
	// Agents restricts the targets; empty means all agents.
	Agents []model.Agent
	// Copy forces a full copy instead of a link.
	Copy bool
}

// AgentResult is the outcome for one target agent.
type AgentResult struct {
	Agent   model.Agent
	Outcome Outcome
	Dest    string
	Err     error
}

// ActivateResult summarizes an activation across agents.
type ActivateResult struct {
	Key     string
	Path    string
	Targets []model.Agent
	Agents  []AgentResult
}

// Count returns the number of agents actually populated.
func (r ActivateResult) Count() int {
	n := 0
	for _, a := range r.Agents {
		if a.Outcome.Installed() && a.Err == nil {
			n++
		}
	}
	return n
}

// Conflicts returns the agents skipped because an entry already existed.
func (r ActivateResult) Conflicts() []AgentResult {
	var out []AgentResult
	for _, a := range r.Agents {
		if a.Outcome == OutcomeAlreadyPresent {
			out = append(out, a)
		}
	}
	return out
}

// Activate materializes a skill into the project's agent directories. Agents
// without a project folder are skipped, and an existing entry of the same
// name is never overwritten. The result is returned even when err is set.
func (p *Project) Activate(req ActivateRequest) (ActivateResult, error) {
	name := filepath.Base(filepath.FromSlash(req.Skill))
	result := ActivateResult{
		Key:     model.SkillKey(req.Source, name),
		Targets: targetAgents(req.Agents),
	}

	path := req.Path
	if path == "" {
		if !filepath.IsLocal(filepath.FromSlash(req.Skill)) {
			return result, model.Errorf(model.KindInvalid, req.Skill, "skill path must stay inside the source")
		}
		resolved, err := ResolveSkillPath(filepath.Join(p.Storage, req.Source), req.Skill)
		if err != nil {
			return result, model.Wrap(model.KindNotFound, result.Key, err)
		}
		path = resolved
	} else if _, err := os.Stat(path); err != nil {
		return result, model.Wrap(model.KindNotFound, result.Key, err)
	}
	result.Path = path

	var errs []error
	for _, agent := range result.Targets {
		ar := p.activateFor(agent, name, path, req.Copy)
		if ar.Err != nil {
			errs = append(errs, ar.Err)
		}
		result.Agents = append(result.Agents, ar)
	}

	if err := errors.Join(errs...); err != nil {
		return result, err
	}
	if result.Count() > 0 {
		return result, nil
	}
	if conflicts := result.Conflicts(); len(conflicts) > 0 {
		return result, model.Errorf(model.KindConflict, result.Key, "already present in %s", dirList(conflicts))
	}
	return result, model.Wrap(model.KindNotFound, agentDirList(result.Targets), ErrNoEligibleTargets)
}

func (p *Project) activateFor(agent model.Agent, name, path string, forceCopy bool) AgentResult {
	ar := AgentResult{Agent: agent, Dest: filepath.Join(p.SkillsDir(agent), name)}
	log := logging.With(logging.Agent(agent.String()), logging.Skill(name))

	if !p.HasAgent(agent) {
		ar.Outcome = OutcomeAgentAbsent
		log.Debug("agent folder absent, skipping")
		return ar
	}
	if err := os.MkdirAll(p.SkillsDir(agent), 0o750); err != nil {
		ar.Err = model.Wrap(model.KindInternal, p.SkillsDir(agent), err)
		return ar
	}
	if _, err := os.Lstat(ar.Dest); err == nil {
		ar.Outcome = OutcomeAlreadyPresent
		log.Warn("skill already present, skipping", logging.Path(ar.Dest))
		return ar
	}

	if forceCopy {
		ar.Outcome = OutcomeCopied
		ar.Err = p.linker.Copy(path, ar.Dest, true)
	} else {
		method, err := p.linker.Place(path, ar.Dest, true)
		ar.Outcome = OutcomeLinked
		if method == linker.MethodCopy {
			ar.Outcome = OutcomeCopied
		}
		ar.Err = err
	}
	if ar.Err == nil {
		log.Info("activated skill", logging.Path(ar.Dest), logging.Operation(ar.Outcome.String()))
	}
	return ar
}

// ResolveSkillPath looks in each agent folder of the source root and then the
// root itself for skill, returning the first directory holding a manifest.
// Paths that leave the source root are refused.
func ResolveSkillPath(sourceRoot, skill string) (string, error) {
	rel := filepath.FromSlash(skill)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("skill %q is not a path inside %s", skill, sourceRoot)
	}
	candidates := make([]string, 0, len(model.AllAgents())+1)
	for _, agent := range model.AllAgents() {
		candidates = append(candidates, filepath.Join(sourceRoot, agent.Dir(), model.SkillsDirName, rel))
	}
	candidates = append(candidates, filepath.Join(sourceRoot, rel))

	for _, candidate := range candidates {
		if manifest.Exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("skill %q not found under %s", skill, sourceRoot)
}

// targetAgents returns the requested agents in canonical order, or all agents.
func targetAgents(requested []model.Agent) []model.Agent {
	if len(requested) == 0 {
		return model.AllAgents()
	}
	var out []model.Agent
	for _, agent := range model.AllAgents() {
		if slices.Contains(requested, agent) {
			out = append(out, agent)
		}
	}
	return out
}

func agentDirList(agents []model.Agent) string {
	dirs := make([]string, 0, len(agents))
	for _, a := range agents {
		dirs = append(dirs, a.Dir())
	}
	return "[" + strings.Join(dirs, ", ") + "]"
}

func dirList(results []AgentResult) string {
	agents := make([]model.Agent, 0, len(results))
	for _, r := range results {
		agents = append(agents, r.Agent)
	}
	return agentDirList(agents)
}
