// Package project manages the agent skill directories of one project:
// activating skills into them and reconstructing what is active from the
// links found there.
package project

import (
	"os"
	"path/filepath"

	"github.com/klauern/skillcast/internal/linker"
	"github.com/klauern/skillcast/internal/model"
)

// Project is a project root plus the registry storage area its links point into.
type Project struct {
	// Root is the project directory holding .claude, .gemini, .codex.
	Root string
	// Storage is the registry storage area (one entry per source).
	Storage string
	linker  *linker.Linker
}

// New returns a Project. A nil linker uses linker.New().
func New(root, storage string, l *linker.Linker) *Project {
	if l == nil {
		l = linker.New()
	}
	return &Project{Root: root, Storage: storage, linker: l}
}

// AgentRoot returns the agent folder, e.g. <root>/.claude.
func (p *Project) AgentRoot(agent model.Agent) string {
	return filepath.Join(p.Root, agent.Dir())
}

// SkillsDir returns the agent's skills directory, e.g. <root>/.claude/skills.
func (p *Project) SkillsDir(agent model.Agent) string {
	return filepath.Join(p.AgentRoot(agent), model.SkillsDirName)
}

// HasAgent reports whether the project opted into agent by having its folder.
func (p *Project) HasAgent(agent model.Agent) bool {
	info, err := os.Stat(p.AgentRoot(agent))
	return err == nil && info.IsDir()
}

// DetectAgents returns the agents whose folder exists in the project.
func (p *Project) DetectAgents() []model.Agent {
	var agents []model.Agent
	for _, agent := range model.AllAgents() {
		if p.HasAgent(agent) {
			agents = append(agents, agent)
		}
	}
	return agents
}

// Linker returns the link-or-copy strategy used for placements.
func (p *Project) Linker() *linker.Linker {
	return p.linker
}
