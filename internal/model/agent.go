// Package model provides data types for skillcast.
package model

import (
	"fmt"
	"strings"
)

// Agent identifies an AI coding agent that reads skills from a project-local
// directory named after it (".claude/skills", ".gemini/skills", ...).
type Agent string

const (
	Claude Agent = "claude"
	Gemini Agent = "gemini"
	Codex  Agent = "codex"
)

// SkillsDirName is the directory below an agent folder that holds skills.
const SkillsDirName = "skills"

// AllAgents returns every supported agent in lookup order.
func AllAgents() []Agent {
	return []Agent{Claude, Gemini, Codex}
}

// IsValid returns true if the agent is recognized.
func (a Agent) IsValid() bool {
	switch a {
	case Claude, Gemini, Codex:
		return true
	default:
		return false
	}
}

// String returns the agent label.
func (a Agent) String() string {
	return string(a)
}

// Dir returns the hidden folder name for the agent, e.g. ".claude".
func (a Agent) Dir() string {
	return "." + string(a)
}

// SkillsSubpath returns the agent's skills directory relative to a root,
// e.g. ".claude/skills".
func (a Agent) SkillsSubpath() string {
	return a.Dir() + "/" + SkillsDirName
}

// ParseAgent parses an agent label case-insensitively. A leading dot is
// tolerated so ".claude" and "claude" are equivalent.
func ParseAgent(s string) (Agent, error) {
	normalized := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	a := Agent(normalized)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown agent %q (valid: %s)", s, agentList())
	}
	return a, nil
}

// IsReservedSegment reports whether a path segment is one of the agent folders.
func IsReservedSegment(seg string) bool {
	for _, a := range AllAgents() {
		if seg == a.Dir() {
			return true
		}
	}
	return false
}

func agentList() string {
	names := make([]string, 0, len(AllAgents()))
	for _, a := range AllAgents() {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}
