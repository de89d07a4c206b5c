package model

import "strings"

// LocalKeyPrefix prefixes keys of activations that do not resolve into the
// registry storage area.
const LocalKeyPrefix = "local"

// Skill is a directory containing the manifest file, found under a source root.
// Skills are recomputed on every discovery and never persisted.
type Skill struct {
	// Name is the directory's base name.
	Name string `json:"name"`
	// Path is the absolute directory path as found during discovery.
	Path string `json:"path"`
	// Location is the agent label for skills found in an agent folder, or the
	// slash-separated parent path relative to the source root ("" at top level).
	Location string `json:"location"`
	// Agent is set for skills found in an agent folder.
	Agent Agent `json:"agent,omitempty"`
	// Description is the manifest's one-line description, if any.
	Description string `json:"description,omitempty"`
}

// LocationTag returns the label shown next to the skill: the agent name for
// agent folders, otherwise the parent path rooted at "/".
func (s Skill) LocationTag() string {
	if s.Agent != "" {
		return s.Agent.String()
	}
	return "/" + s.Location
}

// Activation is an entry inside an agent's project skills directory.
type Activation struct {
	Agent Agent  `json:"agent"`
	Name  string `json:"name"`
	// Key is "<source>/<skill>" for links into storage, "local/<name>" otherwise.
	Key string `json:"key"`
	// Target is the absolute path the link points at, as written in the link.
	// Empty for copies.
	Target string `json:"target,omitempty"`
	// Resolved is Target with every symlink resolved. Empty when the link
	// dangles or for copies.
	Resolved string `json:"resolved,omitempty"`
	// Linked is false for plain directories (explicit copies or link fallbacks).
	Linked bool `json:"linked"`
}

// SourceName returns the source part of the key, or "local".
func (a Activation) SourceName() string {
	source, _, _ := strings.Cut(a.Key, "/")
	return source
}

// IsTracked reports whether the activation resolves into a registered source.
func (a Activation) IsTracked() bool {
	return a.Linked && a.SourceName() != LocalKeyPrefix
}

// BelongsTo reports whether the activation's key is scoped to source.
func (a Activation) BelongsTo(source string) bool {
	return a.IsTracked() && strings.HasPrefix(a.Key, source+"/")
}

// SkillKey builds the "<source>/<skill>" identity.
func SkillKey(source, skill string) string {
	return source + "/" + skill
}

// LocalKey builds the "local/<name>" identity.
func LocalKey(name string) string {
	return LocalKeyPrefix + "/" + name
}

// SplitKey splits "<source>/<skill>". Skill names may contain further slashes.
func SplitKey(key string) (source, skill string, ok bool) {
	source, skill, ok = strings.Cut(key, "/")
	if !ok || source == "" || skill == "" {
		return "", "", false
	}
	return source, skill, true
}
