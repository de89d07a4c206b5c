package model

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// State is the persisted registry: an ordered mapping of source name to
// origin, plus user preferences. Methods never mutate the receiver.
type State struct {
	Lang    string
	Sources []Source
}

// Get returns the source registered under name.
func (s State) Get(name string) (Source, bool) {
	for _, src := range s.Sources {
		if src.Name == name {
			return src, true
		}
	}
	return Source{}, false
}

// Has reports whether name is registered.
func (s State) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// With returns a copy of the state with src added, replacing an entry of the
// same name in place so ordering is kept.
func (s State) With(src Source) State {
	out := s.clone()
	for i := range out.Sources {
		if out.Sources[i].Name == src.Name {
			out.Sources[i] = src
			return out
		}
	}
	out.Sources = append(out.Sources, src)
	return out
}

// Without returns a copy of the state with name removed.
func (s State) Without(name string) State {
	out := s.clone()
	out.Sources = slices.DeleteFunc(out.Sources, func(src Source) bool {
		return src.Name == name
	})
	return out
}

// Names returns registered source names in registration order.
func (s State) Names() []string {
	names := make([]string, 0, len(s.Sources))
	for _, src := range s.Sources {
		names = append(names, src.Name)
	}
	return names
}

func (s State) clone() State {
	return State{Lang: s.Lang, Sources: slices.Clone(s.Sources)}
}

// sourceEntry is the on-disk shape of one source. Git sources store "url",
// local sources store "path".
type sourceEntry struct {
	Type SourceKind `yaml:"type"`
	URL  string     `yaml:"url,omitempty"`
	Path string     `yaml:"path,omitempty"`
}

// MarshalSources encodes sources as an ordered YAML mapping node.
func MarshalSources(sources []Source) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, src := range sources {
		entry := sourceEntry{Type: src.Kind}
		if src.Kind == SourceRemote {
			entry.URL = src.Origin
		} else {
			entry.Path = src.Origin
		}
		var value yaml.Node
		if err := value.Encode(entry); err != nil {
			return nil, fmt.Errorf("failed to encode source %q: %w", src.Name, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: src.Name}
		node.Content = append(node.Content, key, &value)
	}
	return node, nil
}

// UnmarshalSources decodes an ordered YAML mapping node into sources.
func UnmarshalSources(node *yaml.Node) ([]Source, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: sources must be a mapping", node.Line)
	}
	sources := make([]Source, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if err := ValidateSourceName(name); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Content[i].Line, err)
		}
		var entry sourceEntry
		if err := node.Content[i+1].Decode(&entry); err != nil {
			return nil, fmt.Errorf("source %q: %w", name, err)
		}
		kind, err := ParseSourceKind(string(entry.Type))
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", name, err)
		}
		origin := entry.Path
		if kind == SourceRemote {
			origin = entry.URL
		}
		sources = append(sources, Source{Name: name, Kind: kind, Origin: origin})
	}
	return sources, nil
}
