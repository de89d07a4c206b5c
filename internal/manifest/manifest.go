// Package manifest recognizes skill directories by their SKILL.md manifest
// and reads the manifest's frontmatter for display.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest that marks a directory as a skill. Matching is
// case-sensitive.
const FileName = "SKILL.md"

// Exists reports whether dir directly contains a manifest file.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && !info.IsDir()
}

// Info is the subset of frontmatter skillcast displays.
type Info struct {
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description" toml:"description"`
}

// Read parses the manifest in dir. A manifest without frontmatter yields an
// empty Info and no error.
func Read(dir string) (Info, error) {
	// #nosec G304 - dir comes from discovery under a registered source
	content, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return Info{}, err
	}
	return Parse(content)
}

// Parse extracts Info from manifest content. "---" delimits YAML frontmatter,
// "+++" delimits TOML.
func Parse(content []byte) (Info, error) {
	fm, delim, ok := splitFrontmatter(content)
	if !ok || len(bytes.TrimSpace(fm)) == 0 {
		return Info{}, nil
	}

	var info Info
	switch delim {
	case "+++":
		if _, err := toml.Decode(string(fm), &info); err != nil {
			return Info{}, fmt.Errorf("failed to parse TOML frontmatter: %w", err)
		}
	default:
		if err := yaml.Unmarshal(fm, &info); err != nil {
			return Info{}, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
		}
	}
	info.Description = firstLine(info.Description)
	return info, nil
}

// Summary returns the one-line description of the skill in dir, or "" when
// the manifest is unreadable or has none.
func Summary(dir string) string {
	info, err := Read(dir)
	if err != nil {
		return ""
	}
	return info.Description
}

// splitFrontmatter returns the bytes between an opening delimiter line and the
// next line holding the same delimiter.
func splitFrontmatter(content []byte) ([]byte, string, bool) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	for _, delim := range []string{"---", "+++"} {
		opening := delim + "\n"
		if !bytes.HasPrefix(content, []byte(opening)) {
			continue
		}
		rest := content[len(opening):]
		if bytes.HasPrefix(rest, []byte(delim)) {
			return []byte{}, delim, true
		}
		idx := bytes.Index(rest, []byte("\n"+delim))
		if idx == -1 {
			return nil, "", false
		}
		return rest[:idx], delim, true
	}
	return nil, "", false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if line, _, found := strings.Cut(s, "\n"); found {
		return strings.TrimSpace(line)
	}
	return s
}
