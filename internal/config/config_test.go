package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/skillcast/internal/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if cfg.Lang != "en" {
		t.Errorf("expected Lang to be 'en', got %q", cfg.Lang)
	}

	// Check output defaults
	if cfg.Output.Format != "table" {
		t.Errorf("expected Output.Format to be 'table', got %q", cfg.Output.Format)
	}
	if cfg.Output.Color != "auto" {
		t.Errorf("expected Output.Color to be 'auto', got %q", cfg.Output.Color)
	}
	if len(cfg.Sources) != 0 {
		t.Errorf("expected no sources, got %d", len(cfg.Sources))
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.Lang = "ko"
	cfg.Output.Format = "json"
	cfg.Sources = []model.Source{
		{Name: "zeta", Kind: model.SourceRemote, Origin: "https://example.com/zeta.git"},
		{Name: "alpha", Kind: model.SourceLocal, Origin: "/abs/alpha"},
		{Name: "mid", Kind: model.SourceRemote, Origin: "git@example.com:team/mid.git"},
	}

	if err := cfg.SaveToPath(configPath); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}

	loaded, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if loaded.Lang != "ko" {
		t.Errorf("expected lang 'ko', got %q", loaded.Lang)
	}
	if loaded.Output.Format != "json" {
		t.Errorf("expected format 'json', got %q", loaded.Output.Format)
	}
	if len(loaded.Sources) != len(cfg.Sources) {
		t.Fatalf("expected %d sources, got %d", len(cfg.Sources), len(loaded.Sources))
	}
	for i, want := range cfg.Sources {
		if loaded.Sources[i] != want {
			t.Errorf("source %d: expected %+v, got %+v", i, want, loaded.Sources[i])
		}
	}
}

func TestSaveWritesFileFormat(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Sources = []model.Source{
		{Name: "demo", Kind: model.SourceLocal, Origin: "/abs/demo"},
		{Name: "skills", Kind: model.SourceRemote, Origin: "https://github.com/acme/skills.git"},
	}
	if err := cfg.SaveToPath(configPath); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}

	// #nosec G304 - test file
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"sources:",
		"demo:",
		"type: local",
		"path: /abs/demo",
		"type: git",
		"url: https://github.com/acme/skills.git",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected config to contain %q, got:\n%s", want, content)
		}
	}
	if strings.Index(content, "demo:") > strings.Index(content, "skills:") {
		t.Error("expected sources to be written in registration order")
	}

	entries, err := os.ReadDir(filepath.Dir(configPath))
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the config file, found %d entries", len(entries))
	}
}

func TestLegacyActiveKeyDropped(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	legacy := `
lang: en
sources:
  demo:
    type: local
    path: /abs/demo
active:
  - demo/foo
  - demo/bar
`
	// #nosec G306 - test file permissions are acceptable
	if err := os.WriteFile(configPath, []byte(legacy), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "demo" {
		t.Fatalf("unexpected sources: %+v", cfg.Sources)
	}

	if err := cfg.SaveToPath(configPath); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}
	// #nosec G304 - test file
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if strings.Contains(string(data), "active") {
		t.Errorf("expected legacy active key to be dropped, got:\n%s", data)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		check    func(*Config) bool
	}{
		{
			name:     "lang",
			envKey:   "SKILLCAST_LANG",
			envValue: "KO",
			check:    func(c *Config) bool { return c.Lang == "ko" },
		},
		{
			name:     "output format",
			envKey:   "SKILLCAST_OUTPUT_FORMAT",
			envValue: "json",
			check:    func(c *Config) bool { return c.Output.Format == "json" },
		},
		{
			name:     "output color",
			envKey:   "SKILLCAST_OUTPUT_COLOR",
			envValue: "never",
			check:    func(c *Config) bool { return c.Output.Color == "never" },
		},
		{
			name:     "invalid format ignored",
			envKey:   "SKILLCAST_OUTPUT_FORMAT",
			envValue: "xml",
			check:    func(c *Config) bool { return c.Output.Format == "table" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SKILLCAST_HOME", t.TempDir())
			t.Setenv(tt.envKey, tt.envValue)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("environment override %s=%s not applied", tt.envKey, tt.envValue)
			}
		})
	}
}

func TestLoadHandWrittenSources(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "sources:\n  demo:\n    type: local\n    path: /tmp/demo\n  skills:\n    type: git\n    url: https://github.com/acme/skills.git\n"
	// #nosec G306 - test file permissions are acceptable
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	want := []model.Source{
		{Name: "demo", Kind: model.SourceLocal, Origin: "/tmp/demo"},
		{Name: "skills", Kind: model.SourceRemote, Origin: "https://github.com/acme/skills.git"},
	}
	if len(cfg.Sources) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(cfg.Sources))
	}
	for i := range want {
		if cfg.Sources[i] != want[i] {
			t.Errorf("source %d: expected %+v, got %+v", i, want[i], cfg.Sources[i])
		}
	}
}

func TestEnvironmentOverridesNotSaved(t *testing.T) {
	t.Setenv("SKILLCAST_HOME", t.TempDir())
	t.Setenv("SKILLCAST_LANG", "")
	t.Setenv("SKILLCAST_OUTPUT_FORMAT", "")
	t.Setenv("SKILLCAST_OUTPUT_COLOR", "")
	if err := Default().Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("SKILLCAST_LANG", "ko")
	t.Setenv("SKILLCAST_OUTPUT_FORMAT", "json")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Lang != "ko" || cfg.Output.Format != "json" {
		t.Fatalf("overrides not in effect: lang=%q format=%q", cfg.Lang, cfg.Output.Format)
	}
	cfg.Output.Color = "never"
	cfg.Sources = []model.Source{{Name: "demo", Kind: model.SourceLocal, Origin: "/abs/demo"}}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("SKILLCAST_LANG", "")
	t.Setenv("SKILLCAST_OUTPUT_FORMAT", "")
	saved, err := LoadFromPath(FilePath())
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if saved.Lang != "en" {
		t.Errorf("expected saved lang 'en', got %q", saved.Lang)
	}
	if saved.Output.Format != "table" {
		t.Errorf("expected saved format 'table', got %q", saved.Output.Format)
	}
	if saved.Output.Color != "never" {
		t.Errorf("expected explicit color change to be saved, got %q", saved.Output.Color)
	}
	if len(saved.Sources) != 1 {
		t.Errorf("expected 1 source, got %d", len(saved.Sources))
	}
}

func TestSetLangWinsOverEnvironment(t *testing.T) {
	t.Setenv("SKILLCAST_HOME", t.TempDir())
	t.Setenv("SKILLCAST_LANG", "")
	cfg := Default()
	cfg.Lang = "ko"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("SKILLCAST_LANG", "en")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	cfg.SetLang("en")
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("SKILLCAST_LANG", "")
	t.Setenv("SKILLCAST_OUTPUT_FORMAT", "")
	saved, err := LoadFromPath(FilePath())
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if saved.Lang != "en" {
		t.Errorf("expected saved lang 'en', got %q", saved.Lang)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Set SKILLCAST_HOME to the temp dir to avoid touching real config
	t.Setenv("SKILLCAST_HOME", tmpDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not fail for non-existent file: %v", err)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("expected default format, got %q", cfg.Output.Format)
	}
	if Exists() {
		t.Error("Exists() should be false before Save")
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if !Exists() {
		t.Error("Exists() should be true after Save")
	}
	if FilePath() != filepath.Join(tmpDir, "config.yaml") {
		t.Errorf("unexpected FilePath %q", FilePath())
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "invalid: yaml: content:"},
		{"sources not a mapping", "sources:\n  - demo\n"},
		{"unknown source type", "sources:\n  demo:\n    type: svn\n    url: x\n"},
		{"missing origin", "sources:\n  demo:\n    type: git\n"},
		{"name outside storage", "sources:\n  ../keepme:\n    type: local\n    path: /tmp\n"},
		{"hidden name", "sources:\n  .git:\n    type: local\n    path: /tmp\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			// #nosec G306 - test file permissions are acceptable
			if err := os.WriteFile(configPath, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			_, err := LoadFromPath(configPath)
			if err == nil {
				t.Fatal("LoadFromPath should fail")
			}
			if model.KindOf(err) != model.KindInternal {
				t.Errorf("expected internal error kind, got %v", model.KindOf(err))
			}
		})
	}
}

func TestPartialConfigMerge(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	partialConfig := `
output:
  color: "never"
`
	// #nosec G306 - test file permissions are acceptable
	if err := os.WriteFile(configPath, []byte(partialConfig), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Output.Color != "never" {
		t.Errorf("expected color 'never', got %q", cfg.Output.Color)
	}
	// Unset keys fall back to defaults
	if cfg.Output.Format != "table" {
		t.Errorf("expected format to default to 'table', got %q", cfg.Output.Format)
	}
	if cfg.Lang != "en" {
		t.Errorf("expected lang to default to 'en', got %q", cfg.Lang)
	}
}

func TestStateRoundTrip(t *testing.T) {
	cfg := Default()
	st := cfg.State().With(model.Source{Name: "demo", Kind: model.SourceLocal, Origin: "/abs/demo"})

	if len(cfg.Sources) != 0 {
		t.Fatal("State() must not share the sources slice")
	}

	cfg.SetState(st)
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "demo" {
		t.Errorf("unexpected sources after SetState: %+v", cfg.Sources)
	}
	if cfg.Lang != "en" {
		t.Errorf("expected lang to be kept, got %q", cfg.Lang)
	}
}
