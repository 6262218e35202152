package commands

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/chaindocs/internal/api"
	"github.com/diogo/chaindocs/internal/config"
)

func TestConfigCommand_OpensMenu(t *testing.T) {
	testEnv(t)
	deps, ui, _ := newTestDeps(&api.MockClient{})

	if _, _, err := run(t, deps, nil, "config"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ui.configCalls != 1 {
		t.Errorf("RunConfig called %d times, want 1", ui.configCalls)
	}
	if ui.config != config.DefaultConfig() {
		t.Errorf("RunConfig got %+v, want defaults", ui.config)
	}
}

func TestConfigCommand_Show(t *testing.T) {
	testEnv(t)
	deps, _, _ := newTestDeps(&api.MockClient{})

	stdout, _, err := run(t, deps, nil, "config", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cfg config.Config
	if err := json.Unmarshal([]byte(stdout), &cfg); err != nil {
		t.Fatalf("show did not print JSON: %v\n%s", err, stdout)
	}
	if cfg != config.DefaultConfig() {
		t.Errorf("show = %+v, want defaults", cfg)
	}
}

func TestConfigCommand_PathAndKeys(t *testing.T) {
	home := testEnv(t)
	deps, _, _ := newTestDeps(&api.MockClient{})

	stdout, _, err := run(t, deps, nil, "config", "path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(home, ".chaindocs", "config.json"); strings.TrimSpace(stdout) != want {
		t.Errorf("path = %q, want %q", stdout, want)
	}

	stdout, _, err = run(t, deps, nil, "config", "keys")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Fields(stdout); strings.Join(got, ",") != strings.Join(config.Keys(), ",") {
		t.Errorf("keys = %v", got)
	}
}

func TestConfigCommand_Set(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(config.Config) bool
	}{
		{"host", "https://chaindocs.onrender.com/", func(c config.Config) bool { return c.Host == "https://chaindocs.onrender.com" }},
		{"tui_theme", "nord", func(c config.Config) bool { return c.TUITheme == "nord" }},
		{"markdown.style", "light", func(c config.Config) bool { return c.Markdown.Style == "light" }},
		{"copy_to_clipboard", "true", func(c config.Config) bool { return c.CopyToClipboard }},
		{"timeout_seconds", "5", func(c config.Config) bool { return c.TimeoutSeconds == 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			testEnv(t)
			deps, _, _ := newTestDeps(&api.MockClient{})

			stdout, _, err := run(t, deps, nil, "config", "set", tt.key, tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(stdout, tt.key+" = "+tt.value) {
				t.Errorf("stdout = %q", stdout)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(cfg) {
				t.Errorf("saved config = %+v", cfg)
			}
		})
	}
}

func TestConfigCommand_SetRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value, contains string
	}{
		{"tui_theme", "neon", "unknown tui_theme"},
		{"markdown.style", "/does/not/exist.json", "unknown markdown.style"},
		{"host", "localhost", "scheme"},
		{"bogus", "1", "unknown config key"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			testEnv(t)
			deps, _, _ := newTestDeps(&api.MockClient{})

			_, _, err := run(t, deps, nil, "config", "set", tt.key, tt.value)
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %v, want %q", err, tt.contains)
			}

			cfg, _ := config.LoadConfig()
			if cfg != config.DefaultConfig() {
				t.Errorf("invalid set must not save, got %+v", cfg)
			}
		})
	}
}

func TestConfigCommand_SetStyleFile(t *testing.T) {
	testEnv(t)
	style := filepath.Join(t.TempDir(), "style.json")
	writeFile(t, style, "{}")
	deps, _, _ := newTestDeps(&api.MockClient{})

	if _, _, err := run(t, deps, nil, "config", "set", "markdown.style", style); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, _ := config.LoadConfig()
	if cfg.Markdown.Style != style {
		t.Errorf("style = %q", cfg.Markdown.Style)
	}
}
