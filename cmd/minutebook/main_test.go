package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minutebook/internal/catalog"
	"minutebook/internal/compose"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerHandler(t *testing.T) {
	if _, ok := newLogger("development", "info").Handler().(*slog.TextHandler); !ok {
		t.Error("development should log text")
	}
	if _, ok := newLogger("production", "info").Handler().(*slog.JSONHandler); !ok {
		t.Error("production should log JSON")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadModules(t *testing.T) {
	yamlDoc := `
- index: 0
  moduleKey: title
  items:
    - index: 0
      type: basic
      value: "{{title}}"
`
	jsonDoc := `[{"index":0,"moduleKey":"title","items":[{"index":0,"type":"basic","value":"{{title}}"}]}]`

	t.Run("yaml", func(t *testing.T) {
		modules, err := readModules(writeFile(t, "m.yaml", yamlDoc), nil)
		if err != nil {
			t.Fatalf("readModules: %v", err)
		}
		if len(modules) != 1 || modules[0].ModuleKey != "title" || modules[0].Items[0].Value != "{{title}}" {
			t.Errorf("unexpected modules: %+v", modules)
		}
	})

	t.Run("json", func(t *testing.T) {
		modules, err := readModules(writeFile(t, "m.json", jsonDoc), nil)
		if err != nil {
			t.Fatalf("readModules: %v", err)
		}
		if len(modules) != 1 {
			t.Errorf("unexpected modules: %+v", modules)
		}
	})

	t.Run("stdin", func(t *testing.T) {
		modules, err := readModules("-", strings.NewReader(yamlDoc))
		if err != nil {
			t.Fatalf("readModules: %v", err)
		}
		if len(modules) != 1 {
			t.Errorf("unexpected modules: %+v", modules)
		}
	})

	t.Run("schema violation", func(t *testing.T) {
		bad := "- index: 0\n  moduleKey: title\n  items:\n    - index: 0\n      type: table\n      value: x\n"
		if _, err := readModules(writeFile(t, "bad.yaml", bad), nil); err == nil {
			t.Error("expected a schema error for an unknown item type")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := readModules(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestDefaultCatalogYAMLReadsBack(t *testing.T) {
	var buf bytes.Buffer
	if err := writeModulesYAML(&buf, catalog.DefaultModules()); err != nil {
		t.Fatalf("writeModulesYAML: %v", err)
	}

	path := writeFile(t, "catalog.yaml", buf.String())
	modules, err := readModules(path, nil)
	if err != nil {
		t.Fatalf("readModules: %v", err)
	}
	if got, want := compose.Render(modules), compose.Render(catalog.DefaultModules()); got != want {
		t.Errorf("render mismatch:\n got %q\nwant %q", got, want)
	}
	if !strings.Contains(buf.String(), "displayName:") {
		t.Error("display names should be written")
	}
}

func TestRenderCommand(t *testing.T) {
	path := writeFile(t, "m.yaml", `
- index: 0
  moduleKey: title
  items: [{index: 0, type: basic, value: "{{title}}"}]
- index: 1
  moduleKey: custom
  items: [{index: 0, type: basic, value: "free text"}]
`)
	missingEnv := filepath.Join(t.TempDir(), "none.env")

	t.Run("prints preview", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"render", path, "--env-file", missingEnv})
		t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("execute: %v", err)
		}
		if got := out.String(); got != "{{title}}\n\nfree text\n" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("strict rejects unknown keys", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs([]string{"render", path, "--strict", "--env-file", missingEnv})
		t.Cleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetErr(nil)
			rootCmd.SetArgs(nil)
			renderStrict = false
		})

		err := rootCmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "custom") {
			t.Errorf("expected unknown key error naming custom, got %v", err)
		}
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version", "--env-file", filepath.Join(t.TempDir(), "none.env")})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "minutebook dev") {
		t.Errorf("output = %q", out.String())
	}
}
