package main

import (
	"os"
	"path/filepath"
	"testing"

	"lua2cpp/internal/convention"
	"lua2cpp/internal/diag"
)

func writeManifest(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, "lua2cpp.toml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write lua2cpp.toml: %v", err)
	}
	return path
}

func TestLoadProjectConfig(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `# test manifest
[output]
dir = "gen"

[conventions.vec]
style = "flat"
prefix = "vec3_"

[conventions.geom]
style = "namespace"
namespace = "geometry"
`)
	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if cfg.Output.Dir != "gen" {
		t.Fatalf("Output.Dir = %q, want gen", cfg.Output.Dir)
	}
	vec, ok := cfg.Conventions["vec"]
	if !ok {
		t.Fatalf("expected vec convention")
	}
	if vec.Style != "flat" || vec.Prefix != "vec3_" {
		t.Fatalf("vec = %+v", vec)
	}
	if cfg.Conventions["geom"].Namespace != "geometry" {
		t.Fatalf("geom namespace = %q", cfg.Conventions["geom"].Namespace)
	}
}

func TestLoadProjectConfigMissingStyle(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `[conventions.vec]
prefix = "vec3_"
`)
	if _, err := loadProjectConfig(path); err == nil {
		t.Fatalf("expected error for missing style")
	}
}

func TestFindLua2cppTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[output]
dir = "gen"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, found, err := findLua2cppToml(nested)
	if err != nil {
		t.Fatalf("findLua2cppToml: %v", err)
	}
	if !found {
		t.Fatalf("expected manifest to be found from nested dir")
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %q, want manifest in %q", path, root)
	}
}

func TestBuildConventionsFlagBeatsManifest(t *testing.T) {
	manifest := &projectManifest{
		Config: projectConfig{
			Conventions: map[string]convention.ModuleSetting{
				"vec": {Style: "namespace", Namespace: "vector"},
			},
		},
	}
	bag := diag.NewBag(8)
	registry := buildConventions(manifest, []string{"vec=flat"}, diag.BagReporter{Bag: bag})
	if got := registry.GetConvention("vec"); got != convention.Flat {
		t.Fatalf("vec convention = %v, want Flat", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
}

func TestResolveOutDir(t *testing.T) {
	manifest := &projectManifest{
		Root:   "/proj",
		Config: projectConfig{Output: outputConfig{Dir: "gen"}},
	}
	if got := resolveOutDir("explicit", manifest, "in"); got != "explicit" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got := resolveOutDir("", manifest, "in"); got != filepath.Join("/proj", "gen") {
		t.Fatalf("manifest dir = %q", got)
	}
	if got := resolveOutDir("", nil, "in"); got != "in" {
		t.Fatalf("fallback = %q, want input dir", got)
	}
}

func TestReadUIMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uiMode
	}{
		{"", uiModeAuto},
		{"auto", uiModeAuto},
		{"On", uiModeOn},
		{"off", uiModeOff},
	} {
		got, err := readUIMode(tc.in)
		if err != nil {
			t.Fatalf("readUIMode(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for bad ui mode")
	}
}
