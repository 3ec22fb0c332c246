package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverlaysDefaults(t *testing.T) {
	c, err := Parse([]byte(`{"server": {"listen": ":9000"}, "dispatch": {"max_radius": 2, "fallback": "all"}}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if c.Server.Listen != ":9000" || c.Dispatch.MaxRadius != 2 || c.Dispatch.Fallback != "all" {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.Dispatch.Grid != "h3" || c.Dispatch.Resolution != 9 {
		t.Errorf("defaults lost: %+v", c.Dispatch)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"grid":       `{"dispatch": {"grid": "square"}}`,
		"resolution": `{"dispatch": {"resolution": 16}}`,
		"hex_size":   `{"dispatch": {"grid": "hex", "hex_size": 0}}`,
		"max_radius": `{"dispatch": {"max_radius": -1}}`,
		"fallback":   `{"dispatch": {"fallback": "sometimes"}}`,
		"json":       `{"dispatch": `,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RIDEPOOL_LISTEN", ":7000")
	t.Setenv("RIDEPOOL_MAX_RADIUS", "7")
	t.Setenv("RIDEPOOL_WORKERS", "not-a-number")
	t.Setenv("RIDEPOOL_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	c := Default()
	applyEnv(&c)
	if c.Server.Listen != ":7000" || c.Dispatch.MaxRadius != 7 {
		t.Errorf("env overrides not applied: %+v", c)
	}
	if c.Server.Workers != 0 {
		t.Errorf("bad integer should keep the default, got %d", c.Server.Workers)
	}
	if strings.Join(c.Server.AllowedOrigins, " ") != "http://a.test http://b.test" {
		t.Errorf("unexpected origins %v", c.Server.AllowedOrigins)
	}
}

func TestLoadOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server": {"map_file": "city.json"}}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := Load(path); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if Global.Server.MapFile != "city.json" {
		t.Errorf("expected city.json, got %s", Global.Server.MapFile)
	}
	// later calls are no-ops
	if err := Load(filepath.Join(t.TempDir(), "other.json")); err != nil {
		t.Fatalf("second Load returned error: %v", err)
	}
	if Global.Server.MapFile != "city.json" {
		t.Errorf("second Load replaced the config")
	}
}
