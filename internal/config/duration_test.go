package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDurationYAMLRoundTrip(t *testing.T) {
	type doc struct {
		Wait Duration `yaml:"wait"`
	}

	in := doc{Wait: Duration(1500 * time.Millisecond)}
	b, err := yaml.Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(b) != "wait: 1.5s\n" {
		t.Fatalf("yaml = %q, want %q", b, "wait: 1.5s\n")
	}

	var out doc
	if err := yaml.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out.Wait != in.Wait {
		t.Fatalf("round trip = %s, want %s", out.Wait, in.Wait)
	}
}

func TestDurationRejectsMappings(t *testing.T) {
	var out struct {
		Wait Duration `yaml:"wait"`
	}
	err := yaml.Unmarshal([]byte("wait:\n  sec: 1\n"), &out)
	requireErrEq(t, err, `duration must be a string like "100ms"`)
}
