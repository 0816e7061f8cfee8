package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	switch {
	case err == nil:
		t.Fatalf("expected error %q, got nil", want)
	case err.Error() != want:
		t.Fatalf("error=%q want %q", err, want)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeTempConfig(t, `input: /dev/ttyACM0
wait: 250ms
web:
  listen: ":9000"
plots:
  enabled: [position_map, signal_levels]
capture:
  enable: true
  path: ./capture.ubx
pps:
  enable: true
  chip: gpiochip1
  line: 18
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := DefaultAndValidate(&cfg); err != nil {
		t.Fatalf("DefaultAndValidate() error: %v", err)
	}

	if cfg.Input != "/dev/ttyACM0" {
		t.Errorf("input=%q", cfg.Input)
	}
	if cfg.Wait.Std() != 250*time.Millisecond {
		t.Errorf("wait=%s want 250ms", cfg.Wait)
	}
	if cfg.Web.Listen != ":9000" {
		t.Errorf("web.listen=%q", cfg.Web.Listen)
	}
	if !reflect.DeepEqual(cfg.Plots.Enabled, []string{"position_map", "signal_levels"}) {
		t.Errorf("plots.enabled=%v", cfg.Plots.Enabled)
	}
	if !cfg.Capture.Enable || cfg.Capture.Path != "./capture.ubx" {
		t.Errorf("capture=%+v", cfg.Capture)
	}
	if !cfg.PPS.Enable || cfg.PPS.Chip != "gpiochip1" || cfg.PPS.Line != 18 {
		t.Errorf("pps=%+v", cfg.PPS)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "input: ./testdata/coldstart.ubx\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := DefaultAndValidate(&cfg); err != nil {
		t.Fatalf("DefaultAndValidate() error: %v", err)
	}

	if cfg.Wait == nil || cfg.Wait.Std() != 100*time.Millisecond {
		t.Errorf("wait=%v want 100ms", cfg.Wait)
	}
	if cfg.Web.Listen != ":8090" {
		t.Errorf("web.listen=%q want :8090", cfg.Web.Listen)
	}
	if !reflect.DeepEqual(cfg.Plots.Enabled, []string{"position_map"}) {
		t.Errorf("plots.enabled=%v want [position_map]", cfg.Plots.Enabled)
	}
	if cfg.PPS.Chip != "gpiochip0" {
		t.Errorf("pps.chip=%q want gpiochip0", cfg.PPS.Chip)
	}
}

func TestLoad_ExplicitZeroWaitKept(t *testing.T) {
	path := writeTempConfig(t, "input: ./x.ubx\nwait: 0s\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := DefaultAndValidate(&cfg); err != nil {
		t.Fatalf("DefaultAndValidate() error: %v", err)
	}
	if cfg.Wait.Std() != 0 {
		t.Fatalf("wait=%s, explicit 0s must not be defaulted", cfg.Wait)
	}
}

func TestLoad_EmptyListDisablesAllPlots(t *testing.T) {
	path := writeTempConfig(t, "input: ./x.ubx\nplots:\n  enabled: []\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := DefaultAndValidate(&cfg); err != nil {
		t.Fatalf("DefaultAndValidate() error: %v", err)
	}
	if cfg.Plots.Enabled == nil || len(cfg.Plots.Enabled) != 0 {
		t.Fatalf("plots.enabled=%v, explicit empty list must stay empty", cfg.Plots.Enabled)
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	path := writeTempConfig(t, "input: ./x.ubx\nbogus: 1\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "field bogus not found") {
		t.Fatalf("error=%q, want unknown-field message", err)
	}
}

func TestLoad_RejectsUnitlessWait(t *testing.T) {
	path := writeTempConfig(t, "input: ./x.ubx\nwait: 100\n")
	_, err := Load(path)
	requireErrEq(t, err, `invalid duration "100"`)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeTempConfig(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	err = DefaultAndValidate(&cfg)
	requireErrEq(t, err, "input is required")
}

func TestDefaultAndValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "MissingInput",
			yaml: "wait: 100ms\n",
			want: "input is required",
		},
		{
			name: "NegativeWait",
			yaml: "input: ./x.ubx\nwait: -5ms\n",
			want: "wait must be >= 0",
		},
		{
			name: "EmptyPlotName",
			yaml: "input: ./x.ubx\nplots:\n  enabled: ['']\n",
			want: "plots.enabled must not contain empty names",
		},
		{
			name: "DuplicatePlotName",
			yaml: "input: ./x.ubx\nplots:\n  enabled: [position_map, position_map]\n",
			want: `plots.enabled contains duplicate "position_map"`,
		},
		{
			name: "CaptureRequiresPath",
			yaml: "input: ./x.ubx\ncapture:\n  enable: true\n",
			want: "capture.path is required when capture.enable is true",
		},
		{
			name: "PPSNegativeLine",
			yaml: "input: ./x.ubx\npps:\n  enable: true\n  line: -1\n",
			want: "pps.line must be >= 0 when pps.enable is true",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempConfig(t, tc.yaml)
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			requireErrEq(t, DefaultAndValidate(&cfg), tc.want)
		})
	}
}
