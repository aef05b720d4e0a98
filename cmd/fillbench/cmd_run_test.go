package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	registry := newRegistry()

	want := []string{
		"rawbuf_inplace",
		"rawbuf_construct_at",
		"rawbuf_assign",
		"append_inplace",
		"append_copy",
		"collect_seq",
		"collect_pull",
	}

	got := registry.List()
	if len(got) != len(want) {
		t.Fatalf("registry has %d variants, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variant[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRunCmd_Defaults(t *testing.T) {
	// A bare `fillbench run` must produce both outputs: console
	// aggregates and the structured report file.
	defaults := map[string]string{
		"items":       "500000",
		"repetitions": "20",
		"warmup":      "1",
		"out":         "fillbench_report.json",
	}
	for name, want := range defaults {
		flag := runCmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("flag --%s not registered", name)
		}
		if flag.DefValue != want {
			t.Errorf("--%s default = %s, want %s", name, flag.DefValue, want)
		}
	}
}

func TestLoadFileConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := loadFileConfig("/nonexistent/fillbench.yaml"); err == nil {
			t.Error("loadFileConfig should fail for a missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("items: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := loadFileConfig(path); err == nil {
			t.Error("loadFileConfig should fail for invalid YAML")
		}
	})

	t.Run("valid config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fillbench.yaml")
		content := `
items: 1000
repetitions: 5
warmup: 0
output: out.json
pretty: true
log_level: debug
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		fc, err := loadFileConfig(path)
		if err != nil {
			t.Fatalf("loadFileConfig failed: %v", err)
		}
		if fc.Items == nil || *fc.Items != 1000 {
			t.Errorf("Items = %v, want 1000", fc.Items)
		}
		if fc.Repetitions == nil || *fc.Repetitions != 5 {
			t.Errorf("Repetitions = %v, want 5", fc.Repetitions)
		}
		if fc.Warmup == nil || *fc.Warmup != 0 {
			t.Errorf("Warmup = %v, want 0", fc.Warmup)
		}
		if fc.Output != "out.json" {
			t.Errorf("Output = %s, want out.json", fc.Output)
		}
		if fc.Pretty == nil || !*fc.Pretty {
			t.Error("Pretty should be true")
		}
		if fc.LogLevel != "debug" {
			t.Errorf("LogLevel = %s, want debug", fc.LogLevel)
		}
		if fc.NoMemory != nil {
			t.Error("Unset fields should stay nil")
		}
	})
}
