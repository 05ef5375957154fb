package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/posekit/internal/pose"
)

func TestDefaultConvertConfig(t *testing.T) {
	cfg := DefaultConvertConfig()

	if cfg.FlipAxes == nil || *cfg.FlipAxes != true {
		t.Errorf("Expected FlipAxes true, got %v", cfg.FlipAxes)
	}
	if cfg.Method == nil || *cfg.Method != "trace" {
		t.Errorf("Expected Method 'trace', got %v", cfg.Method)
	}
	if cfg.QuaternionOrder == nil || *cfg.QuaternionOrder != "wxyz" {
		t.Errorf("Expected QuaternionOrder 'wxyz', got %v", cfg.QuaternionOrder)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEmptyConfigGetters(t *testing.T) {
	cfg := EmptyConvertConfig()

	if !cfg.GetFlipAxes() {
		t.Error("GetFlipAxes() default should be true")
	}
	if cfg.GetMethod() != pose.MethodTrace {
		t.Errorf("GetMethod() = %q, want trace", cfg.GetMethod())
	}
	if cfg.GetNormalize() {
		t.Error("GetNormalize() default should be false")
	}
	if cfg.GetQuaternionOrder() != pose.OrderWXYZ {
		t.Errorf("GetQuaternionOrder() = %q, want wxyz", cfg.GetQuaternionOrder())
	}
	if cfg.GetPlotWidthInches() != 8 || cfg.GetPlotHeightInches() != 8 {
		t.Errorf("unexpected plot size %gx%g", cfg.GetPlotWidthInches(), cfg.GetPlotHeightInches())
	}
}

func TestDefaultsMatchDefaultsFile(t *testing.T) {
	cfg, err := LoadConvertConfig("../../" + DefaultConfigPath)
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	if diff := cmp.Diff(DefaultConvertConfig(), cfg); diff != "" {
		t.Errorf("defaults file drifted from DefaultConvertConfig (-want +got):\n%s", diff)
	}
}

func TestLoadConvertConfigPartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(configPath, []byte(`{"method": "robust", "quaternion_order": "xyzw"}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConvertConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load partial config: %v", err)
	}

	want := pose.ExportOptions{Method: pose.MethodRobust, Order: pose.OrderXYZW, Normalize: false}
	if got := cfg.ExportOptions(); got != want {
		t.Errorf("ExportOptions() = %+v, want %+v", got, want)
	}
	if !cfg.GetFlipAxes() {
		t.Error("omitted flip_axes should keep its default")
	}
}

func TestLoadConvertConfigErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("cfg.yaml", "{}"), ".json extension"},
		{"missing", filepath.Join(dir, "missing.json"), "failed to stat"},
		{"bad json", write("bad.json", "{"), "failed to parse"},
		{"bad method", write("method.json", `{"method": "euler"}`), "unknown conversion method"},
		{"bad order", write("order.json", `{"quaternion_order": "zyxw"}`), "unknown quaternion order"},
		{"bad width", write("width.json", `{"plot_width_inches": 0}`), "plot_width_inches"},
		{"bad height", write("height.json", `{"plot_height_inches": -1}`), "plot_height_inches"},
		{"too large", write("large.json", `{"method": "trace"`+strings.Repeat(" ", maxConfigSize)+`}`), "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConvertConfig(tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestGettersFallBackOnInvalidValues(t *testing.T) {
	cfg := &ConvertConfig{Method: ptrString("nope"), QuaternionOrder: ptrString("nope")}

	if cfg.GetMethod() != pose.MethodTrace {
		t.Errorf("GetMethod() = %q, want trace fallback", cfg.GetMethod())
	}
	if cfg.GetQuaternionOrder() != pose.OrderWXYZ {
		t.Errorf("GetQuaternionOrder() = %q, want wxyz fallback", cfg.GetQuaternionOrder())
	}
}
