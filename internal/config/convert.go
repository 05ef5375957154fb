package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/posekit/internal/pose"
)

// DefaultConfigPath is the path to the canonical conversion defaults file.
const DefaultConfigPath = "config/convert.defaults.json"

// maxConfigSize caps config files read from disk.
const maxConfigSize = 1 * 1024 * 1024 // 1MB

// ConvertConfig holds the settings shared by the posecvt subcommands.
// Pointer fields distinguish "not set" from zero values; the Get* methods
// supply defaults for anything omitted.
type ConvertConfig struct {
	// Loading
	FlipAxes *bool `json:"flip_axes,omitempty"`

	// Quaternion export
	Method          *string `json:"method,omitempty"`           // "trace" or "robust"
	Normalize       *bool   `json:"normalize,omitempty"`        // renormalise exported quaternions
	QuaternionOrder *string `json:"quaternion_order,omitempty"` // "wxyz" or "xyzw"

	// Trajectory plots
	PlotWidthInches  *float64 `json:"plot_width_inches,omitempty"`
	PlotHeightInches *float64 `json:"plot_height_inches,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyConvertConfig returns a ConvertConfig with all fields unset.
func EmptyConvertConfig() *ConvertConfig {
	return &ConvertConfig{}
}

// DefaultConvertConfig returns a ConvertConfig with every field set to its
// default. It mirrors config/convert.defaults.json.
func DefaultConvertConfig() *ConvertConfig {
	return &ConvertConfig{
		FlipAxes:         ptrBool(true),
		Method:           ptrString(string(pose.MethodTrace)),
		Normalize:        ptrBool(false),
		QuaternionOrder:  ptrString(string(pose.OrderWXYZ)),
		PlotWidthInches:  ptrFloat64(8),
		PlotHeightInches: ptrFloat64(8),
	}
}

// LoadConvertConfig loads a ConvertConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Omitted fields
// keep their defaults through the Get* methods, so partial configs are safe.
func LoadConvertConfig(path string) (*ConvertConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConvertConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *ConvertConfig) Validate() error {
	if c.Method != nil {
		if _, err := pose.ParseMethod(*c.Method); err != nil {
			return err
		}
	}
	if c.QuaternionOrder != nil {
		if _, err := pose.ParseQuaternionOrder(*c.QuaternionOrder); err != nil {
			return err
		}
	}
	if c.PlotWidthInches != nil && *c.PlotWidthInches <= 0 {
		return fmt.Errorf("plot_width_inches must be positive, got %g", *c.PlotWidthInches)
	}
	if c.PlotHeightInches != nil && *c.PlotHeightInches <= 0 {
		return fmt.Errorf("plot_height_inches must be positive, got %g", *c.PlotHeightInches)
	}
	return nil
}

// GetFlipAxes returns the flip_axes value or the default.
func (c *ConvertConfig) GetFlipAxes() bool {
	if c.FlipAxes == nil {
		return true
	}
	return *c.FlipAxes
}

// GetMethod returns the conversion method or the default.
func (c *ConvertConfig) GetMethod() pose.Method {
	if c.Method == nil {
		return pose.MethodTrace
	}
	m, err := pose.ParseMethod(*c.Method)
	if err != nil {
		return pose.MethodTrace // default on parse error
	}
	return m
}

// GetNormalize returns the normalize value or the default.
func (c *ConvertConfig) GetNormalize() bool {
	if c.Normalize == nil {
		return false
	}
	return *c.Normalize
}

// GetQuaternionOrder returns the export order or the default.
func (c *ConvertConfig) GetQuaternionOrder() pose.QuaternionOrder {
	if c.QuaternionOrder == nil {
		return pose.OrderWXYZ
	}
	o, err := pose.ParseQuaternionOrder(*c.QuaternionOrder)
	if err != nil {
		return pose.OrderWXYZ // default on parse error
	}
	return o
}

// GetPlotWidthInches returns the plot width or the default.
func (c *ConvertConfig) GetPlotWidthInches() float64 {
	if c.PlotWidthInches == nil {
		return 8
	}
	return *c.PlotWidthInches
}

// GetPlotHeightInches returns the plot height or the default.
func (c *ConvertConfig) GetPlotHeightInches() float64 {
	if c.PlotHeightInches == nil {
		return 8
	}
	return *c.PlotHeightInches
}

// ExportOptions builds quaternion export options from the config.
func (c *ConvertConfig) ExportOptions() pose.ExportOptions {
	return pose.ExportOptions{
		Method:    c.GetMethod(),
		Normalize: c.GetNormalize(),
		Order:     c.GetQuaternionOrder(),
	}
}
