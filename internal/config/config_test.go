package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Compression.RotationFormat != "quatdropw_variable" {
		t.Errorf("expected rotation format 'quatdropw_variable', got %s", cfg.Compression.RotationFormat)
	}
	if cfg.Compression.TranslationFormat != "vector3_variable" {
		t.Errorf("expected translation format 'vector3_variable', got %s", cfg.Compression.TranslationFormat)
	}
	if cfg.Compression.ErrorThreshold != 0 {
		t.Errorf("expected no threshold override, got %f", cfg.Compression.ErrorThreshold)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
compression:
  rotation_format: "quatdropw_48"
  translation_format: "vector3_32"
  error_threshold: 0.01

logging:
  level: "debug"
  log_file: "animpack.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Compression.RotationFormat != "quatdropw_48" {
		t.Errorf("expected rotation format 'quatdropw_48', got %s", cfg.Compression.RotationFormat)
	}
	if cfg.Compression.TranslationFormat != "vector3_32" {
		t.Errorf("expected translation format 'vector3_32', got %s", cfg.Compression.TranslationFormat)
	}
	if cfg.Compression.ErrorThreshold != 0.01 {
		t.Errorf("expected threshold 0.01, got %f", cfg.Compression.ErrorThreshold)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "animpack.log" {
		t.Errorf("expected log file 'animpack.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
compression:
  error_threshold: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Compression.RotationFormat = "quat_128"
	cfg.Compression.ErrorThreshold = 0.05
	cfg.Logging.Level = "warn"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}

	if loaded.Compression.RotationFormat != "quat_128" {
		t.Errorf("expected rotation format 'quat_128', got %s", loaded.Compression.RotationFormat)
	}
	if loaded.Compression.ErrorThreshold != 0.05 {
		t.Errorf("expected threshold 0.05, got %f", loaded.Compression.ErrorThreshold)
	}
	if loaded.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", loaded.Logging.Level)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "rotation format flag",
			setup: func() {
				*flagRotation = "quatdropw_32"
			},
			verify: func(cfg *Config) {
				if cfg.Compression.RotationFormat != "quatdropw_32" {
					t.Errorf("expected rotation format 'quatdropw_32', got %s", cfg.Compression.RotationFormat)
				}
			},
			teardown: func() {
				*flagRotation = ""
			},
		},
		{
			name: "threshold flag",
			setup: func() {
				*flagThreshold = 0.02
			},
			verify: func(cfg *Config) {
				if cfg.Compression.ErrorThreshold != 0.02 {
					t.Errorf("expected threshold 0.02, got %f", cfg.Compression.ErrorThreshold)
				}
			},
			teardown: func() {
				*flagThreshold = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
compression:
  rotation_format: "quatdropw_96"
  error_threshold: 0.1
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagThreshold = 0.5
	defer func() {
		*flagConfig = ""
		*flagThreshold = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Threshold should come from the flag, not the file.
	if cfg.Compression.ErrorThreshold != 0.5 {
		t.Errorf("expected threshold 0.5 from flag, got %f", cfg.Compression.ErrorThreshold)
	}

	// Rotation format should come from the file since no flag override.
	if cfg.Compression.RotationFormat != "quatdropw_96" {
		t.Errorf("expected rotation format 'quatdropw_96' from file, got %s", cfg.Compression.RotationFormat)
	}
}
