// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Compression CompressionConfig `yaml:"compression"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CompressionConfig holds quantization settings.
type CompressionConfig struct {
	// RotationFormat selects the rotation packing: "quat_128",
	// "quatdropw_96", "quatdropw_48", "quatdropw_32" or
	// "quatdropw_variable".
	RotationFormat string `yaml:"rotation_format"`
	// TranslationFormat selects the vector packing: "vector3_96",
	// "vector3_48", "vector3_32" or "vector3_variable".
	TranslationFormat string `yaml:"translation_format"`
	// ErrorThreshold overrides the clip's own threshold when positive,
	// in the same object-space units as the shell distances.
	ErrorThreshold float32 `yaml:"error_threshold"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compression: CompressionConfig{
			RotationFormat:    "quatdropw_variable",
			TranslationFormat: "vector3_variable",
			ErrorThreshold:    0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
