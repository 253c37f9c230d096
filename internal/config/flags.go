package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagRotation  = flag.String("rotation-format", "", "Rotation packing format")
	flagVector    = flag.String("translation-format", "", "Translation packing format")
	flagThreshold = flag.Float64("threshold", 0, "Error threshold override")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRotation != "" {
		cfg.Compression.RotationFormat = *flagRotation
	}
	if *flagVector != "" {
		cfg.Compression.TranslationFormat = *flagVector
	}
	if *flagThreshold > 0 {
		cfg.Compression.ErrorThreshold = float32(*flagThreshold)
	}
}
