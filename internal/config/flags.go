package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagShader   = flag.String("shader", "", "Engine shader name for built materials")
	flagWorkers  = flag.Int("workers", 0, "Worker count for batch conversion")
	flagTextures = flag.String("textures", "", "Textures folder to index")
	flagOutput   = flag.String("output", "", "Output directory")
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
	if *flagShader != "" {
		cfg.Convert.ShaderName = *flagShader
	}
	if *flagWorkers > 0 {
		cfg.Batch.Workers = *flagWorkers
	}
	if *flagTextures != "" {
		cfg.Textures.Root = *flagTextures
	}
	if *flagOutput != "" {
		cfg.Batch.OutputDir = *flagOutput
	}
}
