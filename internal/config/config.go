// Package config handles toolkit configuration loading and management.
package config

import "runtime"

// Config holds all toolkit settings.
type Config struct {
	Convert  ConvertConfig  `yaml:"convert"`
	Textures TexturesConfig `yaml:"textures"`
	Batch    BatchConfig    `yaml:"batch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ConvertConfig holds OBJ to VDF conversion settings.
type ConvertConfig struct {
	ShaderName string  `yaml:"shader_name"`
	NearRange  float32 `yaml:"near_range"`
	FarRange   float32 `yaml:"far_range"`
	WriteMTR   bool    `yaml:"write_mtr"`
}

// TexturesConfig holds texture resolution settings.
type TexturesConfig struct {
	Root string `yaml:"root"` // Textures folder, auto-detected when empty
	Copy bool   `yaml:"copy"` // Copy referenced DDS files next to exports
}

// BatchConfig holds folder conversion settings.
type BatchConfig struct {
	Workers     int    `yaml:"workers"`
	OutputDir   string `yaml:"output_dir"`
	MetadataDir string `yaml:"metadata_dir"`
	Recursive   bool   `yaml:"recursive"`
	Manifest    bool   `yaml:"manifest"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			ShaderName: "buildings_lmap",
			NearRange:  0,
			FarRange:   100,
			WriteMTR:   true,
		},
		Textures: TexturesConfig{
			Copy: true,
		},
		Batch: BatchConfig{
			Workers:     runtime.NumCPU(),
			OutputDir:   "converted",
			MetadataDir: "converted/metadata",
			Recursive:   false,
			Manifest:    true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
