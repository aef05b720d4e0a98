package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the run command's flags for YAML configuration.
// Flags set on the command line override values loaded from the file.
type FileConfig struct {
	Items       *int   `yaml:"items"`
	Repetitions *int   `yaml:"repetitions"`
	Warmup      *int   `yaml:"warmup"`
	NoMemory    *bool  `yaml:"no_memory"`
	Output      string `yaml:"output"`
	Pretty      *bool  `yaml:"pretty"`
	Verbose     *bool  `yaml:"verbose"`
	LogLevel    string `yaml:"log_level"`
	LogDir      string `yaml:"log_dir"`
	Plain       *bool  `yaml:"plain"`
}

// loadFileConfig reads and parses the YAML config at path.
func loadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &fc, nil
}
