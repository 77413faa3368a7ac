package sifbuild

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds global configuration for sifbuild
type Config struct {
	// BuilderBin is the image-builder binary invoked for recipe builds and
	// image conversion (default: "apptainer")
	BuilderBin string `yaml:"builder_bin"`

	// EngineBin is the container-engine client binary used for context builds
	// and image lookups (default: "docker")
	EngineBin string `yaml:"engine_bin"`

	// ProvisionCommand is run once when EngineBin is not found on PATH, to
	// give site tooling (module systems, toolchain shims) a chance to make it
	// available. Empty means no provisioning is attempted.
	ProvisionCommand []string `yaml:"provision_command"`

	// EnableArchive controls whether archive (SIF) builds are permitted
	EnableArchive bool `yaml:"enable_archive"`

	// EnableSandbox controls whether sandbox directory builds are permitted
	EnableSandbox bool `yaml:"enable_sandbox"`

	// WriteReceipt controls whether a build receipt JSON is written next to
	// the produced artifact
	WriteReceipt bool `yaml:"write_receipt"`

	// Metadata is merged into build receipts (RFC 7386 merge semantics)
	Metadata map[string]any `yaml:"metadata"`

	// DataDir is the path to sifbuild's data directory (default: ~/.config/sifbuild)
	DataDir string `yaml:"data_dir"`
}

// ProjectFileConfig represents the configuration from a .sifbuild.yaml file.
// This is the user-facing per-project format that gets loaded from disk.
type ProjectFileConfig struct {
	// WriteReceipt overrides the global write_receipt setting when set
	WriteReceipt *bool `yaml:"write_receipt"`

	// Metadata is merged into build receipts on top of the global metadata
	Metadata map[string]any `yaml:"metadata"`
}

// ProjectFileLocation contains info about a loaded .sifbuild.yaml file
type ProjectFileLocation struct {
	// Path is the absolute path to the .sifbuild.yaml file
	Path string

	// Dir is the directory containing the file
	Dir string

	// Config is the parsed configuration
	Config *ProjectFileConfig
}

// ProjectFileName is the per-project configuration file name
const ProjectFileName = ".sifbuild.yaml"

// LoadConfig loads the global configuration from ~/.config/sifbuild/config.yaml
// Creates the ~/.config/sifbuild directory if it doesn't exist
// Returns sensible defaults if the config file doesn't exist
func LoadConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	config := &Config{
		BuilderBin:    "apptainer",
		EngineBin:     "docker",
		EnableArchive: true,
		EnableSandbox: true,
		DataDir:       filepath.Join(homeDir, ".config", "sifbuild"),
	}

	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sifbuild data directory: %w", err)
	}

	configPath := filepath.Join(config.DataDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			zlog.Debug("no config file found, using defaults",
				zap.String("config_path", configPath))
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.DataDir = expandPath(config.DataDir)

	zlog.Debug("loaded config",
		zap.String("config_path", configPath),
		zap.String("builder_bin", config.BuilderBin),
		zap.String("engine_bin", config.EngineBin),
		zap.Bool("enable_archive", config.EnableArchive),
		zap.Bool("enable_sandbox", config.EnableSandbox))

	return config, nil
}

// SaveConfig saves the global configuration to <data_dir>/config.yaml
func SaveConfig(config *Config) error {
	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create sifbuild data directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	configPath := filepath.Join(config.DataDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	zlog.Debug("saved config", zap.String("config_path", configPath))
	return nil
}

// FindProjectFile searches for a .sifbuild.yaml file starting from the given
// directory and walking up the directory tree. Returns nil if none is found.
func FindProjectFile(startDir string) (*ProjectFileLocation, error) {
	absPath, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absPath
	for {
		projectPath := filepath.Join(currentDir, ProjectFileName)
		if _, err := os.Stat(projectPath); err == nil {
			data, err := os.ReadFile(projectPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", ProjectFileName, err)
			}

			var config ProjectFileConfig
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
			}

			zlog.Debug("found project file", zap.String("path", projectPath))

			return &ProjectFileLocation{
				Path:   projectPath,
				Dir:    currentDir,
				Config: &config,
			}, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir || parentDir == "." || parentDir == "/" {
			break
		}
		currentDir = parentDir
	}

	zlog.Debug("no project file found", zap.String("start_dir", absPath))
	return nil, nil
}

// MergeProjectFile merges per-project settings into a copy of the global
// configuration. Administrative settings (enable_archive, enable_sandbox,
// binaries, provisioning) are global-only and never overridden.
func MergeProjectFile(config *Config, projectFile *ProjectFileLocation) *Config {
	merged := *config

	if projectFile == nil || projectFile.Config == nil {
		return &merged
	}

	pf := projectFile.Config
	if pf.WriteReceipt != nil {
		merged.WriteReceipt = *pf.WriteReceipt
	}

	if len(pf.Metadata) > 0 {
		metadata := make(map[string]any, len(merged.Metadata)+len(pf.Metadata))
		for k, v := range merged.Metadata {
			metadata[k] = v
		}
		for k, v := range pf.Metadata {
			metadata[k] = v
		}
		merged.Metadata = metadata
	}

	zlog.Debug("merged project file into config",
		zap.String("path", projectFile.Path),
		zap.Bool("write_receipt", merged.WriteReceipt))

	return &merged
}

// expandPath expands ~ to home directory and makes path absolute
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
