package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// NodeResolveConfig holds the file-based defaults for the resolve command.
// Flags always win over config values.
type NodeResolveConfig struct {
	Conditions              []string `yaml:"conditions"`
	Externals               []string `yaml:"externals"`
	ExperimentalWasmModules bool     `yaml:"experimentalWasmModules"`
	BestEffort              bool     `yaml:"bestEffort"`
}

var configFileName = "node-resolve.config.yaml"

// LoadConfig loads the configuration from the specified path.
// configPath can be a specific file path or a directory containing
// node-resolve.config.yaml. An absent file is only an error when the user
// asked for that file explicitly.
func LoadConfig(configPath string, explicit bool) (NodeResolveConfig, error) {
	var config NodeResolveConfig

	if configPath == "" {
		configPath = currentDir
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		if explicit {
			return config, err
		}
		return config, nil
	}

	actualPath := configPath
	if fileInfo.IsDir() {
		actualPath = filepath.Join(configPath, configFileName)
		if _, err := os.Stat(actualPath); err != nil {
			if explicit {
				return config, err
			}
			return config, nil
		}
	}

	content, err := os.ReadFile(actualPath)
	if err != nil {
		return config, err
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("failed to parse config '%s': %w", actualPath, err)
	}

	return config, nil
}
