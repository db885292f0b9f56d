package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/jsonc"
)

// EnginesSatisfied checks a package.json engines range against a concrete
// Node version. An empty or wildcard range accepts everything.
func EnginesSatisfied(rangeStr string, nodeVersion string) (bool, error) {
	if rangeStr == "" || rangeStr == "*" {
		return true, nil
	}
	r, err := semver.NewConstraint(rangeStr)
	if err != nil {
		return false, err
	}
	v, err := semver.NewVersion(nodeVersion)
	if err != nil {
		return false, err
	}
	return r.Check(v), nil
}

// findEnclosingEngines walks up from a resolved file looking for the nearest
// package.json and returns its engines.node range, if any.
func findEnclosingEngines(resolvedPath string) (packageName string, enginesRange string, found bool) {
	dir := filepath.Dir(resolvedPath)
	for {
		manifestPath := filepath.Join(dir, "package.json")
		if content, err := os.ReadFile(manifestPath); err == nil {
			var manifest struct {
				Name    string            `json:"name"`
				Engines map[string]string `json:"engines"`
			}
			if err := json.Unmarshal(jsonc.ToJSON(content), &manifest); err == nil {
				return manifest.Name, manifest.Engines["node"], true
			}
			return "", "", false
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", false
		}
		dir = parent
	}
}

func warnOnEnginesMismatch(resolvedPath string, nodeVersion string) {
	packageName, enginesRange, found := findEnclosingEngines(resolvedPath)
	if !found || enginesRange == "" {
		return
	}
	ok, err := EnginesSatisfied(enginesRange, nodeVersion)
	if err != nil {
		logWarning(fmt.Sprintf("could not check engines for '%s': %v", packageName, err))
		return
	}
	if !ok {
		logWarning(fmt.Sprintf("package '%s' requires node %s, got %s", packageName, enginesRange, nodeVersion))
	}
}
