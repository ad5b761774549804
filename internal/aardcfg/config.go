// Package aardcfg loads the orchestrator's YAML configuration: the
// external script to run, where its output files land, and which plugins
// to run in what order with what options.
package aardcfg

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// DiscoveryFileName is the config file Discover walks upward looking for.
const DiscoveryFileName = ".aardwolf.yml"

// PluginConfig is one entry of the plugins list: either a plain string
// (just an id) or a map with an id and an optional options submap.
type PluginConfig struct {
	ID      string
	Options map[string]any
}

// UnmarshalYAML accepts either a bare scalar plugin id or a mapping with
// id/options keys.
func (p *PluginConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&p.ID)
	}
	var raw struct {
		ID      string         `yaml:"id"`
		Options map[string]any `yaml:"options"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	p.ID = raw.ID
	p.Options = raw.Options
	return nil
}

// Config is the orchestrator's parsed YAML document.
type Config struct {
	Script    []string       `yaml:"script"`
	OutputDir string         `yaml:"output_dir"`
	Plugins   []PluginConfig `yaml:"plugins"`
}

// Load reads and parses the config file at path. OutputDir, if relative,
// is resolved against the config file's own directory rather than the
// process's working directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("aardcfg: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("aardcfg: parse %s: %w", path, err)
	}

	if cfg.OutputDir != "" && !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(filepath.Dir(path), cfg.OutputDir)
	}
	return cfg, nil
}

// Discover walks upward from startDir looking for DiscoveryFileName,
// the way `go build` walks upward looking for go.mod.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, DiscoveryFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("aardcfg: no %s found above %s", DiscoveryFileName, startDir)
		}
		dir = parent
	}
}

// ModuleRoot walks upward from startDir looking for go.mod and parses it,
// returning the directory that contains it and its declared module path.
// The run command uses the returned directory as the script's WORK_DIR
// instead of the process's working directory; TARGET_FILE is not resolved
// against it.
func ModuleRoot(startDir string) (dir, modulePath string, err error) {
	dir, err = filepath.Abs(startDir)
	if err != nil {
		return "", "", err
	}
	for {
		candidate := filepath.Join(dir, "go.mod")
		data, readErr := os.ReadFile(candidate)
		if readErr == nil {
			f, parseErr := modfile.Parse(candidate, data, nil)
			if parseErr != nil {
				return "", "", fmt.Errorf("aardcfg: parse %s: %w", candidate, parseErr)
			}
			if f.Module == nil {
				return "", "", fmt.Errorf("aardcfg: %s has no module directive", candidate)
			}
			return dir, f.Module.Mod.Path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("aardcfg: no go.mod found above %s", startDir)
		}
		dir = parent
	}
}
