package theme

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// minEngineVersion is the oldest engine release whose theme schema this
// loader understands.
const minEngineVersion = "v0.4.0"

// File is the on-disk shape of a theme scope.
type File struct {
	Engine EngineConfig   `yaml:"engine"`
	Theme  map[string]any `yaml:"theme"`
}

// EngineConfig pins the engine release a theme file targets.
type EngineConfig struct {
	Version string `yaml:"version,omitempty"`
}

// Load reads one theme scope from a YAML file. A missing file is not an
// error and yields an empty scope, so optional override files need no
// existence check at the call site.
func Load(path string) (Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Properties{}, nil
		}
		return nil, fmt.Errorf("failed to read theme file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes one theme scope from YAML bytes.
func Parse(data []byte) (Properties, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}
	if err := checkEngineVersion(f.Engine.Version); err != nil {
		return nil, err
	}
	if f.Theme == nil {
		return Properties{}, nil
	}
	return Properties(f.Theme), nil
}

// LoadStack builds a stack from theme files in priority order (first file
// shadows the rest), with the built-in defaults as the final scope.
func LoadStack(paths ...string) (*ThemeStack, error) {
	stack := NewStack(DefaultProperties())
	for i := len(paths) - 1; i >= 0; i-- {
		scope, err := Load(paths[i])
		if err != nil {
			return nil, err
		}
		stack = stack.Override(scope)
	}
	return stack, nil
}

// checkEngineVersion validates an optional engine.version pin. An empty
// version targets the current engine.
func checkEngineVersion(version string) error {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid engine version %q in theme file", version)
	}
	if semver.Compare(v, minEngineVersion) < 0 {
		return fmt.Errorf("theme file targets engine %s, minimum supported is %s", version, minEngineVersion)
	}
	return nil
}
