package exectest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML form of an explicit executable list:
//
//	root_dir: ../bin
//	executables:
//	  - path: tool
//	    args: ["--selftest"]
//
// A relative root_dir is taken from the manifest's directory.
type Manifest struct {
	RootDir     string       `yaml:"root_dir"`
	Executables []Executable `yaml:"executables"`
}

// LoadManifest reads a manifest. Relative executable paths are resolved
// against the root directory.
func LoadManifest(path string) (*Executables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("exectest: load manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("exectest: parse manifest %s: %w", path, err)
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("exectest: %w", err)
	}
	root := resolve(dir, m.RootDir)
	list := make([]Executable, len(m.Executables))
	for i, x := range m.Executables {
		if x.Path == "" {
			return nil, fmt.Errorf("exectest: manifest %s: entry %d has no path", path, i)
		}
		list[i] = Executable{Path: resolve(root, x.Path), Args: x.Args}
	}
	return &Executables{RootDir: root, List: list, discovered: len(list), done: true}, nil
}
