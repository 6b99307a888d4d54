package leak

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML form of the session settings:
//
//	ignore:
//	  - "/**/*.sqlite3"
//	max_print: 50
//
// Ignore patterns are added to DefaultIgnore.
type Config struct {
	Ignore   []string `yaml:"ignore"`
	MaxPrint int      `yaml:"max_print"`
}

func ParseConfig(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("leak: parse config: %w", err)
	}
	if err := ValidatePatterns(cfg.Ignore); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("leak: load config: %w", err)
	}
	return ParseConfig(b)
}
