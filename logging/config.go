package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes the levels and root handlers of a hierarchy. It is plain
// data: build it in code, with a Builder, or load it from YAML:
//
//	level: INFO
//	loggers:
//	  xutil.xtest: DEBUG
//	  TRACE2.pipe: 10
type Config struct {
	Level   Level            `yaml:"level"`
	Loggers map[string]Level `yaml:"loggers"`

	// ReplaceHandlers drops the root handlers before Handlers are added.
	ReplaceHandlers bool      `yaml:"replace_handlers"`
	Handlers        []Handler `yaml:"-"`
}

// UnmarshalYAML accepts level names and numbers.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("logging: line %d: level must be a scalar", value.Line)
	}
	parsed, err := ParseLevel(value.Value)
	if err != nil {
		return fmt.Errorf("logging: line %d: %w", value.Line, err)
	}
	*l = parsed
	return nil
}

func (l Level) MarshalYAML() (any, error) { return LevelName(l), nil }

// ParseConfig decodes a YAML configuration.
func ParseConfig(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("logging: parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and decodes the YAML file at path.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("logging: load config: %w", err)
	}
	return ParseConfig(b)
}

// ConfigFromEnv reads XUTIL_LOG_LEVEL (root level) and XUTIL_LOG_LEVELS
// ("name=LEVEL,name=LEVEL").
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if s := os.Getenv("XUTIL_LOG_LEVEL"); s != "" {
		l, err := ParseLevel(s)
		if err != nil {
			return Config{}, fmt.Errorf("logging: XUTIL_LOG_LEVEL: %w", err)
		}
		cfg.Level = l
	}
	if s := os.Getenv("XUTIL_LOG_LEVELS"); s != "" {
		cfg.Loggers = make(map[string]Level)
		for _, pair := range strings.Split(s, ",") {
			name, lv, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok {
				return Config{}, fmt.Errorf("logging: XUTIL_LOG_LEVELS: malformed entry %q", pair)
			}
			l, err := ParseLevel(lv)
			if err != nil {
				return Config{}, fmt.Errorf("logging: XUTIL_LOG_LEVELS: %w", err)
			}
			cfg.Loggers[strings.TrimSpace(name)] = l
		}
	}
	return cfg, nil
}

// Configure applies cfg to the default hierarchy.
func Configure(cfg Config) { defaultManager.Configure(cfg) }

// Configure applies cfg to m. Logger levels go through Adapter.SetLevel so
// foreign-scale values are rescaled.
func (m *Manager) Configure(cfg Config) {
	root := m.GetLogger("")
	if cfg.Level != LevelNotSet {
		root.SetLevel(cfg.Level)
	}
	for name, l := range cfg.Loggers {
		m.GetLogger(name).SetLevel(l)
	}
	if cfg.ReplaceHandlers {
		m.root.ClearHandlers()
	}
	for _, h := range cfg.Handlers {
		root.AddHandler(h)
	}
}

// Builder separates construction from representation (Builder pattern).
type Builder struct {
	cfg Config
}

func NewBuilder() *Builder {
	return &Builder{cfg: Config{Level: LevelInfo}}
}

func (b *Builder) WithLevel(l Level) *Builder {
	b.cfg.Level = l
	return b
}

func (b *Builder) WithLoggerLevel(name string, l Level) *Builder {
	if b.cfg.Loggers == nil {
		b.cfg.Loggers = make(map[string]Level)
	}
	b.cfg.Loggers[name] = l
	return b
}

func (b *Builder) AddHandler(h Handler) *Builder {
	b.cfg.Handlers = append(b.cfg.Handlers, h)
	return b
}

// WithDefaultHandler adds the registered default handler writing to w.
func (b *Builder) WithDefaultHandler(w io.Writer) *Builder {
	return b.AddHandler(NewDefaultHandler(w))
}

func (b *Builder) ReplaceHandlers() *Builder {
	b.cfg.ReplaceHandlers = true
	return b
}

// Merge overlays the non-zero parts of other, e.g. a file or env config.
func (b *Builder) Merge(other Config) *Builder {
	if other.Level != LevelNotSet {
		b.cfg.Level = other.Level
	}
	for name, l := range other.Loggers {
		b.WithLoggerLevel(name, l)
	}
	b.cfg.Handlers = append(b.cfg.Handlers, other.Handlers...)
	b.cfg.ReplaceHandlers = b.cfg.ReplaceHandlers || other.ReplaceHandlers
	return b
}

// Build returns the configuration; it fails with ErrNoHandler when no
// handler was added.
func (b *Builder) Build() (Config, error) {
	if len(b.cfg.Handlers) == 0 {
		return Config{}, ErrNoHandler
	}
	cfg := b.cfg
	cfg.Handlers = append([]Handler(nil), b.cfg.Handlers...)
	if b.cfg.Loggers != nil {
		cfg.Loggers = make(map[string]Level, len(b.cfg.Loggers))
		for k, v := range b.cfg.Loggers {
			cfg.Loggers[k] = v
		}
	}
	return cfg, nil
}
