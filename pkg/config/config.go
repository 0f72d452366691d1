package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/edp1096/toy-tonestack/pkg/analysis"
	"github.com/edp1096/toy-tonestack/pkg/circuit"
	"github.com/edp1096/toy-tonestack/pkg/netlist"
	"github.com/edp1096/toy-tonestack/pkg/sweep"
	"github.com/edp1096/toy-tonestack/pkg/tonestack"
	"github.com/edp1096/toy-tonestack/pkg/transfer"
	"github.com/edp1096/toy-tonestack/pkg/value"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is one tone stack study.
type Config struct {
	Title   string        `yaml:"title"`
	Sweep   sweep.Config  `yaml:"sweep"`
	Circuit CircuitConfig `yaml:"circuit"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// set when the YAML carried its own sweep section
	sweepSet bool
}

// CircuitConfig selects either a built-in circuit by Kind or a netlist file.
type CircuitConfig struct {
	Kind    string               `yaml:"kind"`
	Values  map[string]string    `yaml:"values"` // R1: 250k, C1: 250p
	Pots    map[string]PotConfig `yaml:"pots"`
	Netlist string               `yaml:"netlist"`
	Input   string               `yaml:"input"`  // voltage source, overrides .tf
	Output  string               `yaml:"output"` // node, overrides .tf
}

type PotConfig struct {
	Rotation float64 `yaml:"rotation"` // 0..10
	Taper    string  `yaml:"taper"`    // linear, logA, logB
}

// OutputConfig names the files a sweep writes. Relative paths are joined
// to Dir; empty entries are skipped.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	PNG  string `yaml:"png"`
	SVG  string `yaml:"svg"`
	XLSX string `yaml:"xlsx"`
	CSV  string `yaml:"csv"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultSweep is 50 points per decade from 10 Hz to 100 kHz.
func DefaultSweep() sweep.Config {
	return sweep.Config{Deviation: 50, StartFreq: 10, StopFreq: 100000, Mode: sweep.Geometric}
}

func DefaultConfig() *Config {
	return &Config{
		Title:   "Tone stack",
		Sweep:   DefaultSweep(),
		Circuit: CircuitConfig{Kind: "fender"},
		Output:  OutputConfig{Dir: "."},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// netlist paths are relative to the config file
	if cfg.Circuit.Netlist != "" && !filepath.IsAbs(cfg.Circuit.Netlist) {
		cfg.Circuit.Netlist = filepath.Join(filepath.Dir(path), cfg.Circuit.Netlist)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, applies environment overrides and
// validates.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var probe struct {
		Sweep *yaml.Node `yaml:"sweep"`
	}
	if err := yaml.Unmarshal(data, &probe); err == nil && probe.Sweep != nil {
		cfg.sweepSet = true
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("TONESTACK_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	if level := os.Getenv("TONESTACK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

func (c *Config) Validate() error {
	if err := c.Sweep.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if c.Circuit.Netlist == "" {
		if _, err := c.Circuit.Provider(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging level: %w", ErrInvalid, err)
	}
	return nil
}

// ComponentValues parses Values with the profile its designator implies,
// so R1 reads ohms and C1 reads farads.
func (c CircuitConfig) ComponentValues() (map[string]float64, error) {
	values := make(map[string]float64, len(c.Values))
	for _, name := range sortedKeys(c.Values) {
		text := c.Values[name]
		profile := value.ProfileForName(name)
		parsed, ok := profile.Parse(text)
		if !ok || text == "" {
			return nil, fmt.Errorf("component %s: invalid %s value %q", name, profile.Name, text)
		}
		values[name] = parsed.Value
	}
	return values, nil
}

func (c CircuitConfig) PotSettings() (map[string]tonestack.Pot, error) {
	pots := make(map[string]tonestack.Pot, len(c.Pots))
	for name, p := range c.Pots {
		taper, err := tonestack.ParseTaper(p.Taper)
		if err != nil {
			return nil, fmt.Errorf("pot %s: %w", name, err)
		}
		if p.Rotation < 0 || p.Rotation > 10 {
			return nil, fmt.Errorf("pot %s: rotation %g outside 0..10", name, p.Rotation)
		}
		pots[name] = tonestack.Pot{Rotation: p.Rotation, Taper: taper}
	}
	return pots, nil
}

// Provider builds the built-in circuit named by Kind.
func (c CircuitConfig) Provider() (tonestack.Provider, error) {
	values, err := c.ComponentValues()
	if err != nil {
		return nil, err
	}
	pots, err := c.PotSettings()
	if err != nil {
		return nil, err
	}
	return tonestack.New(c.Kind, values, pots)
}

// Source is a ready response plus the sweep its netlist asked for.
type Source struct {
	Response transfer.Response
	Sweep    *sweep.Config // from a netlist .ac card
	Title    string
	close    func()
}

// Close releases the circuit matrix of netlist sources.
func (s *Source) Close() {
	if s.close != nil {
		s.close()
		s.close = nil
	}
}

// Source builds the response the configuration describes.
func (c *Config) Source(logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if c.Circuit.Netlist == "" {
		p, err := c.Circuit.Provider()
		if err != nil {
			return nil, err
		}
		logger.Debug("built-in circuit", zap.String("kind", c.Circuit.Kind), zap.Any("values", c.Circuit.Values))
		return &Source{Response: tonestack.Response(p), Title: c.Title}, nil
	}

	data, err := netlist.Load(c.Circuit.Netlist, logger)
	if err != nil {
		return nil, err
	}
	ckt, err := circuit.Build(data)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", c.Circuit.Netlist, err)
	}

	input, output := data.TFParam.Input, data.TFParam.Output
	if c.Circuit.Input != "" {
		input = c.Circuit.Input
	}
	if c.Circuit.Output != "" {
		output = c.Circuit.Output
	}
	if input == "" || output == "" {
		ckt.Destroy()
		return nil, fmt.Errorf("%s: transfer needs an input source and an output node (.tf V(out) V1)", c.Circuit.Netlist)
	}

	ac, err := analysis.NewACFromSource(ckt, input, output)
	if err != nil {
		ckt.Destroy()
		return nil, fmt.Errorf("%s: %w", c.Circuit.Netlist, err)
	}

	src := &Source{Response: ac, Title: data.Title, close: ckt.Destroy}
	if cfg, ok := data.Sweep(); ok {
		src.Sweep = &cfg
	}
	return src, nil
}

// ResolveSweep prefers the YAML sweep section, then the netlist .ac card,
// then the defaults.
func (c *Config) ResolveSweep(src *Source) sweep.Config {
	if !c.sweepSet && src != nil && src.Sweep != nil {
		return *src.Sweep
	}
	return c.Sweep
}

// Path resolves an output file name, "" stays "".
func (o OutputConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || o.Dir == "" {
		return name
	}
	return filepath.Join(o.Dir, name)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
