package cli

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/simpl/internal/errors"
	"github.com/toyz/simpl/internal/generator"
	"github.com/toyz/simpl/internal/manifest"
)

// ConfigFileName is the workspace configuration file looked up at the
// workspace root.
const ConfigFileName = "simpl.yaml"

// Config holds the workspace configuration read from simpl.yaml
type Config struct {
	// CoresDir is the directory holding one subdirectory per project,
	// relative to the workspace root
	CoresDir string `yaml:"coresDir"`

	// ManifestAPI is the #%SimplAPI version manifests must match (major)
	ManifestAPI string `yaml:"manifestApi"`

	// FileType is the Vivado FILE_TYPE applied to every .vhd file
	FileType string `yaml:"fileType"`

	// MaxDepth bounds the manifest dependency chain
	MaxDepth int `yaml:"maxDepth"`

	Naming    NamingConfig    `yaml:"naming"`
	Clock     ClockConfig     `yaml:"clock"`
	Templates TemplatesConfig `yaml:"templates"`
	Vivado    VivadoConfig    `yaml:"vivado"`
}

// NamingConfig controls testbench signal naming
type NamingConfig struct {
	InputSuffix  string `yaml:"inputSuffix"`
	OutputSuffix string `yaml:"outputSuffix"`
}

// ClockConfig controls clock process generation
type ClockConfig struct {
	Indicators []string `yaml:"indicators"`
	HalfPeriod string   `yaml:"halfPeriod"`
}

// TemplatesConfig points at template overrides, relative to the workspace
// root. Empty means built-in.
type TemplatesConfig struct {
	Testbench string `yaml:"testbench"`
}

// VivadoConfig describes the external tool invocation printed by check
type VivadoConfig struct {
	Command string `yaml:"command"`
}

// DefaultConfig returns the configuration used when no simpl.yaml exists
func DefaultConfig() *Config {
	opts := generator.DefaultOptions()
	return &Config{
		CoresDir:    "cores",
		ManifestAPI: manifest.DefaultAPIVersion,
		FileType:    "VHDL 2008",
		MaxDepth:    manifest.DefaultMaxDepth,
		Naming: NamingConfig{
			InputSuffix:  opts.InputSuffix,
			OutputSuffix: opts.OutputSuffix,
		},
		Clock: ClockConfig{
			Indicators: opts.ClockIndicators,
			HalfPeriod: opts.HalfPeriod,
		},
		Vivado: VivadoConfig{Command: "vivado"},
	}
}

// applyDefaults fills every unset field from DefaultConfig
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.CoresDir == "" {
		c.CoresDir = d.CoresDir
	}
	if c.ManifestAPI == "" {
		c.ManifestAPI = d.ManifestAPI
	}
	if c.FileType == "" {
		c.FileType = d.FileType
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.Naming.InputSuffix == "" {
		c.Naming.InputSuffix = d.Naming.InputSuffix
	}
	if c.Naming.OutputSuffix == "" {
		c.Naming.OutputSuffix = d.Naming.OutputSuffix
	}
	if len(c.Clock.Indicators) == 0 {
		c.Clock.Indicators = d.Clock.Indicators
	}
	if c.Clock.HalfPeriod == "" {
		c.Clock.HalfPeriod = d.Clock.HalfPeriod
	}
	if c.Vivado.Command == "" {
		c.Vivado.Command = d.Vivado.Command
	}
}

// validate rejects values the commands cannot work with
func (c *Config) validate(path string) error {
	fail := func(msg string) error {
		return errors.WrapConfigurationError(path, "validate", stderrors.New(msg))
	}
	if c.MaxDepth < 0 {
		return fail("maxDepth must not be negative")
	}
	if !filepath.IsLocal(filepath.FromSlash(c.CoresDir)) {
		return fail("coresDir must be a relative path inside the workspace")
	}
	if c.Templates.Testbench != "" && !filepath.IsLocal(filepath.FromSlash(c.Templates.Testbench)) {
		return fail("templates.testbench must be a relative path inside the workspace")
	}
	if strings.ContainsAny(c.FileType, "{}") {
		return fail("fileType must not contain braces")
	}
	return nil
}

// GeneratorOptions returns the scaffold generator settings
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		InputSuffix:     c.Naming.InputSuffix,
		OutputSuffix:    c.Naming.OutputSuffix,
		ClockIndicators: c.Clock.Indicators,
		HalfPeriod:      c.Clock.HalfPeriod,
	}
}

// ResolverOptions returns the manifest resolver settings
func (c *Config) ResolverOptions() []manifest.Option {
	return []manifest.Option{
		manifest.WithAPIVersion(c.ManifestAPI),
		manifest.WithMaxDepth(c.MaxDepth),
	}
}

// LoadConfig reads simpl.yaml from root. A missing file yields
// DefaultConfig.
func LoadConfig(root string) (*Config, error) {
	path := filepath.Join(root, ConfigFileName)
	cfg, err := LoadConfigFile(path)
	if errors.HasCode(err, errors.ConfigurationErrorCode) && stderrors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadConfigFile reads the configuration at path. Unknown keys are
// rejected.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "read", err)
	}
	return parseConfig(path, data)
}

func parseConfig(path string, data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapConfigurationError(path, "parse", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}
