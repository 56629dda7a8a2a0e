// Package config holds the runtime knobs for a drawing run.
package config

import (
	"os"

	"github.com/FlavioCFOliveira/NeuralDrawer/internal/net"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a drawing run.
type Config struct {
	Image         string `yaml:"image"`
	Output        string `yaml:"output"`
	Composite     string `yaml:"composite"`
	Zoom          int    `yaml:"zoom"`
	TelemetryCSV  string `yaml:"telemetry_csv"`
	SnapshotEvery int    `yaml:"snapshot_every"`
	LogEvery      int    `yaml:"log_every"`

	HiddenLayers int     `yaml:"hidden_layers"`
	HiddenWidth  int     `yaml:"hidden_width"`
	Activation   string  `yaml:"activation"`
	LeakyAlpha   float64 `yaml:"leaky_alpha"`
	Loss         string  `yaml:"loss"`
	Optimizer    string  `yaml:"optimizer"`
	LearningRate float64 `yaml:"learning_rate"`
	Momentum     float64 `yaml:"momentum"`
	Seed         int64   `yaml:"seed"`
	SampleSeed   int64   `yaml:"sample_seed"`

	BatchSize  int `yaml:"batch_size"`
	NumBatches int `yaml:"num_batches"`
	MaxCycles  int `yaml:"max_cycles"`
	Workers    int `yaml:"workers"`
}

// Overrides captures CLI supplied values. Zero values leave the config alone.
type Overrides struct {
	Image         string
	Output        string
	Composite     string
	TelemetryCSV  string
	SnapshotEvery int
	MaxCycles     int
	Seed          int64
	SampleSeed    int64
	Workers       int
}

// Default returns the reference configuration: five hidden layers of 100
// leaky ReLU units, Nesterov momentum 0.9 at learning rate 0.05, five
// batches of 1000 samples per cycle.
func Default() *Config {
	m := net.DefaultModelConfig()
	return &Config{
		Output:        "out.png",
		Zoom:          1,
		SnapshotEvery: 1,
		LogEvery:      10,

		HiddenLayers: len(m.Hidden),
		HiddenWidth:  m.Hidden[0],
		Activation:   m.Activation,
		LeakyAlpha:   m.LeakyAlpha,
		Loss:         m.Loss,
		Optimizer:    m.Optimizer,
		LearningRate: m.LearningRate,
		Momentum:     m.Momentum,
		Seed:         m.Seed,

		BatchSize:  1000,
		NumBatches: 5,
	}
}

// Load reads a YAML file on top of Default. The result is not validated;
// callers apply overrides first and then call Validate.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Image != "" {
		c.Image = o.Image
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Composite != "" {
		c.Composite = o.Composite
	}
	if o.TelemetryCSV != "" {
		c.TelemetryCSV = o.TelemetryCSV
	}
	if o.SnapshotEvery > 0 {
		c.SnapshotEvery = o.SnapshotEvery
	}
	if o.MaxCycles > 0 {
		c.MaxCycles = o.MaxCycles
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.SampleSeed != 0 {
		c.SampleSeed = o.SampleSeed
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Image == "" {
		return errors.New("image must be set")
	}
	if c.BatchSize <= 0 {
		return errors.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.NumBatches <= 0 {
		return errors.Errorf("num_batches must be > 0 (got %d)", c.NumBatches)
	}
	if c.MaxCycles < 0 {
		return errors.Errorf("max_cycles must be >= 0 (got %d)", c.MaxCycles)
	}
	if c.HiddenLayers < 0 {
		return errors.Errorf("hidden_layers must be >= 0 (got %d)", c.HiddenLayers)
	}
	if c.HiddenLayers > 0 && c.HiddenWidth <= 0 {
		return errors.Errorf("hidden_width must be > 0 (got %d)", c.HiddenWidth)
	}
	if c.SnapshotEvery <= 0 {
		c.SnapshotEvery = 1
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 10
	}
	if c.Zoom <= 0 {
		c.Zoom = 1
	}
	return errors.Wrap(c.Model().Validate(), "model")
}

// Model returns the network description for this config.
func (c *Config) Model() net.ModelConfig {
	m := net.DefaultModelConfig()
	m.Hidden = make([]int, c.HiddenLayers)
	for i := range m.Hidden {
		m.Hidden[i] = c.HiddenWidth
	}
	m.Activation = c.Activation
	m.LeakyAlpha = c.LeakyAlpha
	m.Loss = c.Loss
	m.Optimizer = c.Optimizer
	m.LearningRate = c.LearningRate
	m.Momentum = c.Momentum
	m.Seed = c.Seed
	return m
}
