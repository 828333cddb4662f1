// Package config loads and validates the generator run configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"nucascade/internal/logging"
	"nucascade/pkg/nucleus"
)

// Source spectrum types.
const (
	SourceMono       = "mono"
	SourceFermiDirac = "fermi-dirac"
)

// Config is the full run configuration. Zero or missing sections keep the
// Default values.
type Config struct {
	Run       Run             `yaml:"run"`
	Target    nucleus.Nuclide `yaml:"target"`
	Source    Source          `yaml:"source"`
	Structure Structure       `yaml:"structure"`
	Sink      Sink            `yaml:"sink"`
	Archive   Archive         `yaml:"archive"`
	Logging   Logging         `yaml:"logging"`
	Metrics   Metrics         `yaml:"metrics"`
}

// Run sets how many events to generate and how.
type Run struct {
	Events int    `yaml:"events"`
	Seed   uint64 `yaml:"seed"`
	Shards int    `yaml:"shards"`
}

// Source selects and parameterizes the projectile spectrum. Energy applies
// to mono, Temperature/Eta/EMin/EMax to fermi-dirac. All energies are MeV.
type Source struct {
	Type        string  `yaml:"type"`
	Energy      float64 `yaml:"energy"`
	Temperature float64 `yaml:"temperature"`
	Eta         float64 `yaml:"eta"`
	EMin        float64 `yaml:"emin"`
	EMax        float64 `yaml:"emax"`
}

// String renders the spectrum in the short form run records carry.
func (s Source) String() string {
	switch s.Type {
	case SourceMono:
		return fmt.Sprintf("mono E=%g", s.Energy)
	case SourceFermiDirac:
		if s.Eta != 0 {
			return fmt.Sprintf("fermi-dirac T=%g eta=%g", s.Temperature, s.Eta)
		}
		return fmt.Sprintf("fermi-dirac T=%g", s.Temperature)
	default:
		return s.Type
	}
}

// Structure selects the structure database backend.
type Structure struct {
	Driver string `yaml:"driver"` // memory | sqlite
	Path   string `yaml:"path"`   // dataset YAML (memory) or db file (sqlite)
}

// Sink selects where event files are written.
type Sink struct {
	Driver string `yaml:"driver"` // fs | memory | s3
	Root   string `yaml:"root"`   // fs root directory
}

// Archive selects the run catalog backend.
type Archive struct {
	Driver string `yaml:"driver"` // memory | sqlite | postgres
	Path   string `yaml:"path"`   // sqlite file
	DSN    string `yaml:"dsn"`    // postgres connection string
}

// Logging sets the process log level and handler format.
type Logging struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Metrics toggles the metrics recorders.
type Metrics struct {
	Expvar     bool `yaml:"expvar"`
	Prometheus bool `yaml:"prometheus"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Run:    Run{Events: 100, Seed: 1, Shards: 1},
		Target: nucleus.Nuclide{Z: 18, A: 40},
		Source: Source{
			Type:        SourceFermiDirac,
			Temperature: 3.5,
			EMax:        25,
		},
		Structure: Structure{Driver: "memory"},
		Sink:      Sink{Driver: "fs", Root: "./rundata"},
		Archive:   Archive{Driver: "sqlite", Path: "nucascade-runs.db"},
		Logging:   Logging{Level: "info", Format: "text"},
		Metrics:   Metrics{Expvar: true},
	}
}

// Load reads, parses and validates the YAML configuration at path.
// Omitted keys keep their Default values; unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

var (
	structureDrivers = map[string]bool{"memory": true, "sqlite": true}
	sinkDrivers      = map[string]bool{"fs": true, "memory": true, "s3": true}
	archiveDrivers   = map[string]bool{"memory": true, "sqlite": true, "postgres": true}
	logFormats       = map[string]bool{"text": true, "json": true}
)

// Validate checks the configuration for values the generator cannot run with.
func (c Config) Validate() error {
	if c.Run.Events <= 0 {
		return fmt.Errorf("run: events must be positive, got %d", c.Run.Events)
	}
	if c.Run.Shards < 1 {
		return fmt.Errorf("run: shards must be at least 1, got %d", c.Run.Shards)
	}
	if c.Target.Z < 1 || c.Target.A < c.Target.Z {
		return fmt.Errorf("target: invalid nuclide Z=%d A=%d", c.Target.Z, c.Target.A)
	}
	if err := c.Source.validate(); err != nil {
		return err
	}
	if !structureDrivers[c.Structure.Driver] {
		return fmt.Errorf("structure: unknown driver %q", c.Structure.Driver)
	}
	if !sinkDrivers[c.Sink.Driver] {
		return fmt.Errorf("sink: unknown driver %q", c.Sink.Driver)
	}
	if !archiveDrivers[c.Archive.Driver] {
		return fmt.Errorf("archive: unknown driver %q", c.Archive.Driver)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if !logFormats[c.Logging.Format] {
		return fmt.Errorf("logging: unknown format %q", c.Logging.Format)
	}
	return nil
}

func (s Source) validate() error {
	switch s.Type {
	case SourceMono:
		if s.Energy <= 0 {
			return fmt.Errorf("source: mono energy must be positive, got %g MeV", s.Energy)
		}
	case SourceFermiDirac:
		if s.Temperature <= 0 {
			return fmt.Errorf("source: temperature must be positive, got %g MeV", s.Temperature)
		}
		if s.EMin < 0 || s.EMax <= s.EMin {
			return fmt.Errorf("source: invalid energy window [%g, %g] MeV", s.EMin, s.EMax)
		}
	default:
		return fmt.Errorf("source: unknown type %q", s.Type)
	}
	return nil
}
