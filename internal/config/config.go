package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/vl53l1x/internal/roi"
)

const (
	DefaultAddress   = 0x29
	DefaultTimeout   = 2 * time.Second
	BusDefaultHz     = 50000
	RecommendedBusHz = 400000
)

var ErrInvalidConfig = errors.New("invalid sensor config")

// Config describes one VL53L1X sensor on an I2C bus.
type Config struct {
	Address     uint8         `yaml:"address"`
	Frequency   int           `yaml:"frequency"` // I2C bus clock in Hz
	Timeout     time.Duration `yaml:"timeout"`
	Pins        Pins          `yaml:"pins"`
	Calibration Calibration   `yaml:"calibration"`
	ROI         roi.ROI       `yaml:"roi"`
}

// Pins holds optional GPIO numbers.
type Pins struct {
	XShut     *int `yaml:"xshut,omitempty"`
	Interrupt *int `yaml:"interrupt,omitempty"`
}

type Calibration struct {
	Ranging   RangingMode `yaml:"ranging"`
	Crosstalk *CountRate  `yaml:"crosstalk,omitempty"`
	Offset    *Distance   `yaml:"offset,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Address:   DefaultAddress,
		Frequency: RecommendedBusHz,
		Timeout:   DefaultTimeout,
		ROI:       roi.New(16, 16, 199),
	}
}

// Normalize applies the adjustments the driver would make on its own
// and reports each one. A bus left at its 50kHz default is raised to
// 400kHz.
func (c *Config) Normalize() []string {
	var notes []string
	if c.Frequency == BusDefaultHz {
		c.Frequency = RecommendedBusHz
		notes = append(notes, fmt.Sprintf("I2C frequency raised from %dkHz to %dkHz", BusDefaultHz/1000, RecommendedBusHz/1000))
	}
	return notes
}

// Validate rejects values the driver cannot use and returns warnings for
// values it can use but should not. It does not modify c.
func (c *Config) Validate() ([]string, error) {
	var warnings []string
	var errs []error

	if c.Address > 0x7F {
		errs = append(errs, fmt.Errorf("%w: address 0x%02X is not a 7-bit I2C address", ErrInvalidConfig, c.Address))
	}
	if c.Timeout < time.Millisecond {
		errs = append(errs, fmt.Errorf("%w: timeout must be at least 1ms, got %s", ErrInvalidConfig, c.Timeout))
	}

	switch {
	case c.Frequency <= 0:
		errs = append(errs, fmt.Errorf("%w: frequency must be positive, got %d", ErrInvalidConfig, c.Frequency))
	case c.Frequency < RecommendedBusHz:
		warnings = append(warnings, fmt.Sprintf("Recommended I2C frequency for VL53L1X is %dkHz. Currently: %dkHz", RecommendedBusHz/1000, c.Frequency/1000))
	}

	if err := c.ROI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	return warnings, errors.Join(errs...)
}

// Load reads a YAML config on top of Default. Keys outside the schema
// are rejected. An empty file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
