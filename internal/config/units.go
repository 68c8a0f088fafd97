package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// RangingMode selects the distance preset programmed at startup.
// RangingAuto leaves the choice to the driver.
type RangingMode int

const (
	RangingAuto RangingMode = iota
	RangingShortest
	RangingShort
	RangingMedium
	RangingLong
	RangingLonger
	RangingLongest
)

var rangingNames = []string{"auto", "shortest", "short", "medium", "long", "longer", "longest"}

func (m RangingMode) String() string {
	if m < 0 || int(m) >= len(rangingNames) {
		return "unknown"
	}
	return rangingNames[m]
}

func ParseRangingMode(s string) (RangingMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return RangingAuto, nil
	}
	for i, n := range rangingNames {
		if n == name {
			return RangingMode(i), nil
		}
	}
	return RangingAuto, fmt.Errorf("unknown ranging mode %q, expected one of %s", s, strings.Join(rangingNames, ", "))
}

func (m RangingMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

func (m *RangingMode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: ranging must be a scalar", value.Line)
	}
	mode, err := ParseRangingMode(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*m = mode
	return nil
}

// Distance is a signed length in millimetres, as the offset register
// stores it. In YAML it accepts "12mm", "1.5cm", "0.02m" or a bare
// number of metres.
type Distance int16

var distanceUnits = map[string]float64{
	"":   1000,
	"m":  1000,
	"cm": 10,
	"mm": 1,
}

func ParseDistance(s string) (Distance, error) {
	num, unit := splitUnit(s)
	factor, ok := distanceUnits[unit]
	if !ok {
		return 0, fmt.Errorf("distance %q: unknown unit %q", s, unit)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("distance %q: %w", s, err)
	}

	mm := math.Round(v * factor)
	if mm < math.MinInt16 || mm > math.MaxInt16 {
		return 0, fmt.Errorf("distance %q: %vmm out of range [%d, %d]", s, mm, math.MinInt16, math.MaxInt16)
	}
	return Distance(mm), nil
}

func (d Distance) String() string {
	return fmt.Sprintf("%dmm", int16(d))
}

func (d Distance) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Distance) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: offset must be a scalar", value.Line)
	}
	v, err := ParseDistance(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = v
	return nil
}

// CountRate is a corrected photon count in counts per second, used for
// crosstalk compensation. Accepts "1200cps" or 1200.
type CountRate uint16

func ParseCountRate(s string) (CountRate, error) {
	num, unit := splitUnit(s)
	if unit != "" && unit != "cps" {
		return 0, fmt.Errorf("count rate %q: unknown unit %q", s, unit)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("count rate %q: %w", s, err)
	}

	v = math.Trunc(v)
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("count rate %q: out of range [0, %d]", s, math.MaxUint16)
	}
	return CountRate(v), nil
}

func (c CountRate) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("%dcps", uint16(c)), nil
}

func (c *CountRate) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: crosstalk must be a scalar", value.Line)
	}
	v, err := ParseCountRate(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = v
	return nil
}

// splitUnit separates a trailing alphabetic unit from its number.
func splitUnit(s string) (num, unit string) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	num = strings.TrimSpace(s[:i+1])
	unit = strings.ToLower(s[i+1:])
	return num, unit
}
