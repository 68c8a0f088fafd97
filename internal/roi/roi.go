package roi

import (
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when decoding fewer than three bytes.
var ErrShortBuffer = errors.New("roi: short buffer")

// ROI is a rectangular Region Of Interest on the sensor zone grid.
// Width and Height are counted in zones, Center is the index of the
// zone at the middle of the region. Field order matches the layout the
// driver programs into the device.
type ROI struct {
	Width  uint8 `yaml:"width"`
	Height uint8 `yaml:"height"`
	Center uint8 `yaml:"center"`
}

// New returns an ROI with the given fields.
func New(width, height, center uint8) ROI {
	return ROI{Width: width, Height: height, Center: center}
}

// Setters store the value as-is. Range checks live in Validate.

func (r *ROI) SetWidth(val uint8)  { r.Width = val }
func (r *ROI) SetHeight(val uint8) { r.Height = val }
func (r *ROI) SetCenter(val uint8) { r.Center = val }

// WithWidth returns a copy of r with Width replaced.
func (r ROI) WithWidth(val uint8) ROI {
	r.Width = val
	return r
}

// WithHeight returns a copy of r with Height replaced.
func (r ROI) WithHeight(val uint8) ROI {
	r.Height = val
	return r
}

// WithCenter returns a copy of r with Center replaced.
func (r ROI) WithCenter(val uint8) ROI {
	r.Center = val
	return r
}

// Equal reports whether all three fields match. It agrees with ==.
func (r ROI) Equal(other ROI) bool {
	return r.Width == other.Width && r.Height == other.Height && r.Center == other.Center
}

func (r ROI) NotEqual(other ROI) bool {
	return !r.Equal(other)
}

// String formats r as WxH@C, e.g. "16x16@199".
func (r ROI) String() string {
	return fmt.Sprintf("%dx%d@%d", r.Width, r.Height, r.Center)
}

// Parse is the inverse of String.
func Parse(s string) (ROI, error) {
	var w, h, c uint8
	n, err := fmt.Sscanf(s, "%dx%d@%d", &w, &h, &c)
	if err != nil || n != 3 {
		return ROI{}, fmt.Errorf("roi: cannot parse %q, expected WxH@C", s)
	}
	if s != fmt.Sprintf("%dx%d@%d", w, h, c) {
		return ROI{}, fmt.Errorf("roi: cannot parse %q, expected WxH@C", s)
	}
	return ROI{Width: w, Height: h, Center: c}, nil
}

// Bytes returns the driver layout: width, height, center.
func (r ROI) Bytes() [3]byte {
	return [3]byte{r.Width, r.Height, r.Center}
}

func FromBytes(b [3]byte) ROI {
	return ROI{Width: b[0], Height: b[1], Center: b[2]}
}

func (r ROI) MarshalBinary() ([]byte, error) {
	b := r.Bytes()
	return b[:], nil
}

func (r *ROI) UnmarshalBinary(data []byte) error {
	if len(data) < 3 {
		return fmt.Errorf("%w: got %d bytes, need 3", ErrShortBuffer, len(data))
	}
	*r = FromBytes([3]byte{data[0], data[1], data[2]})
	return nil
}
