package roi

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidROI is wrapped by Validate for every rejected field.
var ErrInvalidROI = errors.New("roi: invalid region")

// The VL53L1X SPAD array. Zone numbering below is only defined for it.
const (
	GridCols = 16
	GridRows = 16
	MinSize  = 4 // smallest accepted width/height
)

// ZoneIndex maps a grid position (0,0 = top-left) to the sensor's zone
// number. The top half counts up from 128 column by column, the bottom
// half counts down from 127.
func ZoneIndex(col, row int) (uint8, error) {
	if col < 0 || col >= GridCols || row < 0 || row >= GridRows {
		return 0, fmt.Errorf("%w: zone (%d,%d) outside %dx%d grid", ErrInvalidROI, col, row, GridCols, GridRows)
	}
	if row < 8 {
		return uint8(128 + 8*col + row), nil
	}
	return uint8(135 - 8*col - row), nil
}

// ZonePosition is the inverse of ZoneIndex. Every uint8 is a valid zone.
func ZonePosition(center uint8) (col, row int) {
	if center >= 128 {
		v := int(center) - 128
		return v / 8, v % 8
	}
	v := 127 - int(center)
	return v / 8, 8 + v%8
}

// Bounds returns the zones covered by r, in grid coordinates. With an
// even size the extra column sits left of the center zone and the extra
// row below it. The result is not clipped to the grid.
func (r ROI) Bounds() image.Rectangle {
	col, row := ZonePosition(r.Center)
	x0 := col - int(r.Width)/2
	y0 := row - (int(r.Height)-1)/2
	return image.Rect(x0, y0, x0+int(r.Width), y0+int(r.Height))
}

// Validate checks that r fits the sensor grid. It is never called by
// the setters.
func (r ROI) Validate() error {
	var errs []error
	if r.Width < MinSize || r.Width > GridCols {
		errs = append(errs, fmt.Errorf("%w: width %d not in [%d, %d]", ErrInvalidROI, r.Width, MinSize, GridCols))
	}
	if r.Height < MinSize || r.Height > GridRows {
		errs = append(errs, fmt.Errorf("%w: height %d not in [%d, %d]", ErrInvalidROI, r.Height, MinSize, GridRows))
	}
	if len(errs) == 0 {
		grid := image.Rect(0, 0, GridCols, GridRows)
		if b := r.Bounds(); !b.In(grid) {
			errs = append(errs, fmt.Errorf("%w: center %d puts %v outside the grid", ErrInvalidROI, r.Center, b))
		}
	}
	return errors.Join(errs...)
}
