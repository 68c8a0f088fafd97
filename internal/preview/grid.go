package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/ivlev/vl53l1x/internal/roi"
)

var (
	colorBackground = color.RGBA{R: 0x26, G: 0x2a, B: 0x33, A: 0xff}
	colorAlternate  = color.RGBA{R: 0x2e, G: 0x33, B: 0x3d, A: 0xff}
	colorCovered    = color.RGBA{R: 0x3f, G: 0xa7, B: 0x6a, A: 0xff}
	colorCenter     = color.RGBA{R: 0xf2, G: 0xc1, B: 0x4e, A: 0xff}
	colorGridLine   = color.RGBA{R: 0x11, G: 0x13, B: 0x17, A: 0xff}
)

const (
	// minGridLineCell is the smallest cell size that still gets separators.
	minGridLineCell = 4
	// MaxCellSize keeps a render at 4096x4096 pixels or less.
	MaxCellSize = 256
)

// RenderGrid draws the sensor zone grid with the zones covered by r
// highlighted and the center zone marked. Parts of r that fall outside
// the grid are not drawn. The caller owns the returned image.
func RenderGrid(r roi.ROI, cellSize int) (*image.RGBA, error) {
	if err := checkCellSize(cellSize); err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rectangle{Max: canvasSize(cellSize)})
	renderGrid(dst, r, cellSize)
	return dst, nil
}

// RenderGridPNG is RenderGrid followed by PNG encoding. The canvas is
// borrowed from canvasPool and returned once encoded.
func RenderGridPNG(r roi.ROI, cellSize int) ([]byte, error) {
	if err := checkCellSize(cellSize); err != nil {
		return nil, err
	}
	dst := canvasPool.get(canvasSize(cellSize))
	defer canvasPool.put(dst)

	renderGrid(dst, r, cellSize)
	return EncodePNG(dst)
}

func checkCellSize(cellSize int) error {
	if cellSize < 1 || cellSize > MaxCellSize {
		return fmt.Errorf("cell size must be in [1, %d], got %d", MaxCellSize, cellSize)
	}
	return nil
}

func canvasSize(cellSize int) image.Point {
	return image.Pt(roi.GridCols*cellSize, roi.GridRows*cellSize)
}

// renderGrid overwrites every pixel of dst, so a reused canvas needs no
// clearing.
func renderGrid(dst *image.RGBA, r roi.ROI, cellSize int) {
	base := image.NewRGBA(image.Rect(0, 0, roi.GridCols, roi.GridRows))
	covered := r.Bounds()
	centerCol, centerRow := roi.ZonePosition(r.Center)

	for row := 0; row < roi.GridRows; row++ {
		for col := 0; col < roi.GridCols; col++ {
			c := colorBackground
			if (col+row)%2 == 1 {
				c = colorAlternate
			}
			if image.Pt(col, row).In(covered) {
				c = colorCovered
			}
			if col == centerCol && row == centerRow {
				c = colorCenter
			}
			base.SetRGBA(col, row, c)
		}
	}

	draw.NearestNeighbor.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)

	if cellSize >= minGridLineCell {
		drawGridLines(dst, cellSize)
	}
}

func drawGridLines(img *image.RGBA, cellSize int) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x += cellSize {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			img.SetRGBA(x, y, colorGridLine)
		}
	}
	for y := b.Min.Y; y < b.Max.Y; y += cellSize {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, colorGridLine)
		}
	}
}

// EncodePNG renders img to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
