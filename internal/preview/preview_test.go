package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/vl53l1x/internal/config"
	"github.com/ivlev/vl53l1x/internal/roi"
)

func TestRenderGrid(t *testing.T) {
	img, err := RenderGrid(roi.New(4, 4, 199), 10)
	if err != nil {
		t.Fatalf("RenderGrid failed: %v", err)
	}

	if img.Bounds() != image.Rect(0, 0, 160, 160) {
		t.Fatalf("Bounds = %v", img.Bounds())
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"covered zone", 65, 65, colorCovered},
		{"center zone", 85, 75, colorCenter},
		{"background zone", 5, 5, colorBackground},
		{"alternate zone", 15, 5, colorAlternate},
		{"grid line", 60, 65, colorGridLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRenderGridClipsOffGridZones(t *testing.T) {
	// 4x4 around zone 128 (top-left corner) hangs off the grid
	img, err := RenderGrid(roi.New(4, 4, 128), 1)
	if err != nil {
		t.Fatalf("RenderGrid failed: %v", err)
	}

	if got := img.RGBAAt(0, 0); got != colorCenter {
		t.Errorf("corner = %v, want center color", got)
	}
	if got := img.RGBAAt(1, 2); got != colorCovered {
		t.Errorf("(1,2) = %v, want covered", got)
	}
	if got := img.RGBAAt(2, 0); got == colorCovered {
		t.Error("(2,0) should not be covered")
	}
}

func TestRenderGridRejectsBadCell(t *testing.T) {
	for _, cell := range []int{0, -1, MaxCellSize + 1, 100000} {
		if _, err := RenderGrid(roi.New(16, 16, 199), cell); err == nil {
			t.Errorf("Expected error for cell size %d", cell)
		}
		if _, err := RenderGridPNG(roi.New(16, 16, 199), cell); err == nil {
			t.Errorf("Expected PNG error for cell size %d", cell)
		}
	}

	if _, err := RenderGrid(roi.New(16, 16, 199), MaxCellSize); err != nil {
		t.Errorf("MaxCellSize should render: %v", err)
	}
}

func TestRenderGridPNGReusesCanvas(t *testing.T) {
	const cell = 12
	size := canvasSize(cell)
	first, second := roi.New(16, 16, 199), roi.New(4, 4, 128)

	if _, err := RenderGridPNG(first, cell); err != nil {
		t.Fatalf("RenderGridPNG failed: %v", err)
	}
	if n := canvasPool.idle(size); n < 1 {
		t.Fatalf("canvas not returned to pool, idle = %d", n)
	}

	// the pooled canvas still holds the first render
	got, err := RenderGridPNG(second, cell)
	if err != nil {
		t.Fatalf("RenderGridPNG failed: %v", err)
	}

	fresh, err := RenderGrid(second, cell)
	if err != nil {
		t.Fatal(err)
	}
	want, err := EncodePNG(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("pooled render differs from a fresh render")
	}
}

func TestEncodeConfigQR(t *testing.T) {
	data, err := EncodeConfigQR(config.Default(), 256)
	if err != nil {
		t.Fatalf("EncodeConfigQR failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not an image: %v", err)
	}
	if format != "png" || cfg.Width != 256 || cfg.Height != 256 {
		t.Errorf("got %s %dx%d", format, cfg.Width, cfg.Height)
	}
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	gridPath := filepath.Join(dir, "grid.png")
	qrPath := filepath.Join(dir, "qr.png")

	jobs := []Job{
		GridJob(gridPath, roi.New(8, 8, 199), 8),
		QRJob(qrPath, config.Default(), 128),
	}
	if err := WriteAll(context.Background(), jobs, 2); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	for _, p := range []string{gridPath, qrPath} {
		fi, err := os.Stat(p)
		if err != nil {
			t.Fatalf("%s not written: %v", p, err)
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}

func TestWriteAllReportsFailure(t *testing.T) {
	boom := errors.New("boom")
	jobs := []Job{
		{Path: filepath.Join(t.TempDir(), "bad.png"), Render: func() ([]byte, error) { return nil, boom }},
		GridJob(filepath.Join(t.TempDir(), "ok.png"), roi.New(4, 4, 199), 1),
	}

	err := WriteAll(context.Background(), jobs, 1)
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestBufferPool(t *testing.T) {
	pool := newBufferPool(1)
	size := image.Pt(16, 16)

	img := pool.get(size)
	if img.Bounds().Size() != size {
		t.Fatalf("get returned %v", img.Bounds())
	}

	pool.put(img)
	pool.put(image.NewRGBA(image.Rectangle{Max: size}))
	pool.put(nil)
	if n := pool.idle(size); n != 1 {
		t.Errorf("idle = %d, want limit of 1", n)
	}

	if again := pool.get(size); again != img {
		t.Error("expected the released buffer back")
	}
	if n := pool.idle(size); n != 0 {
		t.Errorf("idle = %d after get, want 0", n)
	}
	if other := pool.get(image.Pt(3, 3)); other.Bounds().Size() != image.Pt(3, 3) {
		t.Errorf("new size returned %v", other.Bounds())
	}
}
