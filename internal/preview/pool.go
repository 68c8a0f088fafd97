package preview

import (
	"image"
	"sync"
)

// canvasPool keeps released grid canvases for the next encode. At the
// CLI's default cell size a canvas is 384x384 RGBA, about 576 KiB.
var canvasPool = newBufferPool(2)

// bufferPool is a free list of RGBA canvases per size, capped at limit
// idle buffers per size.
type bufferPool struct {
	mu    sync.Mutex
	free  map[image.Point][]*image.RGBA
	limit int
}

func newBufferPool(limit int) *bufferPool {
	return &bufferPool{free: make(map[image.Point][]*image.RGBA), limit: limit}
}

// get returns a canvas covering (0,0)-size. Contents are undefined.
func (p *bufferPool) get(size image.Point) *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()

	list := p.free[size]
	if n := len(list); n > 0 {
		img := list[n-1]
		p.free[size] = list[:n-1]
		return img
	}
	return image.NewRGBA(image.Rectangle{Max: size})
}

func (p *bufferPool) put(img *image.RGBA) {
	if img == nil {
		return
	}
	size := img.Rect.Size()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free[size]) < p.limit {
		p.free[size] = append(p.free[size], img)
	}
}

func (p *bufferPool) idle(size image.Point) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free[size])
}
