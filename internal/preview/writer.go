package preview

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/vl53l1x/internal/config"
	"github.com/ivlev/vl53l1x/internal/roi"
)

// Job produces one output file.
type Job struct {
	Path   string
	Render func() ([]byte, error)
}

// GridJob renders the zone grid of r to a PNG at path.
func GridJob(path string, r roi.ROI, cellSize int) Job {
	return Job{
		Path: path,
		Render: func() ([]byte, error) {
			return RenderGridPNG(r, cellSize)
		},
	}
}

// QRJob writes cfg as a QR code PNG to path.
func QRJob(path string, cfg *config.Config, size int) Job {
	return Job{
		Path: path,
		Render: func() ([]byte, error) {
			return EncodeConfigQR(cfg, size)
		},
	}
}

// WriteAll runs jobs on at most workers goroutines (unbounded if workers
// is not positive) and returns the first failure.
func WriteAll(ctx context.Context, jobs []Job, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := job.Render()
			if err != nil {
				return fmt.Errorf("%s: %w", job.Path, err)
			}
			return os.WriteFile(job.Path, data, 0644)
		})
	}

	return g.Wait()
}
