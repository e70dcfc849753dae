package raster

import (
	"context"
	"fmt"
	"runtime"

	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
)

type Options struct {
	Workers  int
	Progress bool
}

// Classify runs the pixel classifier over every pixel of the tile. Rows are
// spread over a worker pool; each worker writes a disjoint slice of the
// products, so the output does not depend on the worker count.
func Classify(ctx context.Context, tile *Tile, opts Options) (*Products, error) {
	if err := tile.Validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(tile.Height), "Classifying pixels")
	} else {
		bar = progressbar.DefaultSilent(int64(tile.Height))
	}

	products := NewProducts(tile.Width, tile.Height)
	wp := workerpool.New(workers)
	for y := 0; y < tile.Height; y++ {
		if ctx.Err() != nil {
			break
		}
		row := y
		wp.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			start := row * tile.Width
			for i := start; i < start+tile.Width; i++ {
				products.set(i, classifier.Classify(tile.Sample(i)))
			}
			bar.Add(1)
		})
	}
	wp.StopWait()
	bar.Finish()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("classification interrupted: %w", err)
	}
	return products, nil
}
