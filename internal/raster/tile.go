package raster

import (
	"fmt"

	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
)

// Tile holds the classifier input bands of a scene, row major.
type Tile struct {
	Width    int
	Height   int
	Green    []float64
	SWIR1    []float64
	Red      []float64
	Blue     []float64
	NIR      []float64
	DataMask []float64
}

func NewTile(width, height int) *Tile {
	n := width * height
	return &Tile{
		Width:    width,
		Height:   height,
		Green:    make([]float64, n),
		SWIR1:    make([]float64, n),
		Red:      make([]float64, n),
		Blue:     make([]float64, n),
		NIR:      make([]float64, n),
		DataMask: make([]float64, n),
	}
}

// Bands returns the band buffers in the order the setup declares its inputs.
func (t *Tile) Bands() [][]float64 {
	return [][]float64{t.Green, t.SWIR1, t.Red, t.Blue, t.NIR, t.DataMask}
}

// Validate checks the tile shape. The classifier assumes well formed
// input, so this is where a short or missing band is caught.
func (t *Tile) Validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("invalid tile size %dx%d", t.Width, t.Height)
	}
	n := t.Width * t.Height
	names := []string{"green", "swir1", "red", "blue", "nir", "dataMask"}
	for i, band := range t.Bands() {
		if len(band) != n {
			return fmt.Errorf("band %s has %d values, expected %d", names[i], len(band), n)
		}
	}
	return nil
}

func (t *Tile) Sample(i int) classifier.PixelSample {
	return classifier.PixelSample{
		Green:    t.Green[i],
		SWIR1:    t.SWIR1[i],
		Red:      t.Red[i],
		Blue:     t.Blue[i],
		NIR:      t.NIR[i],
		DataMask: t.DataMask[i],
	}
}

// Products are the classifier outputs of a tile, one interleaved buffer per
// output channel.
type Products struct {
	Width    int
	Height   int
	Default  []float64
	Index    []float64
	Stats    []float64
	DataMask []float64
}

func NewProducts(width, height int) *Products {
	n := width * height
	return &Products{
		Width:    width,
		Height:   height,
		Default:  make([]float64, 4*n),
		Index:    make([]float64, n),
		Stats:    make([]float64, 2*n),
		DataMask: make([]float64, n),
	}
}

func (p *Products) set(i int, r classifier.PixelResult) {
	copy(p.Default[4*i:4*i+4], r.Default[:])
	p.Index[i] = r.Index[0]
	copy(p.Stats[2*i:2*i+2], r.Stats[:])
	p.DataMask[i] = r.DataMask[0]
}

// Pixel reassembles the result of pixel i.
func (p *Products) Pixel(i int) classifier.PixelResult {
	var r classifier.PixelResult
	copy(r.Default[:], p.Default[4*i:4*i+4])
	r.Index[0] = p.Index[i]
	copy(r.Stats[:], p.Stats[2*i:2*i+2])
	r.DataMask[0] = p.DataMask[i]
	return r
}

// Channel returns the interleaved buffer of an output channel and its band count.
func (p *Products) Channel(id string) ([]float64, int, error) {
	switch id {
	case classifier.ChannelDefault:
		return p.Default, 4, nil
	case classifier.ChannelIndex:
		return p.Index, 1, nil
	case classifier.ChannelStats:
		return p.Stats, 2, nil
	case classifier.ChannelDataMask:
		return p.DataMask, 1, nil
	}
	return nil, 0, fmt.Errorf("unknown output channel %q", id)
}

// Band extracts band b of an interleaved channel buffer.
func Band(data []float64, bands, b int) []float64 {
	out := make([]float64, len(data)/bands)
	for i := range out {
		out[i] = data[i*bands+b]
	}
	return out
}
