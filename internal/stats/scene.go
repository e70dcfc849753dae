package stats

import (
	"math"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
	"github.com/forest-guardian/lake-snow-cli/internal/raster"
)

// SceneStats summarizes one classified scene of a lake.
type SceneStats struct {
	Date          string  `csv:"date" json:"date"`
	Collection    string  `csv:"collection" json:"collection"`
	LakeID        string  `csv:"lake_id" json:"lake_id"`
	TotalPixels   int     `csv:"total_pixels" json:"total_pixels"`
	ValidPixels   int     `csv:"valid_pixels" json:"valid_pixels"`
	SnowPixels    int     `csv:"snow_pixels" json:"snow_pixels"`
	CloudPixels   int     `csv:"cloud_pixels" json:"cloud_pixels"`
	SnowFraction  float64 `csv:"snow_fraction" json:"snow_fraction"`
	CloudFraction float64 `csv:"cloud_fraction" json:"cloud_fraction"`
	MeanNDSI      float64 `csv:"mean_ndsi" json:"mean_ndsi"`
	MeanNIR       float64 `csv:"mean_nir" json:"mean_nir"`
}

// Summarize counts snow and cloud over the valid pixels of a scene, those
// with a dataMask of exactly 1. Means skip NaN and infinite values and are
// NaN when nothing is left.
func Summarize(date time.Time, collection, lakeID string, tile *raster.Tile, products *raster.Products) SceneStats {
	s := SceneStats{
		Date:        date.Format("2006-01-02"),
		Collection:  collection,
		LakeID:      lakeID,
		TotalPixels: tile.Width * tile.Height,
	}

	var ndsi, nir mean
	for i := 0; i < s.TotalPixels; i++ {
		if products.DataMask[i] != 1 {
			continue
		}
		s.ValidPixels++
		if classifier.IsSnow(tile.Sample(i)) {
			s.SnowPixels++
		}
		if products.Stats[2*i+1] == 1 {
			s.CloudPixels++
		}
		ndsi.add(products.Index[i])
		nir.add(tile.NIR[i])
	}

	if s.ValidPixels > 0 {
		s.SnowFraction = float64(s.SnowPixels) / float64(s.ValidPixels)
		s.CloudFraction = float64(s.CloudPixels) / float64(s.ValidPixels)
	}
	s.MeanNDSI = ndsi.value()
	s.MeanNIR = nir.value()
	return s
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	m.sum += v
	m.n++
}

func (m *mean) value() float64 {
	if m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}
