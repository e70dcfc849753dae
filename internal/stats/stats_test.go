package stats

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2x2 scene: snow+cloud, water, no data, zero reflectance
func classifiedTile(t *testing.T) (*raster.Tile, *raster.Products) {
	t.Helper()
	tile := raster.NewTile(2, 2)
	copy(tile.Green, []float64{0.5, 0.05, 0.3, 0})
	copy(tile.SWIR1, []float64{0.1, 0.02, 0.05, 0})
	copy(tile.Red, []float64{0.45, 0.04, 0.2, 0})
	copy(tile.Blue, []float64{0.5, 0.03, 0.2, 0})
	copy(tile.NIR, []float64{0.3, 0.05, 0.3, 0})
	copy(tile.DataMask, []float64{1, 1, 0, 1})

	products, err := raster.Classify(context.Background(), tile, raster.Options{Workers: 1})
	require.NoError(t, err)
	return tile, products
}

var day = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func TestSummarize(t *testing.T) {
	tile, products := classifiedTile(t)
	s := Summarize(day, "cascades", "ObjectID_1", tile, products)

	assert.Equal(t, "2024-05-06", s.Date)
	assert.Equal(t, 4, s.TotalPixels)
	assert.Equal(t, 3, s.ValidPixels)
	assert.Equal(t, 1, s.SnowPixels)
	assert.Equal(t, 1, s.CloudPixels)
	assert.InDelta(t, 1.0/3, s.SnowFraction, 1e-12)
	assert.InDelta(t, 1.0/3, s.CloudFraction, 1e-12)
	// the zero reflectance pixel has a NaN index and is left out of the mean
	assert.InDelta(t, (0.4/0.6+0.03/0.07)/2, s.MeanNDSI, 1e-9)
	assert.InDelta(t, 0.35/3, s.MeanNIR, 1e-12)
}

func TestSummarizeNoValidPixels(t *testing.T) {
	tile, products := classifiedTile(t)
	for i := range products.DataMask {
		products.DataMask[i] = 0
	}
	s := Summarize(day, "cascades", "ObjectID_1", tile, products)
	assert.Equal(t, 0, s.ValidPixels)
	assert.Equal(t, 0.0, s.SnowFraction)
	assert.True(t, math.IsNaN(s.MeanNDSI))
}

func TestBuildRecords(t *testing.T) {
	tile, products := classifiedTile(t)
	records, err := BuildRecords(day, "ObjectID_1", tile, products, func(x, y int) (float64, float64, error) {
		return 47 + float64(y), -121 + float64(x), nil
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, PixelRecord{Date: "2024-05-06", LakeID: "ObjectID_1", X: 0, Y: 0, Latitude: 47, Longitude: -121, NDSI: records[0].NDSI, NIR: 0.3, Cloud: 1}, records[0])
	assert.InDelta(t, 0.666667, records[0].NDSI, 1e-6)
	assert.Equal(t, 1, records[1].X)
	assert.Equal(t, 0, records[1].Cloud)
	assert.Equal(t, 1, records[2].Y)
	assert.Equal(t, 48.0, records[2].Latitude)

	noCoords, err := BuildRecords(day, "ObjectID_1", tile, products, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, noCoords[0].Latitude)
}

func TestAppendCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result", "ObjectID_1.csv")
	tile, products := classifiedTile(t)

	first := Summarize(day, "cascades", "ObjectID_1", tile, products)
	second := first
	second.Date = "2024-05-11"

	require.NoError(t, AppendCSV(path, []SceneStats{first}))
	require.NoError(t, AppendCSV(path, []SceneStats{second}))
	require.NoError(t, AppendCSV[SceneStats](path, nil))

	rows, err := ReadCSV[SceneStats](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-05-06", rows[0].Date)
	assert.Equal(t, "2024-05-11", rows[1].Date)
	assert.Equal(t, 3, rows[1].ValidPixels)
	assert.InDelta(t, first.MeanNDSI, rows[0].MeanNDSI, 1e-9)
}
