package delivery

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/raster"
	"github.com/forest-guardian/lake-snow-cli/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), sceneDate("cascades_ObjectID_1_2024-05-06"))
	assert.True(t, sceneDate("scene").IsZero())
	assert.True(t, sceneDate("lake_2024-13-40").IsZero())
}

func TestRenderScene(t *testing.T) {
	tile := raster.NewTile(2, 1)
	copy(tile.Green, []float64{0.5, 0.05})
	copy(tile.SWIR1, []float64{0.1, 0.02})
	copy(tile.Red, []float64{0.45, 0.06})
	copy(tile.Blue, []float64{0.5, 0.03})
	copy(tile.NIR, []float64{0.3, 0.05})
	copy(tile.DataMask, []float64{1, 0})
	products, err := raster.Classify(context.Background(), tile, raster.Options{Workers: 1})
	require.NoError(t, err)

	base := filepath.Join(t.TempDir(), "scenes", "ObjectID_1_2024-05-06")
	info := sceneInfo{date: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), collection: "cascades", lakeID: "ObjectID_1"}
	result, err := renderScene(tile, products, info, base, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.ValidPixels)
	assert.Equal(t, 1, result.Stats.SnowPixels)
	assert.FileExists(t, result.VisualizationImage)
	assert.FileExists(t, result.IndexImage)
	assert.FileExists(t, result.CloudImage)

	records, err := stats.ReadCSV[stats.PixelRecord](result.PixelCSV)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ObjectID_1", records[0].LakeID)
	assert.Equal(t, 1, records[0].Cloud)

	// rendering again replaces the pixel CSV instead of appending to it
	result, err = renderScene(tile, products, info, base, nil)
	require.NoError(t, err)
	records, err = stats.ReadCSV[stats.PixelRecord](result.PixelCSV)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReplaceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ObjectID_1_scenes.csv")
	rows := []stats.SceneStats{{Date: "2024-05-06", LakeID: "ObjectID_1"}, {Date: "2024-05-11", LakeID: "ObjectID_1"}}

	require.NoError(t, replaceCSV(path, rows))
	require.NoError(t, replaceCSV(path, rows[:1]))

	got, err := stats.ReadCSV[stats.SceneStats](path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-05-06", got[0].Date)
}

func TestNotifyWithoutWebhooks(t *testing.T) {
	t.Setenv("DISCORD_SUCCESS_NOTIFICATION_URL", "")
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", "")
	assert.NotPanics(t, func() {
		notify("done")
		NotifyFailure("classify lake", assert.AnError)
	})
}
