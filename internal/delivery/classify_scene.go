package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
	"github.com/forest-guardian/lake-snow-cli/internal/logger"
	"github.com/forest-guardian/lake-snow-cli/internal/properties"
	"github.com/forest-guardian/lake-snow-cli/internal/raster"
	"github.com/forest-guardian/lake-snow-cli/internal/sentinel"
	"github.com/forest-guardian/lake-snow-cli/internal/stats"
	"github.com/forest-guardian/lake-snow-cli/output"
)

// SceneResult lists what was produced for one classified scene.
type SceneResult struct {
	Stats              stats.SceneStats
	GeoTIFFs           map[string]string
	VisualizationImage string
	IndexImage         string
	CloudImage         string
	PixelCSV           string
}

type sceneInfo struct {
	date       time.Time
	collection string
	lakeID     string
}

// ClassifyFile classifies a local six band GeoTIFF and writes its products,
// renders and pixel CSV into outDir. The scene date is taken from a trailing
// _YYYY-MM-DD in the file name when there is one.
func ClassifyFile(ctx context.Context, tiffPath, outDir string) (*SceneResult, error) {
	tile, ref, err := sentinel.ReadTile(tiffPath)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(tiffPath), filepath.Ext(tiffPath))
	info := sceneInfo{date: sceneDate(name), lakeID: name}
	return processScene(ctx, tile, ref, info, filepath.Join(outDir, name), true)
}

func processScene(ctx context.Context, tile *raster.Tile, ref *raster.GeoRef, info sceneInfo, base string, writeGeoTIFFs bool) (*SceneResult, error) {
	setup := classifier.DefaultSetup()
	products, err := raster.Classify(ctx, tile, raster.Options{Workers: properties.Workers(), Progress: true})
	if err != nil {
		return nil, err
	}

	var locate stats.LocateFunc
	if locator := newLocator(ref); locator != nil {
		defer locator.Close()
		locate = locator.LatLon
	}

	result, err := renderScene(tile, products, info, base, locate)
	if err != nil {
		return nil, err
	}

	if writeGeoTIFFs {
		result.GeoTIFFs, err = raster.WriteGeoTIFFs(base, products, setup, ref)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// renderScene writes the images and the pixel CSV of a classified scene.
func renderScene(tile *raster.Tile, products *raster.Products, info sceneInfo, base string, locate stats.LocateFunc) (*SceneResult, error) {
	if err := os.MkdirAll(filepath.Dir(base), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create result folder: %w", err)
	}
	result := &SceneResult{Stats: stats.Summarize(info.date, info.collection, info.lakeID, tile, products)}

	var err error
	if result.VisualizationImage, err = output.CreateVisualizationImage(products, base+"_visualization"); err != nil {
		return nil, err
	}
	if result.IndexImage, err = output.CreateIndexImage(products, base+"_index"); err != nil {
		return nil, err
	}
	if result.CloudImage, err = output.CreateCloudOverlayImage(products, base+"_clouds"); err != nil {
		return nil, err
	}

	records, err := stats.BuildRecords(info.date, info.lakeID, tile, products, locate)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		result.PixelCSV = base + "_pixels.csv"
		if err := replaceCSV(result.PixelCSV, records); err != nil {
			return nil, err
		}
	}

	logger.Get().Info().
		Str("lake", info.lakeID).
		Str("date", result.Stats.Date).
		Int("valid", result.Stats.ValidPixels).
		Float64("snow_fraction", result.Stats.SnowFraction).
		Float64("cloud_fraction", result.Stats.CloudFraction).
		Msg("scene classified")
	return result, nil
}

// newLocator returns nil when the scene has no usable projection; its pixels
// are then exported without coordinates.
func newLocator(ref *raster.GeoRef) *sentinel.Locator {
	if ref == nil || ref.Projection == "" {
		return nil
	}
	locator, err := sentinel.NewLocator(ref)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("pixel coordinates disabled")
		return nil
	}
	return locator
}

func sceneDate(name string) time.Time {
	if len(name) < 10 {
		return time.Time{}
	}
	date, err := time.Parse("2006-01-02", name[len(name)-10:])
	if err != nil {
		return time.Time{}
	}
	return date
}
