package raster

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
)

// GeoRef is the georeference copied from the input scene onto the products.
type GeoRef struct {
	GeoTransform [6]float64
	Projection   string
}

// PixelCenter maps pixel (x, y) to the coordinates of its centre in the
// scene CRS.
func PixelCenter(gt [6]float64, x, y int) (float64, float64) {
	px, py := float64(x)+0.5, float64(y)+0.5
	return gt[0] + gt[1]*px + gt[2]*py, gt[3] + gt[4]*px + gt[5]*py
}

// WriteGeoTIFFs writes one GeoTIFF per declared output channel, named
// <base>_<channel>.tif. NaN is the nodata value of the index channel.
func WriteGeoTIFFs(base string, products *Products, setup *classifier.Setup, ref *GeoRef) (map[string]string, error) {
	if err := os.MkdirAll(filepath.Dir(base), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}

	paths := make(map[string]string, len(setup.Output))
	for _, ch := range setup.Output {
		data, bands, err := products.Channel(ch.ID)
		if err != nil {
			return nil, err
		}
		if bands != ch.Bands {
			return nil, fmt.Errorf("channel %s has %d bands, setup declares %d", ch.ID, bands, ch.Bands)
		}
		path := fmt.Sprintf("%s_%s.tif", base, ch.ID)
		if err := writeChannel(path, data, ch, products.Width, products.Height, ref); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths[ch.ID] = path
	}
	return paths, nil
}

func dataType(st classifier.SampleType) godal.DataType {
	if st == classifier.SampleTypeUint8 {
		return godal.Byte
	}
	return godal.Float32
}

// writeChannel closes the dataset itself; GDAL flushes GTiff blocks on close
// and a failed flush must not pass for a written product.
func writeChannel(path string, data []float64, ch classifier.OutputChannel, width, height int, ref *GeoRef) error {
	ds, err := godal.Create(godal.GTiff, path, ch.Bands, dataType(ch.SampleType), width, height,
		godal.CreationOption("COMPRESS=DEFLATE", "TILED=YES"))
	if err != nil {
		return err
	}
	if err := fillChannel(ds, data, ch, width, height, ref); err != nil {
		ds.Close()
		return err
	}
	if err := ds.Close(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	return nil
}

func fillChannel(ds *godal.Dataset, data []float64, ch classifier.OutputChannel, width, height int, ref *GeoRef) error {
	if ref != nil {
		if err := ds.SetGeoTransform(ref.GeoTransform); err != nil {
			return err
		}
		if ref.Projection != "" {
			if err := ds.SetProjection(ref.Projection); err != nil {
				return err
			}
		}
	}

	for b, band := range ds.Bands() {
		values := Band(data, ch.Bands, b)
		buf := make([]float32, len(values))
		for i, v := range values {
			buf[i] = float32(v)
		}
		if ch.ID == classifier.ChannelIndex {
			if err := band.SetNoData(math.NaN()); err != nil {
				return err
			}
		}
		if err := band.Write(0, 0, buf, width, height); err != nil {
			return err
		}
	}
	return nil
}
