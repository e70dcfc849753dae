package sentinel

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/lake-snow-cli/internal/raster"
	"github.com/forest-guardian/lake-snow-cli/internal/utils"
)

func openDataset(path string) (*godal.Dataset, error) {
	return godal.Open(path, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("gdal error %d: %s", code, msg)
	}))
}

// ReadTile opens a GeoTIFF holding the six classifier bands in setup order
// (B03, B11, B04, B02, B08, dataMask) and reads it into a tile.
func ReadTile(path string) (*raster.Tile, *raster.GeoRef, error) {
	ds, err := openDataset(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open TIFF file %s: %w", path, err)
	}
	defer ds.Close()
	return ReadDatasetTile(ds)
}

func ReadDatasetTile(ds *godal.Dataset) (*raster.Tile, *raster.GeoRef, error) {
	structure := ds.Structure()
	tile := raster.NewTile(structure.SizeX, structure.SizeY)
	bands := ds.Bands()
	targets := tile.Bands()
	if len(bands) < len(targets) {
		return nil, nil, fmt.Errorf("image has %d bands, expected %d", len(bands), len(targets))
	}

	var err error
	// GDAL band reads on a shared dataset are serialized across goroutines
	utils.ExecuteWithMutex(func() {
		for i, target := range targets {
			if err = bands[i].Read(0, 0, target, tile.Width, tile.Height); err != nil {
				err = fmt.Errorf("failed to read band %d: %w", i+1, err)
				return
			}
		}
	})
	if err != nil {
		return nil, nil, err
	}

	ref := &raster.GeoRef{Projection: ds.Projection()}
	if gt, gtErr := ds.GeoTransform(); gtErr == nil {
		ref.GeoTransform = gt
	}
	return tile, ref, nil
}

// Locator converts pixel coordinates of one scene to WGS84.
type Locator struct {
	ref *raster.GeoRef
	tr  *godal.Transform
	src *godal.SpatialRef
	dst *godal.SpatialRef
}

func NewLocator(ref *raster.GeoRef) (*Locator, error) {
	src, err := godal.NewSpatialRefFromWKT(ref.Projection)
	if err != nil {
		return nil, fmt.Errorf("failed to parse projection: %w", err)
	}
	dst, err := godal.NewSpatialRefFromEPSG(4326) // WGS84
	if err != nil {
		src.Close()
		return nil, err
	}
	tr, err := godal.NewTransform(src, dst)
	if err != nil {
		src.Close()
		dst.Close()
		return nil, fmt.Errorf("failed to create transform: %w", err)
	}
	return &Locator{ref: ref, tr: tr, src: src, dst: dst}, nil
}

// LatLon returns the latitude and longitude of the centre of pixel (x, y).
func (l *Locator) LatLon(x, y int) (float64, float64, error) {
	px, py := raster.PixelCenter(l.ref.GeoTransform, x, y)
	xs, ys := []float64{px}, []float64{py}
	if err := l.tr.TransformEx(xs, ys, nil, nil); err != nil {
		return 0, 0, fmt.Errorf("transform error: %w", err)
	}
	return ys[0], xs[0], nil
}

func (l *Locator) Close() {
	l.tr.Close()
	l.src.Close()
	l.dst.Close()
}
