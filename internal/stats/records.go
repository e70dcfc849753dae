package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/raster"
	"github.com/gocarina/gocsv"
)

// PixelRecord is one valid pixel of a lake scene, the row layout of the
// lake NDSI/NIR time series.
type PixelRecord struct {
	Date      string  `csv:"date"`
	LakeID    string  `csv:"lake_id"`
	X         int     `csv:"x"`
	Y         int     `csv:"y"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
	NDSI      float64 `csv:"NDSI"`
	NIR       float64 `csv:"NIR"`
	Cloud     int     `csv:"cloud"`
}

// LocateFunc resolves the latitude and longitude of a pixel.
type LocateFunc func(x, y int) (float64, float64, error)

// BuildRecords returns one record per pixel with a dataMask of 1, row by row.
// locate may be nil, leaving coordinates at zero.
func BuildRecords(date time.Time, lakeID string, tile *raster.Tile, products *raster.Products, locate LocateFunc) ([]PixelRecord, error) {
	var records []PixelRecord
	for y := 0; y < tile.Height; y++ {
		for x := 0; x < tile.Width; x++ {
			i := y*tile.Width + x
			if products.DataMask[i] != 1 {
				continue
			}
			record := PixelRecord{
				Date:   date.Format("2006-01-02"),
				LakeID: lakeID,
				X:      x,
				Y:      y,
				NDSI:   products.Index[i],
				NIR:    tile.NIR[i],
				Cloud:  int(products.Stats[2*i+1]),
			}
			if locate != nil {
				lat, lon, err := locate(x, y)
				if err != nil {
					return nil, fmt.Errorf("failed to locate pixel (%d,%d): %w", x, y, err)
				}
				record.Latitude, record.Longitude = lat, lon
			}
			records = append(records, record)
		}
	}
	return records, nil
}

// AppendCSV appends rows to a CSV file, writing the header only when the
// file is created.
func AppendCSV[T any](path string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	_, statErr := os.Stat(path)
	fileExists := statErr == nil

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", path, err)
	}
	defer file.Close()

	if fileExists {
		if err := gocsv.MarshalWithoutHeaders(&rows, file); err != nil {
			return fmt.Errorf("error writing to CSV file: %w", err)
		}
		return nil
	}
	if err := gocsv.Marshal(&rows, file); err != nil {
		return fmt.Errorf("error writing header to CSV file: %w", err)
	}
	return nil
}

// ReadCSV loads every row of a CSV file written by AppendCSV.
func ReadCSV[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []T
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}
