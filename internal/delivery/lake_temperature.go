package delivery

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/sentinel"
	"github.com/forest-guardian/lake-snow-cli/internal/weather"
)

const temperatureRetries = 5

// ExportLakeTemperature writes the daily air temperature at the centroid of
// a lake to a CSV and returns its path.
func ExportLakeTemperature(ctx context.Context, collection, lakeID string, startDate, endDate time.Time) (string, error) {
	lake, err := sentinel.FindLake(collection, lakeID)
	if err != nil {
		return "", err
	}
	lat, lon, err := lake.Centroid()
	if err != nil {
		return "", err
	}

	records, err := weather.FetchDailyTemperature(ctx, lakeID, lat, lon, startDate, endDate, temperatureRetries)
	if err != nil {
		return "", fmt.Errorf("failed to fetch temperatures for %s/%s: %w", collection, lakeID, err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("no temperature data for %s/%s", collection, lakeID)
	}

	path := filepath.Join(resultFolder(collection, lakeID),
		fmt.Sprintf("%s_temperature_%s_%s.csv", lakeID, startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))
	if err := replaceCSV(path, records); err != nil {
		return "", err
	}
	return path, nil
}
