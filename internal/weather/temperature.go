package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/cache"
	"github.com/forest-guardian/lake-snow-cli/internal/logger"
)

var (
	archiveURL = "https://archive-api.open-meteo.com/v1/archive"
	retryWait  = 10 * time.Second
	client     = &http.Client{Timeout: 30 * time.Second}
)

// The archive lags real time by a few days and fills recent days in later.
const (
	archiveLag     = 7 * 24 * time.Hour
	recentCacheAge = 24 * time.Hour
)

type dailyData struct {
	Time           []string   `json:"time"`
	TemperatureMax []*float64 `json:"temperature_2m_max"`
	TemperatureMin []*float64 `json:"temperature_2m_min"`
}

type archiveResponse struct {
	Daily dailyData `json:"daily"`
}

// TemperatureRecord is the daily air temperature at a lake, in °C.
type TemperatureRecord struct {
	LakeID string  `csv:"lake_id" json:"lake_id"`
	Date   string  `csv:"date" json:"date"`
	TMax   float64 `csv:"tmax" json:"tmax"`
	TMin   float64 `csv:"tmin" json:"tmin"`
}

// FetchDailyTemperature returns daily max and min temperatures at a point
// between startDate and endDate, inclusive. Days the archive has no value for
// are left out. Responses are cached under data/weather; ranges reaching into
// the archive lag expire after a day so late values are picked up.
func FetchDailyTemperature(ctx context.Context, lakeID string, latitude, longitude float64, startDate, endDate time.Time, retries int) ([]TemperatureRecord, error) {
	if retries < 1 {
		return nil, fmt.Errorf("retries must be at least 1, got %d", retries)
	}
	fc := cache.NewFileCache[[]TemperatureRecord]("weather").WithMaxAge(cacheMaxAge(endDate, time.Now()))
	key := fc.GenerateKey(latitude, longitude, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	if cached, ok := fc.Get(key); ok {
		return withLake(cached, lakeID), nil
	}

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", latitude))
	params.Set("longitude", fmt.Sprintf("%f", longitude))
	params.Set("start_date", startDate.Format("2006-01-02"))
	params.Set("end_date", endDate.Format("2006-01-02"))
	params.Set("daily", "temperature_2m_max,temperature_2m_min")
	params.Set("timezone", "UTC")

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		var data archiveResponse
		data, lastErr = get(ctx, archiveURL+"?"+params.Encode())
		if lastErr == nil {
			records := parseDaily(data.Daily)
			if err := fc.Set(key, records); err != nil {
				logger.Get().Warn().Err(err).Msg("failed to cache temperatures")
			}
			return withLake(records, lakeID), nil
		}
		logger.Get().Warn().Err(lastErr).Msgf("failed to retrieve temperatures (%d/%d)", attempt, retries)
		if attempt == retries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryWait):
		}
	}
	return nil, fmt.Errorf("failed to retrieve data after %d attempts: %w", retries, lastErr)
}

func get(ctx context.Context, u string) (archiveResponse, error) {
	var data archiveResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return data, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return data, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return data, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return data, fmt.Errorf("failed to parse response: %w", err)
	}
	return data, nil
}

// cacheMaxAge is zero, meaning no expiry, for ranges the archive has settled.
func cacheMaxAge(endDate, now time.Time) time.Duration {
	if now.Sub(endDate) < archiveLag {
		return recentCacheAge
	}
	return 0
}

func parseDaily(daily dailyData) []TemperatureRecord {
	records := make([]TemperatureRecord, 0, len(daily.Time))
	for i, date := range daily.Time {
		if i >= len(daily.TemperatureMax) || i >= len(daily.TemperatureMin) {
			break
		}
		tmax, tmin := daily.TemperatureMax[i], daily.TemperatureMin[i]
		if tmax == nil || tmin == nil {
			continue
		}
		records = append(records, TemperatureRecord{Date: date, TMax: *tmax, TMin: *tmin})
	}
	return records
}

func withLake(records []TemperatureRecord, lakeID string) []TemperatureRecord {
	out := make([]TemperatureRecord, len(records))
	for i, r := range records {
		r.LakeID = lakeID
		out[i] = r
	}
	return out
}
