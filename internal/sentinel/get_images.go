package sentinel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
	"github.com/forest-guardian/lake-snow-cli/internal/logger"
	"github.com/forest-guardian/lake-snow-cli/internal/properties"
	"golang.org/x/sync/errgroup"
)

// concurrent Process API requests per lake
const fetchConcurrency = 4

// ImageFolder is where the scenes of a lake are kept.
func ImageFolder(lake Lake) string {
	return properties.DataPath("images", fmt.Sprintf("%s_%s", lake.Collection, lake.ID))
}

func imageName(lake Lake, date time.Time) string {
	return fmt.Sprintf("%s_%s_%s.tif", lake.Collection, lake.ID, date.Format("2006-01-02"))
}

// GetImages returns the path of the lake scene of every date from startDate
// to endDate, stepping intervalDays. Scenes already on disk are reused; dates
// without any valid pixel are remembered in invalid_images.json and skipped.
func GetImages(ctx context.Context, lake Lake, startDate, endDate time.Time, intervalDays int, setup *classifier.Setup) (map[time.Time]string, error) {
	if intervalDays <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", intervalDays)
	}
	folder := ImageFolder(lake)
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", folder, err)
	}

	invalidFile := properties.DataPath("images", "invalid_images.json")
	known, err := loadInvalidImages(invalidFile)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]struct{}, len(known))
	for _, name := range known {
		skip[name] = struct{}{}
	}

	var (
		mu      sync.Mutex
		images  = make(map[time.Time]string)
		invalid []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, intervalDays) {
		name := imageName(lake, date)
		if _, ok := skip[name]; ok {
			continue
		}
		path := filepath.Join(folder, name)
		if _, err := os.Stat(path); err == nil {
			mu.Lock()
			images[date] = path
			mu.Unlock()
			continue
		}

		day := date
		g.Go(func() error {
			ok, err := downloadImage(ctx, lake, day, path, setup)
			if err != nil {
				return fmt.Errorf("error requesting image for %s: %w", day.Format("2006-01-02"), err)
			}
			mu.Lock()
			defer mu.Unlock()
			if ok {
				images[day] = path
			} else {
				invalid = append(invalid, name)
			}
			return nil
		})
	}
	err = g.Wait()

	if len(invalid) > 0 {
		if saveErr := saveInvalidImages(invalidFile, invalid); saveErr != nil {
			logger.Get().Warn().Err(saveErr).Msg("failed to save invalid images list")
		}
	}
	if err != nil {
		return nil, err
	}
	return images, nil
}

// downloadImage stores the scene of one day and reports whether it holds
// any valid pixel.
func downloadImage(ctx context.Context, lake Lake, day time.Time, path string, setup *classifier.Setup) (bool, error) {
	end := day.Add(time.Hour*23 + time.Minute*59 + time.Second*59)
	content, err := RequestBands(ctx, day, end, lake, setup)
	if errors.Is(err, ErrImageNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, fmt.Errorf("failed to write image file: %w", err)
	}

	tile, _, err := ReadTile(path)
	if err != nil {
		return false, err
	}
	if !slices.Contains(tile.DataMask, 1) {
		logger.Get().Info().Str("lake", lake.ID).Time("date", day).Msg("scene has no valid pixels, discarding")
		if err := os.Remove(path); err != nil {
			logger.Get().Warn().Err(err).Str("path", path).Msg("failed to delete image file")
		}
		return false, nil
	}
	return true, nil
}

func loadInvalidImages(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return names, nil
}

func saveInvalidImages(path string, names []string) error {
	existing, _ := loadInvalidImages(path)
	unique := make(map[string]struct{})
	for _, name := range append(existing, names...) {
		unique[name] = struct{}{}
	}
	merged := make([]string, 0, len(unique))
	for name := range unique {
		merged = append(merged, name)
	}
	slices.Sort(merged)

	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
