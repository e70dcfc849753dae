package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/cache"
	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
	"github.com/forest-guardian/lake-snow-cli/internal/logger"
	"github.com/forest-guardian/lake-snow-cli/internal/notification"
	"github.com/forest-guardian/lake-snow-cli/internal/properties"
	"github.com/forest-guardian/lake-snow-cli/internal/sentinel"
	"github.com/forest-guardian/lake-snow-cli/internal/stats"
	"github.com/forest-guardian/lake-snow-cli/internal/utils"
	"github.com/forest-guardian/lake-snow-cli/output"
)

// LakeReport is the outcome of classifying a lake over a date range.
type LakeReport struct {
	Collection string
	LakeID     string
	Scenes     []stats.SceneStats
	StatsCSV   string
	Video      string
}

func resultFolder(collection, lakeID string) string {
	return properties.DataPath("result", collection, lakeID)
}

// ClassifyLake downloads every scene of a lake between startDate and endDate,
// classifies it and writes a per-scene statistics time series. Scenes whose
// statistics are cached and whose renders exist are not classified again.
func ClassifyLake(ctx context.Context, collection, lakeID string, startDate, endDate time.Time, intervalDays int) (*LakeReport, error) {
	lake, err := sentinel.FindLake(collection, lakeID)
	if err != nil {
		return nil, err
	}

	images, err := sentinel.GetImages(ctx, lake, startDate, endDate, intervalDays, classifier.DefaultSetup())
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no valid scenes for %s/%s between %s and %s", collection, lakeID, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	}

	folder := resultFolder(collection, lakeID)
	sceneCache := cache.NewFileCache[stats.SceneStats]("scene_stats")

	report := &LakeReport{Collection: collection, LakeID: lakeID}
	var frames []string
	for _, date := range utils.SortedDates(images) {
		base := filepath.Join(folder, "scenes", fmt.Sprintf("%s_%s", lakeID, date.Format("2006-01-02")))
		visualization := base + "_visualization.png"
		key := sceneCache.GenerateKey(collection, lakeID, date.Format("2006-01-02"))

		if cached, ok := sceneCache.Get(key); ok && fileExists(visualization) {
			logger.Get().Debug().Str("date", cached.Date).Msg("scene statistics from cache")
			report.Scenes = append(report.Scenes, cached)
			frames = append(frames, visualization)
			continue
		}

		tile, ref, err := sentinel.ReadTile(images[date])
		if err != nil {
			return nil, err
		}
		info := sceneInfo{date: date, collection: collection, lakeID: lakeID}
		result, err := processScene(ctx, tile, ref, info, base, false)
		if err != nil {
			return nil, fmt.Errorf("failed to classify scene %s: %w", date.Format("2006-01-02"), err)
		}
		if err := sceneCache.Set(key, result.Stats); err != nil {
			// NaN means cannot be stored as JSON; the scene is classified again next run
			logger.Get().Warn().Err(err).Str("date", result.Stats.Date).Msg("scene statistics not cached")
		}
		report.Scenes = append(report.Scenes, result.Stats)
		frames = append(frames, result.VisualizationImage)
	}

	report.StatsCSV = filepath.Join(folder, lakeID+"_scenes.csv")
	if err := replaceCSV(report.StatsCSV, report.Scenes); err != nil {
		return nil, err
	}
	report.Video, err = output.CreateVideoFromImages(frames, filepath.Join(folder, lakeID+"_timelapse"))
	if err != nil {
		return nil, err
	}

	notify(fmt.Sprintf("Lake %s/%s classified\n\nScenes: %d\nStatistics: %s\nTime-lapse: %s",
		collection, lakeID, len(report.Scenes), report.StatsCSV, report.Video))
	return report, nil
}

func replaceCSV[T any](path string, rows []T) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return stats.AppendCSV(path, rows)
}

func notify(message string) {
	err := notification.SendDiscordSuccessNotification(message)
	if err != nil && !errors.Is(err, notification.ErrNotConfigured) {
		logger.Get().Warn().Err(err).Msg("failed to send notification")
	}
}

// NotifyFailure reports a failed lake job to the error webhook.
func NotifyFailure(job string, jobErr error) {
	err := notification.SendDiscordErrorNotification(fmt.Sprintf("%s: %s", job, jobErr))
	if err != nil && !errors.Is(err, notification.ErrNotConfigured) {
		logger.Get().Warn().Err(err).Msg("failed to send notification")
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
