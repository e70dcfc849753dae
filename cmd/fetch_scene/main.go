package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
	"github.com/forest-guardian/lake-snow-cli/internal/logger"
	"github.com/forest-guardian/lake-snow-cli/internal/properties"
	"github.com/forest-guardian/lake-snow-cli/internal/sentinel"
	"github.com/forest-guardian/lake-snow-cli/internal/utils"
)

// fetch_scene downloads the scenes of one lake around a date and reports
// what landed on disk. It is a manual check of credentials and geometry.
func main() {
	collection := flag.String("collection", "cascades", "lake collection (data/geojsons/<collection>.geojson)")
	lakeID := flag.String("lake", "", "lake id")
	day := flag.String("date", "today", "scene date (YYYY-MM-DD | today)")
	intervalDays := flag.Int("interval", 5, "days between scenes")
	days := flag.Int("days", 0, "days before date to include")
	flag.Parse()

	if err := properties.Load(); err != nil {
		fmt.Println("Warning: no .env file loaded. Make sure these are set:")
		fmt.Println("- COPERNICUS_CLIENT_ID")
		fmt.Println("- COPERNICUS_CLIENT_SECRET")
		fmt.Println("- COPERNICUS_TOKEN_URL")
		fmt.Println("- ROOT_PATH")
	}
	logger.Init(properties.LogLevel(), "console")
	log := logger.Get()
	godal.RegisterAll()

	if *lakeID == "" {
		log.Fatal().Msg("-lake is required")
	}
	endDate, err := utils.ParseDay(*day)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid date")
	}
	startDate := endDate.AddDate(0, 0, -*days)

	lake, err := sentinel.FindLake(*collection, *lakeID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load lake")
	}
	bound := lake.Bounds()
	fmt.Printf("Lake %s/%s, bounds (%.5f, %.5f) - (%.5f, %.5f)\n", lake.Collection, lake.ID, bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	images, err := sentinel.GetImages(ctx, lake, startDate, endDate, *intervalDays, classifier.DefaultSetup())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get images")
	}

	fmt.Printf("\n=== Results ===\nScenes with valid pixels: %d\n", len(images))
	if len(images) == 0 {
		fmt.Println("No scenes were kept. This could mean:")
		fmt.Println("- No acquisition on these dates")
		fmt.Println("- Every pixel was outside the data mask")
		fmt.Println("- The dates are listed in data/images/invalid_images.json")
		os.Exit(1)
	}
	for _, date := range utils.SortedDates(images) {
		tile, _, err := sentinel.ReadTile(images[date])
		if err != nil {
			fmt.Printf("- %s: %s\n", date.Format("2006-01-02"), err)
			continue
		}
		fmt.Printf("- %s (size: %dx%d) %s\n", date.Format("2006-01-02"), tile.Width, tile.Height, images[date])
	}
}
