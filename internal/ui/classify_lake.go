package ui

import (
	"context"
	"fmt"

	"github.com/forest-guardian/lake-snow-cli/internal/delivery"
)

// ClassifyLake handles the UI for classifying a lake over a date range
func ClassifyLake() {
	PrintWarning("- A '.geojson' file with the collection name should be present in data/geojsons folder.\n- Scenes are downloaded from the Copernicus Process API and kept in data/images.")

	collection, lakeID, err := ReadCollectionAndLake()
	if err != nil {
		PrintError(err.Error())
		return
	}
	startDate, endDate, err := ReadDateRange()
	if err != nil {
		PrintError(err.Error())
		return
	}
	interval, err := ReadPositiveInt("Enter the interval between scenes in days [5]: ", 5)
	if err != nil {
		PrintError(err.Error())
		return
	}

	report, err := delivery.ClassifyLake(context.Background(), collection, lakeID, startDate, endDate, interval)
	if err != nil {
		PrintError(fmt.Sprintf("Error classifying lake: %s", err.Error()))
		delivery.NotifyFailure(fmt.Sprintf("classify lake %s/%s", collection, lakeID), err)
		return
	}

	fmt.Printf("\n%s%-12s %8s %8s %8s%s\n", ColorGreen, "date", "valid", "snow", "cloud", ColorReset)
	for _, s := range report.Scenes {
		fmt.Printf("%s%-12s %8d %7.1f%% %7.1f%%%s\n", ColorGreen, s.Date, s.ValidPixels, 100*s.SnowFraction, 100*s.CloudFraction, ColorReset)
	}
	PrintSuccess(fmt.Sprintf("Successful classification!\nStatistics located at: %s\nTime-lapse located at: %s", report.StatsCSV, report.Video))
}
