package ui

import (
	"context"
	"fmt"

	"github.com/forest-guardian/lake-snow-cli/internal/delivery"
)

// LakeTemperature handles the UI for exporting the air temperature of a lake
func LakeTemperature() {
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

	path, err := delivery.ExportLakeTemperature(context.Background(), collection, lakeID, startDate, endDate)
	if err != nil {
		PrintError(err.Error())
		return
	}
	PrintSuccess(fmt.Sprintf("Temperatures located at: %s", path))
}
