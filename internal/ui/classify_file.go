package ui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/forest-guardian/lake-snow-cli/internal/delivery"
	"github.com/forest-guardian/lake-snow-cli/internal/properties"
)

// ClassifyFile handles the UI for classifying a local GeoTIFF
func ClassifyFile() {
	PrintWarning("The GeoTIFF must hold B03, B11, B04, B02, B08 and dataMask as its first six bands, in that order.")
	path := ReadString("Enter the GeoTIFF path: ")
	if path == "" {
		PrintError("path cannot be empty")
		return
	}
	RunClassifyFile(path)
}

// RunClassifyFile classifies one file into data/result/files and prints where
// the products went.
func RunClassifyFile(path string) {
	result, err := delivery.ClassifyFile(context.Background(), path, properties.DataPath("result", "files"))
	if err != nil {
		PrintError(fmt.Sprintf("Error classifying %s: %s", filepath.Base(path), err.Error()))
		delivery.NotifyFailure("classify file "+filepath.Base(path), err)
		return
	}

	s := result.Stats
	fmt.Printf("%s\nValid pixels: %d of %d\nSnow: %.1f%%\nCloud: %.1f%%\nMean NDSI: %.3f%s\n",
		ColorGreen, s.ValidPixels, s.TotalPixels, 100*s.SnowFraction, 100*s.CloudFraction, s.MeanNDSI, ColorReset)
	for id, tif := range result.GeoTIFFs {
		fmt.Printf("%s- %s: %s%s\n", ColorGreen, id, tif, ColorReset)
	}
	PrintSuccess(fmt.Sprintf("Successful classification!\nVisualization located at: %s\nCloud overlay located at: %s", result.VisualizationImage, result.CloudImage))
}
