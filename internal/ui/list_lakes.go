package ui

import (
	"fmt"

	"github.com/forest-guardian/lake-snow-cli/internal/sentinel"
)

func ListCollections() {
	collections, err := sentinel.ListCollections()
	if err != nil {
		PrintError(fmt.Sprintf("Error reading geojsons folder: %s", err.Error()))
		return
	}

	PrintWarning("To add a new collection, add its '.geojson' file at 'data/geojsons' folder.")
	fmt.Printf("\n%sAvailable collections:%s\n", ColorGreen, ColorReset)
	for _, c := range collections {
		fmt.Printf("%s- %s%s\n", ColorGreen, c, ColorReset)
	}
}

// ListLakes prints the lake ids of a collection, asking for it when empty
func ListLakes(collection string) {
	if collection == "" {
		PrintWarning(fmt.Sprintf("Lakes are the Polygon features of a collection, identified by the '%s' property.", sentinel.LakeIDProperty))
		collection = ReadString("Enter the collection name: ")
	}

	lakes, err := sentinel.LoadLakes(collection)
	if err != nil {
		PrintError(err.Error())
		return
	}
	if len(lakes) == 0 {
		PrintError(fmt.Sprintf("No lakes found in collection %s", collection))
		return
	}

	fmt.Printf("%s\nAvailable lakes:%s\n", ColorGreen, ColorReset)
	for _, lake := range lakes {
		lat, lon, err := lake.Centroid()
		if err != nil {
			fmt.Printf("%s- %s%s\n", ColorGreen, lake.ID, ColorReset)
			continue
		}
		fmt.Printf("%s- %s (%.4f, %.4f)%s\n", ColorGreen, lake.ID, lat, lon, ColorReset)
	}
}
