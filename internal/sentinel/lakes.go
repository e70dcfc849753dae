package sentinel

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/forest-guardian/lake-snow-cli/internal/properties"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// LakeIDProperty is the feature property holding the lake identifier.
const LakeIDProperty = "lake_id"

type Lake struct {
	Collection string
	ID         string
	Geometry   orb.Geometry
}

// Centroid returns the latitude and longitude of the lake centroid.
func (l Lake) Centroid() (float64, float64, error) {
	centroid, area := planar.CentroidArea(l.Geometry)
	if area <= 0 {
		return 0, 0, errors.New("error getting centroid")
	}
	return centroid.Y(), centroid.X(), nil
}

func (l Lake) Bounds() orb.Bound {
	return l.Geometry.Bound()
}

// GeoJSON encodes the lake geometry as a GeoJSON geometry object.
func (l Lake) GeoJSON() ([]byte, error) {
	return geojson.NewGeometry(l.Geometry).MarshalJSON()
}

func collectionPath(collection string) string {
	return properties.DataPath("geojsons", collection+".geojson")
}

// LoadLakes reads every polygon feature of data/geojsons/<collection>.geojson
// carrying a lake_id property.
func LoadLakes(collection string) ([]Lake, error) {
	data, err := os.ReadFile(collectionPath(collection))
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding GEOJSON: %w", err)
	}

	var lakes []Lake
	for _, feature := range fc.Features {
		id := lakeID(feature)
		if id == "" || feature.Geometry == nil {
			continue
		}
		switch feature.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}
		lakes = append(lakes, Lake{Collection: collection, ID: id, Geometry: feature.Geometry})
	}
	if len(lakes) == 0 {
		return nil, fmt.Errorf("no lake IDs found in the GEOJSON file %s", collection)
	}
	return lakes, nil
}

// lakeID accepts string and numeric ids; numeric ones are common in lake
// inventories exported from shapefiles.
func lakeID(feature *geojson.Feature) string {
	switch v := feature.Properties[LakeIDProperty].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func FindLake(collection, id string) (Lake, error) {
	lakes, err := LoadLakes(collection)
	if err != nil {
		return Lake{}, err
	}
	for _, lake := range lakes {
		if lake.ID == id {
			return lake, nil
		}
	}
	return Lake{}, fmt.Errorf("geometry not found for collection %s and lake %s", collection, id)
}

// ListCollections returns the names of the GeoJSON files in data/geojsons.
func ListCollections() ([]string, error) {
	files, err := os.ReadDir(properties.DataPath("geojsons"))
	if err != nil {
		return nil, fmt.Errorf("error reading geojsons folder: %w", err)
	}
	var names []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".geojson") {
			names = append(names, strings.TrimSuffix(file.Name(), ".geojson"))
		}
	}
	sort.Strings(names)
	return names, nil
}
