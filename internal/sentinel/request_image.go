package sentinel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
	"github.com/forest-guardian/lake-snow-cli/internal/logger"
	"github.com/forest-guardian/lake-snow-cli/internal/properties"
	"github.com/paulmach/orb"
	"golang.org/x/oauth2/clientcredentials"
)

// Sentinel-2 L2A visible and NIR bands are 10 m; B11 is resampled by the API.
const resolutionMeters = 10

var (
	retryAttempts = 10
	retryWait     = 5 * time.Second
)

var (
	ErrImageNotFound = errors.New("image not found")
	errUnauthorized  = errors.New("unauthorized access, check your client ID and secret")
)

func calculatePixels(distance float64, resolution float64) int {
	pixels := distance * (111_000.0 / resolution)
	if pixels < 1 {
		return 1
	}
	return int(pixels)
}

// imageSize converts lake bounds in degrees to an output size, clamped to
// the 2500 px limit of the Process API.
func imageSize(bound orb.Bound) (int, int) {
	width := min(calculatePixels(bound.Max.X()-bound.Min.X(), resolutionMeters), 2500)
	height := min(calculatePixels(bound.Max.Y()-bound.Min.Y(), resolutionMeters), 2500)
	return width, height
}

func buildProcessRequest(startDate, endDate time.Time, geometry []byte, width, height int, evalscript string) ([]byte, error) {
	var geojsonMap map[string]interface{}
	if err := json.Unmarshal(geometry, &geojsonMap); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	requestPayload := map[string]interface{}{
		"input": map[string]interface{}{
			"bounds": map[string]interface{}{
				"geometry": geojsonMap,
			},
			"data": []map[string]interface{}{
				{
					"dataFilter": map[string]interface{}{
						"timeRange": map[string]string{
							"from": startDate.Format(time.RFC3339),
							"to":   endDate.Format(time.RFC3339),
						},
						"mosaickingOrder": "mostRecent",
					},
					"type": "sentinel-2-l2a",
				},
			},
		},
		"output": map[string]interface{}{
			"width":  width,
			"height": height,
			"responses": []map[string]interface{}{
				{
					"identifier": "default",
					"format": map[string]string{
						"type": "image/tiff",
					},
				},
			},
		},
		"evalscript": evalscript,
	}
	return json.Marshal(requestPayload)
}

// RequestBands downloads the classifier input bands of a lake as a GeoTIFF.
// Each configured client id is tried in turn until one succeeds.
func RequestBands(ctx context.Context, startDate, endDate time.Time, lake Lake, setup *classifier.Setup) ([]byte, error) {
	geometry, err := lake.GeoJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to export geometry to GeoJSON: %w", err)
	}
	width, height := imageSize(lake.Bounds())
	requestBody, err := buildProcessRequest(startDate, endDate, geometry, width, height, BandsEvalscript(setup))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	credentials, tokenURL, err := properties.CopernicusCredentials()
	if err != nil {
		return nil, err
	}

	for _, credential := range credentials {
		config := &clientcredentials.Config{
			ClientID:     credential.ClientID,
			ClientSecret: credential.ClientSecret,
			TokenURL:     tokenURL,
		}
		var content []byte
		content, err = postWithRetry(ctx, config.Client(ctx), properties.CopernicusProcessURL(), requestBody)
		if err == nil {
			return content, nil
		}
		if errors.Is(err, ErrImageNotFound) || ctx.Err() != nil {
			return nil, err
		}
		logger.Get().Warn().Err(err).Str("client_id", credential.ClientID).Msg("image request failed, trying next credential")
	}
	return nil, fmt.Errorf("failed to request image for lake %s: %w", lake.ID, err)
}

func postWithRetry(ctx context.Context, httpClient *http.Client, url string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		response, err := httpClient.Do(req)
		if err == nil {
			content, readErr := io.ReadAll(response.Body)
			response.Body.Close()
			switch {
			case readErr != nil:
				err = fmt.Errorf("failed to read response body: %w", readErr)
			case response.StatusCode == http.StatusOK:
				return content, nil
			case response.StatusCode == http.StatusNotFound:
				return nil, ErrImageNotFound
			case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
				return nil, errUnauthorized
			default:
				err = fmt.Errorf("status %d: %s", response.StatusCode, string(content))
			}
		}
		lastErr = err
		logger.Get().Debug().Err(err).Int("attempt", attempt).Msg("process request attempt failed")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryWait):
		}
	}
	return nil, fmt.Errorf("failed to request image after %d attempts: %w", retryAttempts, lastErr)
}
