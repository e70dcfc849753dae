package sentinel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/classifier"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageSize(t *testing.T) {
	w, h := imageSize(orb.Bound{Min: orb.Point{-121.0, 47.0}, Max: orb.Point{-120.875, 47.0625}})
	assert.Equal(t, 1387, w)
	assert.Equal(t, 693, h)

	w, h = imageSize(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{5, 0}})
	assert.Equal(t, 2500, w)
	assert.Equal(t, 1, h)
}

func TestBandsEvalscript(t *testing.T) {
	script := BandsEvalscript(classifier.DefaultSetup())
	assert.Contains(t, script, `input: ["B03", "B11", "B04", "B02", "B08", "dataMask"]`)
	assert.Contains(t, script, "bands: 6")
	assert.Contains(t, script, "return [sample.B03, sample.B11, sample.B04, sample.B02, sample.B08, sample.dataMask];")
	assert.Contains(t, BrowserEvalscript, "eobrowserStats")
}

func TestBuildProcessRequest(t *testing.T) {
	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	body, err := buildProcessRequest(start, start.Add(time.Hour), []byte(`{"type":"Point","coordinates":[1,2]}`), 10, 20, "script")
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "script", payload["evalscript"])
	output := payload["output"].(map[string]interface{})
	assert.Equal(t, 10.0, output["width"])
	assert.Equal(t, 20.0, output["height"])
	assert.Contains(t, string(body), "2024-05-06T00:00:00Z")
	assert.Contains(t, string(body), "sentinel-2-l2a")

	_, err = buildProcessRequest(start, start, []byte("not json"), 1, 1, "")
	assert.Error(t, err)
}

type copernicusStub struct {
	server   *httptest.Server
	attempts atomic.Int32
}

// newCopernicusStub serves an OAuth2 token endpoint and a process endpoint
// that answers with the given status codes in turn, then 200.
func newCopernicusStub(t *testing.T, statuses ...int) *copernicusStub {
	stub := &copernicusStub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"token-123","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/process", func(w http.ResponseWriter, r *http.Request) {
		n := int(stub.attempts.Add(1))
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "evaluatePixel")
		if n <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			fmt.Fprint(w, "failure")
			return
		}
		fmt.Fprint(w, "TIFFDATA")
	})
	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)

	t.Setenv("COPERNICUS_CLIENT_ID", "client")
	t.Setenv("COPERNICUS_CLIENT_SECRET", "secret")
	t.Setenv("COPERNICUS_TOKEN_URL", stub.server.URL+"/token")
	t.Setenv("COPERNICUS_PROCESS_URL", stub.server.URL+"/process")

	wait := retryWait
	retryWait = time.Millisecond
	t.Cleanup(func() { retryWait = wait })
	return stub
}

func testLake() Lake {
	return Lake{
		Collection: "cascades",
		ID:         "ObjectID_1",
		Geometry:   orb.Polygon{{{-121.0, 47.0}, {-120.98, 47.0}, {-120.98, 47.01}, {-121.0, 47.01}, {-121.0, 47.0}}},
	}
}

func TestRequestBandsRetries(t *testing.T) {
	stub := newCopernicusStub(t, http.StatusInternalServerError, http.StatusTooManyRequests)

	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	content, err := RequestBands(context.Background(), day, day.Add(time.Hour), testLake(), classifier.DefaultSetup())
	require.NoError(t, err)
	assert.Equal(t, "TIFFDATA", string(content))
	assert.Equal(t, int32(3), stub.attempts.Load())
}

func TestRequestBandsNotFound(t *testing.T) {
	newCopernicusStub(t, http.StatusNotFound)

	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	_, err := RequestBands(context.Background(), day, day, testLake(), classifier.DefaultSetup())
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestRequestBandsUnauthorizedStopsRetrying(t *testing.T) {
	stub := newCopernicusStub(t, http.StatusForbidden, http.StatusForbidden)

	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	_, err := RequestBands(context.Background(), day, day, testLake(), classifier.DefaultSetup())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unauthorized"))
	assert.Equal(t, int32(1), stub.attempts.Load())
}

func TestRequestBandsGivesUp(t *testing.T) {
	statuses := make([]int, retryAttempts)
	for i := range statuses {
		statuses[i] = http.StatusBadGateway
	}
	stub := newCopernicusStub(t, statuses...)

	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	_, err := RequestBands(context.Background(), day, day, testLake(), classifier.DefaultSetup())
	assert.ErrorContains(t, err, "after 10 attempts")
	assert.Equal(t, int32(retryAttempts), stub.attempts.Load())
}
