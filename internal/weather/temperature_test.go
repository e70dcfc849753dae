package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubArchive(t *testing.T, failures int) *atomic.Int32 {
	t.Helper()
	t.Setenv("ROOT_PATH", t.TempDir())

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if int(n) <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "temperature_2m_max,temperature_2m_min", r.URL.Query().Get("daily"))
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("start_date"))
		fmt.Fprint(w, `{"daily":{"time":["2024-05-01","2024-05-02","2024-05-03"],
			"temperature_2m_max":[4.5,null,6.1],"temperature_2m_min":[-3.2,-1.0,-0.4]}}`)
	}))
	t.Cleanup(server.Close)

	oldURL, oldWait := archiveURL, retryWait
	archiveURL, retryWait = server.URL, time.Millisecond
	t.Cleanup(func() { archiveURL, retryWait = oldURL, oldWait })
	return &calls
}

var (
	start = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
)

func TestFetchDailyTemperature(t *testing.T) {
	calls := stubArchive(t, 1)

	records, err := FetchDailyTemperature(context.Background(), "ObjectID_1", 47.005, -120.99, start, end, 3)
	require.NoError(t, err)
	assert.Equal(t, []TemperatureRecord{
		{LakeID: "ObjectID_1", Date: "2024-05-01", TMax: 4.5, TMin: -3.2},
		{LakeID: "ObjectID_1", Date: "2024-05-03", TMax: 6.1, TMin: -0.4},
	}, records)
	assert.Equal(t, int32(2), calls.Load())

	// second call is served from the cache
	again, err := FetchDailyTemperature(context.Background(), "lake-b", 47.005, -120.99, start, end, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "lake-b", again[0].LakeID)
}

func TestFetchDailyTemperatureGivesUp(t *testing.T) {
	calls := stubArchive(t, 10)

	_, err := FetchDailyTemperature(context.Background(), "ObjectID_1", 47, -121, start, end, 2)
	assert.ErrorContains(t, err, "after 2 attempts")
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchDailyTemperatureNoWaitAfterLastAttempt(t *testing.T) {
	stubArchive(t, 10)
	retryWait = time.Hour

	done := make(chan error, 1)
	go func() {
		_, err := FetchDailyTemperature(context.Background(), "ObjectID_1", 47, -121, start, end, 1)
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorContains(t, err, "after 1 attempts")
		assert.ErrorContains(t, err, "unexpected status 503")
	case <-time.After(5 * time.Second):
		t.Fatal("waited after the final attempt")
	}
}

func TestFetchDailyTemperatureRejectsNoRetries(t *testing.T) {
	calls := stubArchive(t, 0)

	_, err := FetchDailyTemperature(context.Background(), "ObjectID_1", 47, -121, start, end, 0)
	assert.ErrorContains(t, err, "retries must be at least 1")
	assert.NotContains(t, err.Error(), "%!w")
	assert.Equal(t, int32(0), calls.Load())
}

func TestCacheMaxAge(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, recentCacheAge, cacheMaxAge(now.AddDate(0, 0, -2), now))
	assert.Equal(t, time.Duration(0), cacheMaxAge(now.AddDate(0, 0, -30), now))
}
