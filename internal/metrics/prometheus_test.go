package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordEntity(t *testing.T) {
	before := testutil.ToFloat64(entitiesTotal.WithLabelValues("product", ActionCreated))
	RecordEntity("product", ActionCreated)
	RecordEntity("product", ActionCreated)
	assert.Equal(t, before+2, testutil.ToFloat64(entitiesTotal.WithLabelValues("product", ActionCreated)))
}

func TestRecordAssetDownload(t *testing.T) {
	ok := testutil.ToFloat64(assetDownloadsTotal.WithLabelValues("ok"))
	failed := testutil.ToFloat64(assetDownloadsTotal.WithLabelValues("error"))

	RecordAssetDownload(nil)
	RecordAssetDownload(errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(assetDownloadsTotal.WithLabelValues("ok")))
	assert.Equal(t, failed+1, testutil.ToFloat64(assetDownloadsTotal.WithLabelValues("error")))
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, "2xx", classifyStatus(http.StatusAccepted))
	assert.Equal(t, "4xx", classifyStatus(http.StatusConflict))
	assert.Equal(t, "5xx", classifyStatus(http.StatusBadGateway))
	assert.Equal(t, "unknown", classifyStatus(0))
}

func TestMetricsHandlerExposesCounters(t *testing.T) {
	RecordRun("COMPLETED")
	RecordPageFetch("products", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shopsync_runs_total")
	assert.Contains(t, rec.Body.String(), "shopsync_page_fetch_duration_seconds")
}
