package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given a fresh metrics set", t, func() {
		m := New()

		Convey("Cache observations are counted per key", func() {
			m.CacheHit("cohort:female")
			m.CacheHit("cohort:female")
			m.CacheMiss("cohort:male")

			So(testutil.ToFloat64(m.cacheHits.WithLabelValues("cohort:female")), ShouldEqual, 2)
			So(testutil.ToFloat64(m.cacheMisses.WithLabelValues("cohort:male")), ShouldEqual, 1)
		})

		Convey("Import rows are split by outcome", func() {
			m.ImportRows("events", 10, 3)
			m.ImportRows("events", 5, 0)

			So(testutil.ToFloat64(m.importRows.WithLabelValues("events", "inserted")), ShouldEqual, 15)
			So(testutil.ToFloat64(m.importRows.WithLabelValues("events", "skipped")), ShouldEqual, 3)
		})

		Convey("The handler exposes recorded series", func() {
			m.ObserveHTTP("GET", "/api/stats/{metric}", 200, 15*time.Millisecond)

			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
			body, _ := io.ReadAll(rec.Body)

			So(rec.Code, ShouldEqual, 200)
			So(strings.Contains(string(body), `ultimetrics_http_requests_total{method="GET",route="/api/stats/{metric}",status="200"} 1`), ShouldBeTrue)
			So(strings.Contains(string(body), "ultimetrics_http_request_duration_seconds_count"), ShouldBeTrue)
		})
	})
}
