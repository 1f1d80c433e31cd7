package geo

import (
	"io"
	"log/slog"

	"github.com/couchcryptid/sealevel-dashboard/internal/observability"
)

const (
	contentTypeGeoJSON = "application/geo+json"
	headerContentType  = "Content-Type"

	koreaFixture = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"name":"부산광역시","code":"21"},"geometry":{"type":"Polygon","coordinates":[[[129.0,35.0],[129.0,35.3],[129.3,35.3],[129.3,35.0],[129.0,35.0]]]}},
{"type":"Feature","properties":{"name":"제주특별자치도","code":"39"},"geometry":{"type":"Polygon","coordinates":[[[126.1,33.1],[126.1,33.6],[126.9,33.6],[126.9,33.1],[126.1,33.1]]]}}
]}`
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
