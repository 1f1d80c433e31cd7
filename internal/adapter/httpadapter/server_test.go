package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/sealevel-dashboard/internal/adapter/httpadapter"
	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/export"
	"github.com/couchcryptid/sealevel-dashboard/internal/observability"
)

type mockProvider struct {
	snap *domain.Snapshot
	err  error
}

func (m *mockProvider) CheckReadiness(_ context.Context) error { return m.err }

func (m *mockProvider) Snapshot() *domain.Snapshot { return m.snap }

var koreaRaw = []byte(`{"type":"FeatureCollection","features":[]}`)

func testSnapshot(t *testing.T) *domain.Snapshot {
	t.Helper()
	ds, err := domain.BuildDataset(domain.DatasetOptions{
		Seed:  5,
		Clock: clockwork.NewFakeClockAt(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return &domain.Snapshot{
		Dataset: ds,
		Korea: domain.BoundarySet{
			Source: "korea",
			Names:  []string{"부산광역시", "제주특별자치도"},
			Raw:    koreaRaw,
		},
		Oceans: domain.BoundarySet{
			Source: "oceans",
			Names:  []string{"Pacific Ocean", "Atlantic Ocean", "Indian Ocean", "Southern Ocean", "Arctic Ocean"},
			Raw:    []byte(`{"type":"FeatureCollection","features":[{"oceans":true}]}`),
		},
	}
}

func newTestServer(t *testing.T, snap *domain.Snapshot, readyErr error) (*httpadapter.Server, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockProvider{snap: snap, err: readyErr}, m, logger), m
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type plotFigure struct {
	Data []struct {
		Type         string    `json:"type"`
		Locations    []string  `json:"locations"`
		Z            []float64 `json:"z"`
		Fill         string    `json:"fill"`
		GeoJSON      string    `json:"geojson"`
		FeatureIDKey string    `json:"featureidkey"`
	} `json:"data"`
	Layout struct {
		Title struct {
			Text string `json:"text"`
		} `json:"title"`
	} `json:"layout"`
}

func decodeFigure(t *testing.T, rec *httptest.ResponseRecorder) plotFigure {
	t.Helper()
	var fig plotFigure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
	require.Len(t, fig.Data, 1)
	return fig
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	rec := get(srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(t, testSnapshot(t), nil)

	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(t, nil, errors.New("dataset not loaded"))

	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "dataset not loaded", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	rec := get(srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestEndpointsReturn503BeforeLoad(t *testing.T) {
	srv, _ := newTestServer(t, nil, errors.New("loading"))

	for _, target := range []string{
		"/",
		"/api/dataset",
		"/api/korea/map?year=2000",
		"/api/korea/sea-level",
		"/api/world/map?year=2000",
		"/api/export.xlsx",
		"/geo/korea.json",
		"/geo/oceans.json",
	} {
		t.Run(target, func(t *testing.T) {
			rec := get(srv, target)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestDashboardSlidersBoundedByTableYears(t *testing.T) {
	srv, _ := newTestServer(t, testSnapshot(t), nil)

	rec := get(srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	korea := doc.Find("input#korea-year")
	require.Equal(t, 1, korea.Length())
	assert.Equal(t, "1989", korea.AttrOr("min", ""))
	assert.Equal(t, "2023", korea.AttrOr("max", ""))
	assert.Equal(t, "2023", korea.AttrOr("value", ""))

	world := doc.Find("input#world-year")
	require.Equal(t, 1, world.Length())
	assert.Equal(t, "1993", world.AttrOr("min", ""))
	assert.Equal(t, "2023", world.AttrOr("max", ""))
	assert.Equal(t, "2023", world.AttrOr("value", ""))

	assert.Equal(t, 2, doc.Find("button.tab").Length())
	assert.Equal(t, 1, doc.Find("#korea-map").Length())
	assert.Equal(t, 1, doc.Find("#sea-level").Length())
	assert.Equal(t, 1, doc.Find("#world-map").Length())
}

func TestStaticAssetsServed(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	js := get(srv, "/static/dashboard.js")
	assert.Equal(t, http.StatusOK, js.Code)
	assert.Contains(t, js.Body.String(), "/api/korea/map")

	css := get(srv, "/static/dashboard.css")
	assert.Equal(t, http.StatusOK, css.Code)
	assert.Contains(t, css.Header().Get("Content-Type"), "text/css")

	// Only the asset directory is exposed, not the template source.
	missing := get(srv, "/static/assets/dashboard.html")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestUnknownPathReturns404(t *testing.T) {
	srv, _ := newTestServer(t, testSnapshot(t), nil)

	rec := get(srv, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestKoreaMapReturnsFigureForYear(t *testing.T) {
	srv, m := newTestServer(t, testSnapshot(t), nil)

	rec := get(srv, "/api/korea/map?year=2023")

	require.Equal(t, http.StatusOK, rec.Code)
	fig := decodeFigure(t, rec)
	trace := fig.Data[0]
	assert.Equal(t, "choropleth", trace.Type)
	assert.Len(t, trace.Locations, len(domain.Regions))
	assert.Len(t, trace.Z, len(domain.Regions))
	assert.Equal(t, httpadapter.KoreaGeoPath, trace.GeoJSON)
	assert.Equal(t, "properties.name", trace.FeatureIDKey)
	assert.Contains(t, fig.Layout.Title.Text, "2023")
	for _, z := range trace.Z {
		assert.GreaterOrEqual(t, z, 0.0)
	}
	assert.InDelta(t, 1, testutil.ToFloat64(m.FigureRequests.WithLabelValues("korea_map", "ok")), 0)
}

func TestWorldMapReturnsFigureForYear(t *testing.T) {
	srv, _ := newTestServer(t, testSnapshot(t), nil)

	rec := get(srv, "/api/world/map?year=1993")

	require.Equal(t, http.StatusOK, rec.Code)
	fig := decodeFigure(t, rec)
	trace := fig.Data[0]
	assert.Equal(t, httpadapter.OceansGeoPath, trace.GeoJSON)
	assert.Equal(t, []string{"Pacific Ocean", "Atlantic Ocean", "Indian Ocean", "Southern Ocean", "Arctic Ocean"}, trace.Locations)
	assert.Equal(t, []float64{3.5, 2.5, 2.8, 1.0, 4.0}, trace.Z)
}

func TestSeaLevelReturnsAreaFigure(t *testing.T) {
	srv, _ := newTestServer(t, testSnapshot(t), nil)

	rec := get(srv, "/api/korea/sea-level")

	require.Equal(t, http.StatusOK, rec.Code)
	fig := decodeFigure(t, rec)
	assert.Equal(t, "tozeroy", fig.Data[0].Fill)
}

func TestMapYearValidation(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    int
		view    string
		outcome string
	}{
		{name: "korea missing year", target: "/api/korea/map", want: http.StatusBadRequest, view: "korea_map", outcome: "bad_request"},
		{name: "korea invalid year", target: "/api/korea/map?year=abc", want: http.StatusBadRequest, view: "korea_map", outcome: "bad_request"},
		{name: "korea year outside table", target: "/api/korea/map?year=1950", want: http.StatusNotFound, view: "korea_map", outcome: "not_found"},
		{name: "world missing year", target: "/api/world/map", want: http.StatusBadRequest, view: "world_map", outcome: "bad_request"},
		{name: "world year before table", target: "/api/world/map?year=1990", want: http.StatusNotFound, view: "world_map", outcome: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, m := newTestServer(t, testSnapshot(t), nil)

			rec := get(srv, tt.target)

			assert.Equal(t, tt.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.InDelta(t, 1, testutil.ToFloat64(m.FigureRequests.WithLabelValues(tt.view, tt.outcome)), 0)
		})
	}
}

func TestDatasetEndpoint(t *testing.T) {
	snap := testSnapshot(t)
	srv, _ := newTestServer(t, snap, nil)

	rec := get(srv, "/api/dataset")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		ID              string             `json:"id"`
		Seed            uint64             `json:"seed"`
		Counts          domain.TableCounts `json:"counts"`
		CatchYears      domain.YearRange   `json:"catch_years"`
		RateYears       domain.YearRange   `json:"rate_years"`
		KoreaUnmatched  []string           `json:"korea_unmatched"`
		OceansUnmatched []string           `json:"oceans_unmatched"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, snap.Dataset.ID, body.ID)
	assert.Equal(t, uint64(5), body.Seed)
	assert.Equal(t, snap.Dataset.Counts(), body.Counts)
	assert.Equal(t, domain.YearRange{Start: 1989, End: 2023}, body.CatchYears)
	assert.Equal(t, domain.YearRange{Start: 1993, End: 2023}, body.RateYears)
	assert.Len(t, body.KoreaUnmatched, len(domain.Regions)-2)
	assert.NotContains(t, body.KoreaUnmatched, "부산광역시")
	assert.Empty(t, body.OceansUnmatched)
}

func TestExportReturnsWorkbook(t *testing.T) {
	snap := testSnapshot(t)
	srv, _ := newTestServer(t, snap, nil)

	rec := get(srv, "/api/export.xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{export.SheetSeaLevel, export.SheetCatch, export.SheetOceanRates}, f.GetSheetList())
}

func TestBoundaryFilesServeRawBytes(t *testing.T) {
	snap := testSnapshot(t)
	srv, _ := newTestServer(t, snap, nil)

	korea := get(srv, "/geo/korea.json")
	require.Equal(t, http.StatusOK, korea.Code)
	assert.Equal(t, "application/geo+json", korea.Header().Get("Content-Type"))
	assert.Equal(t, koreaRaw, korea.Body.Bytes())

	oceans := get(srv, "/geo/oceans.json")
	require.Equal(t, http.StatusOK, oceans.Code)
	assert.Equal(t, snap.Oceans.Raw, oceans.Body.Bytes())
}
