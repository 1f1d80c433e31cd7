package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/export"
	"github.com/couchcryptid/sealevel-dashboard/internal/figure"
)

// dashboardView is the template data for the dashboard page.
type dashboardView struct {
	DatasetID  string
	KoreaYears domain.YearRange
	WorldYears domain.YearRange
}

// datasetInfo is the /api/dataset response.
type datasetInfo struct {
	ID              string             `json:"id"`
	GeneratedAt     time.Time          `json:"generated_at"`
	Seed            uint64             `json:"seed"`
	Counts          domain.TableCounts `json:"counts"`
	CatchYears      domain.YearRange   `json:"catch_years"`
	RateYears       domain.YearRange   `json:"rate_years"`
	KoreaUnmatched  []string           `json:"korea_unmatched"`
	OceansUnmatched []string           `json:"oceans_unmatched"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshotOr503(w)
	if snap == nil {
		return
	}
	view := dashboardView{
		DatasetID:  snap.Dataset.ID,
		KoreaYears: snap.Dataset.CatchYears(),
		WorldYears: snap.Dataset.RateYears(),
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		s.logger.Error("render dashboard", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDataset(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshotOr503(w)
	if snap == nil {
		return
	}
	ds := snap.Dataset
	writeJSON(w, http.StatusOK, datasetInfo{
		ID:              ds.ID,
		GeneratedAt:     ds.GeneratedAt,
		Seed:            ds.Seed,
		Counts:          ds.Counts(),
		CatchYears:      ds.CatchYears(),
		RateYears:       ds.RateYears(),
		KoreaUnmatched:  nonNil(snap.Korea.Unmatched(domain.RegionNames(domain.Regions))),
		OceansUnmatched: nonNil(snap.Oceans.Unmatched(ds.OceanNamesInTable())),
	})
}

func (s *Server) handleKoreaMap(w http.ResponseWriter, r *http.Request) {
	s.serveYearFigure(w, r, "korea_map", func(ds *domain.Dataset, year int) (*grob.Fig, error) {
		return figure.KoreaCatchMap(ds, year, KoreaGeoPath)
	})
}

func (s *Server) handleWorldMap(w http.ResponseWriter, r *http.Request) {
	s.serveYearFigure(w, r, "world_map", func(ds *domain.Dataset, year int) (*grob.Fig, error) {
		return figure.OceanRateMap(ds, year, OceansGeoPath)
	})
}

func (s *Server) handleSeaLevel(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshotOr503(w)
	if snap == nil {
		return
	}
	s.metrics.FigureRequests.WithLabelValues("sea_level", "ok").Inc()
	writeJSON(w, http.StatusOK, figure.SeaLevelArea(snap.Dataset))
}

func (s *Server) serveYearFigure(w http.ResponseWriter, r *http.Request, view string, build func(*domain.Dataset, int) (*grob.Fig, error)) {
	snap := s.snapshotOr503(w)
	if snap == nil {
		return
	}

	year, err := parseYear(r)
	if err != nil {
		s.metrics.FigureRequests.WithLabelValues(view, "bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	fig, err := build(snap.Dataset, year)
	if errors.Is(err, figure.ErrNoData) {
		s.metrics.FigureRequests.WithLabelValues(view, "not_found").Inc()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("build figure", "view", view, "year", year, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "figure failed"})
		return
	}

	s.metrics.FigureRequests.WithLabelValues(view, "ok").Inc()
	writeJSON(w, http.StatusOK, fig)
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshotOr503(w)
	if snap == nil {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, snap.Dataset); err != nil {
		s.logger.Error("export workbook", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sealevel-%s.xlsx"`, snap.Dataset.ID))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleBoundaries(pick func(*domain.Snapshot) domain.BoundarySet) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		snap := s.snapshotOr503(w)
		if snap == nil {
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(pick(snap).Raw)
	}
}

// snapshotOr503 returns the loaded snapshot, or writes 503 and returns nil.
func (s *Server) snapshotOr503(w http.ResponseWriter) *domain.Snapshot {
	snap := s.data.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "data not loaded"})
	}
	return snap
}

func parseYear(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, errors.New("missing year parameter")
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
