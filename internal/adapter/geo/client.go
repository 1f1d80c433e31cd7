package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/observability"
)

// maxBoundaryBytes caps the size of a downloaded boundary file.
const maxBoundaryBytes = 64 << 20

// ErrBoundaryTooLarge is returned when a response body exceeds the size cap.
var ErrBoundaryTooLarge = errors.New("boundary file too large")

// HTTPSource implements domain.BoundarySource by fetching a GeoJSON file over HTTP.
type HTTPSource struct {
	label      string
	url        string
	httpClient *http.Client
	maxBytes   int64
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewHTTPSource creates a source that GETs url. label names the source in
// logs and metrics.
func NewHTTPSource(label, url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		label: label,
		url:   url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBytes: maxBoundaryBytes,
		metrics:  metrics,
		logger:   logger,
	}
}

// Label returns the source name used in logs and metrics.
func (s *HTTPSource) Label() string { return s.label }

// Key identifies the fetched resource for caching.
func (s *HTTPSource) Key() string { return s.url }

// LoadBoundaries fetches and parses the boundary file. Any non-200 status is an error.
func (s *HTTPSource) LoadBoundaries(ctx context.Context) (domain.BoundarySet, error) {
	start := time.Now()
	set, err := s.fetch(ctx)
	s.metrics.BoundaryFetchDuration.WithLabelValues(s.label).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.BoundaryRequests.WithLabelValues(s.label, "error").Inc()
		return domain.BoundarySet{}, err
	}
	s.metrics.BoundaryRequests.WithLabelValues(s.label, "success").Inc()
	s.metrics.BoundaryFeatures.WithLabelValues(s.label).Set(float64(set.Features))
	s.logger.Info("boundary file fetched",
		"source", s.label,
		"url", s.url,
		"features", set.Features,
		"duration", time.Since(start),
	)
	return set, nil
}

func (s *HTTPSource) fetch(ctx context.Context) (domain.BoundarySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return domain.BoundarySet{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.BoundarySet{}, fmt.Errorf("%s boundary request: %w", s.label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.BoundarySet{}, fmt.Errorf("%s boundary fetch: status %d: %s", s.label, resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return domain.BoundarySet{}, fmt.Errorf("read %s boundary body: %w", s.label, err)
	}
	if int64(len(data)) > s.maxBytes {
		return domain.BoundarySet{}, fmt.Errorf("%s: %w: over %d bytes", s.label, ErrBoundaryTooLarge, s.maxBytes)
	}
	return ParseBoundaries(s.url, data)
}
