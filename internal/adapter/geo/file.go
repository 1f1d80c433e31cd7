package geo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/observability"
)

// FileSource implements domain.BoundarySource by reading a local GeoJSON file.
type FileSource struct {
	label   string
	path    string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewFileSource creates a source reading path.
func NewFileSource(label, path string, metrics *observability.Metrics, logger *slog.Logger) *FileSource {
	return &FileSource{label: label, path: path, metrics: metrics, logger: logger}
}

// Label returns the source name used in logs and metrics.
func (s *FileSource) Label() string { return s.label }

// Key identifies the file for caching.
func (s *FileSource) Key() string { return "file:" + s.path }

// LoadBoundaries reads and parses the file. A missing or unreadable file is an error.
func (s *FileSource) LoadBoundaries(ctx context.Context) (domain.BoundarySet, error) {
	if err := ctx.Err(); err != nil {
		return domain.BoundarySet{}, err
	}

	start := time.Now()
	set, err := s.read()
	s.metrics.BoundaryFetchDuration.WithLabelValues(s.label).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.BoundaryRequests.WithLabelValues(s.label, "error").Inc()
		return domain.BoundarySet{}, err
	}
	s.metrics.BoundaryRequests.WithLabelValues(s.label, "success").Inc()
	s.metrics.BoundaryFeatures.WithLabelValues(s.label).Set(float64(set.Features))
	s.logger.Info("boundary file read", "source", s.label, "path", s.path, "features", set.Features)
	return set, nil
}

func (s *FileSource) read() (domain.BoundarySet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.BoundarySet{}, fmt.Errorf("read %s boundary file: %w", s.label, err)
	}
	return ParseBoundaries(s.path, data)
}
