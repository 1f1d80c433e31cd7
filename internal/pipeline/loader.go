package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/observability"
)

// Publisher ships a built dataset to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ds *domain.Dataset) (int, error)
}

// Loader assembles the dashboard snapshot once at startup: it builds the
// tables, loads both boundary files and optionally publishes the dataset.
type Loader struct {
	opts      domain.DatasetOptions
	korea     domain.BoundarySource
	oceans    domain.BoundarySource
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu       sync.Mutex
	snapshot atomic.Pointer[domain.Snapshot]
}

// New creates a Loader. publisher may be nil.
func New(opts domain.DatasetOptions, korea, oceans domain.BoundarySource, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		opts:      opts,
		korea:     korea,
		oceans:    oceans,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the snapshot has been loaded.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if l.snapshot.Load() == nil {
		return errors.New("dashboard data has not been loaded yet")
	}
	return nil
}

// Snapshot returns the loaded snapshot, or nil before Load succeeds.
func (l *Loader) Snapshot() *domain.Snapshot {
	return l.snapshot.Load()
}

// Load builds the snapshot. It runs at most once successfully; later calls
// return the same snapshot. Any failure is returned and nothing is stored.
func (l *Loader) Load(ctx context.Context) (*domain.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s := l.snapshot.Load(); s != nil {
		return s, nil
	}

	ds, err := l.buildDataset()
	if err != nil {
		return nil, err
	}

	korea, err := l.korea.LoadBoundaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load korea boundaries: %w", err)
	}
	oceans, err := l.oceans.LoadBoundaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ocean boundaries: %w", err)
	}

	l.reportUnmatched("korea", korea.Unmatched(domain.RegionNames(domain.Regions)))
	l.reportUnmatched("oceans", oceans.Unmatched(ds.OceanNamesInTable()))

	if l.publisher != nil {
		n, err := l.publisher.Publish(ctx, ds)
		if err != nil {
			l.metrics.PublishErrors.Inc()
			return nil, err
		}
		l.metrics.RowsPublished.Add(float64(n))
	}

	s := &domain.Snapshot{Dataset: ds, Korea: korea, Oceans: oceans}
	l.snapshot.Store(s)
	l.metrics.Ready.Set(1)
	l.logger.Info("dashboard data loaded",
		"dataset_id", ds.ID,
		"seed", ds.Seed,
		"korea_features", korea.Features,
		"ocean_features", oceans.Features,
	)
	return s, nil
}

func (l *Loader) buildDataset() (*domain.Dataset, error) {
	start := time.Now()
	ds, err := domain.BuildDataset(l.opts)
	if err != nil {
		return nil, err
	}
	l.metrics.DatasetBuildDuration.Observe(time.Since(start).Seconds())

	counts := ds.Counts()
	l.metrics.DatasetRows.WithLabelValues("sea_level").Set(float64(counts.SeaLevel))
	l.metrics.DatasetRows.WithLabelValues("catch").Set(float64(counts.Catch))
	l.metrics.DatasetRows.WithLabelValues("ocean_rates").Set(float64(counts.OceanRates))
	l.logger.Info("dataset built",
		"dataset_id", ds.ID,
		"years", fmt.Sprintf("%d-%d", ds.Years.Start, ds.Years.End),
		"sea_level_rows", counts.SeaLevel,
		"catch_rows", counts.Catch,
		"ocean_rate_rows", counts.OceanRates,
	)
	return ds, nil
}

// reportUnmatched records locations that will render uncolored. This is
// expected for names the boundary file spells differently.
func (l *Loader) reportUnmatched(mapName string, names []string) {
	l.metrics.UnmatchedLocations.WithLabelValues(mapName).Set(float64(len(names)))
	if len(names) > 0 {
		l.logger.Info("locations without boundary feature will render uncolored",
			"map", mapName,
			"locations", names,
		)
	}
}
