package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Dataset is the immutable set of tables the dashboard renders. It is built
// once by BuildDataset and only read afterwards.
type Dataset struct {
	ID          string             `json:"id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Seed        uint64             `json:"seed"`
	Years       YearRange          `json:"years"`
	SeaLevel    []SeaLevelPoint    `json:"sea_level"`
	Catch       []RegionCatchPoint `json:"catch"`
	OceanRates  []OceanRatePoint   `json:"ocean_rates"`
}

// DatasetOptions controls BuildDataset. Zero values select the defaults.
type DatasetOptions struct {
	Years YearRange
	Seed  uint64
	Clock clockwork.Clock
}

// TableCounts reports the row count of each table.
type TableCounts struct {
	SeaLevel   int `json:"sea_level"`
	Catch      int `json:"catch"`
	OceanRates int `json:"ocean_rates"`
}

// BuildDataset generates the sea level and catch tables and parses the ocean
// rate table.
func BuildDataset(opts DatasetOptions) (*Dataset, error) {
	if opts.Years == (YearRange{}) {
		opts.Years = DefaultYears
	}
	if err := opts.Years.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	seed := ResolveSeed(opts.Seed, opts.Clock)
	rng := NewRand(seed)

	rates, err := ParseOceanRates()
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}

	return &Dataset{
		ID:          uuid.NewString(),
		GeneratedAt: opts.Clock.Now().UTC(),
		Seed:        seed,
		Years:       opts.Years,
		SeaLevel:    GenerateSeaLevel(opts.Years, rng),
		Catch:       GenerateCatch(Regions, CoastalCatchBase, opts.Years, rng),
		OceanRates:  rates,
	}, nil
}

// Counts returns the number of rows in each table.
func (d *Dataset) Counts() TableCounts {
	return TableCounts{
		SeaLevel:   len(d.SeaLevel),
		Catch:      len(d.Catch),
		OceanRates: len(d.OceanRates),
	}
}

// CatchForYear returns the catch rows of one year, one per region.
func (d *Dataset) CatchForYear(year int) []RegionCatchPoint {
	var out []RegionCatchPoint
	for _, p := range d.Catch {
		if p.Year == year {
			out = append(out, p)
		}
	}
	return out
}

// RatesForYear returns the ocean rate rows of one year, one per ocean.
func (d *Dataset) RatesForYear(year int) []OceanRatePoint {
	var out []OceanRatePoint
	for _, p := range d.OceanRates {
		if p.Year == year {
			out = append(out, p)
		}
	}
	return out
}

// CatchYears returns the min and max year present in the catch table.
// An empty table yields the zero range.
func (d *Dataset) CatchYears() YearRange {
	if len(d.Catch) == 0 {
		return YearRange{}
	}
	r := emptyRange()
	for _, p := range d.Catch {
		r = extend(r, p.Year)
	}
	return r
}

// RateYears returns the min and max year present in the ocean rate table.
func (d *Dataset) RateYears() YearRange {
	if len(d.OceanRates) == 0 {
		return YearRange{}
	}
	r := emptyRange()
	for _, p := range d.OceanRates {
		r = extend(r, p.Year)
	}
	return r
}

// MaxCatch returns the largest catch value across all years.
func (d *Dataset) MaxCatch() float64 {
	var m float64
	for _, p := range d.Catch {
		m = max(m, p.CatchTons)
	}
	return m
}

// RateBounds returns the smallest and largest rate across all years.
func (d *Dataset) RateBounds() (lo, hi float64) {
	if len(d.OceanRates) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range d.OceanRates {
		lo = min(lo, p.RateMMPerYear)
		hi = max(hi, p.RateMMPerYear)
	}
	return lo, hi
}

// OceanNamesInTable returns the distinct ocean display names in table order.
func (d *Dataset) OceanNamesInTable() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, p := range d.OceanRates {
		if _, ok := seen[p.Ocean]; ok {
			continue
		}
		seen[p.Ocean] = struct{}{}
		names = append(names, p.Ocean)
	}
	return names
}

// emptyRange is the identity for extend: Start above End.
func emptyRange() YearRange {
	return YearRange{Start: math.MaxInt, End: math.MinInt}
}

func extend(r YearRange, year int) YearRange {
	return YearRange{Start: min(r.Start, year), End: max(r.End, year)}
}
