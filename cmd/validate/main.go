// Command validate checks boundary-geometry files against the dashboard's
// location names. It loads each file the way the service does, then reports
// which regions and oceans would render uncolored because no feature carries
// their name.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -korea https://raw.githubusercontent.com/southkorea/southkorea-maps/master/kostat/2018/json/skorea-provinces-2018-geo.json \
//	  -oceans data/oceans.geojson \
//	  -strict
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/sealevel-dashboard/internal/adapter/geo"
	"github.com/couchcryptid/sealevel-dashboard/internal/config"
	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/observability"
)

// phase tracks pass/fail for a validation phase. Warnings are reported but
// only fail the phase in strict mode.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed(strict bool) bool {
	return len(p.errors) == 0 && (!strict || len(p.warnings) == 0)
}

func main() {
	korea := flag.String("korea", config.DefaultKoreaBoundaryURL, "Korea province boundaries (URL or file path)")
	oceans := flag.String("oceans", "data/oceans.geojson", "ocean boundaries (URL or file path)")
	timeout := flag.Duration("timeout", 15*time.Second, "HTTP fetch timeout")
	strict := flag.Bool("strict", false, "treat unmatched names as failures")
	flag.Parse()

	os.Exit(run(*korea, *oceans, *timeout, *strict))
}

func run(koreaLoc, oceansLoc string, timeout time.Duration, strict bool) int {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	fmt.Println("=== Boundary Join Validation ===")
	fmt.Println()

	ds, err := domain.BuildDataset(domain.DatasetOptions{Seed: 1})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: build dataset: %v\n", err)
		return 1
	}

	koreaSet, err := newSource("korea", koreaLoc, timeout, metrics, logger).LoadBoundaries(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load korea boundaries: %v\n", err)
		return 1
	}

	oceanSet, err := newSource("oceans", oceansLoc, timeout, metrics, logger).LoadBoundaries(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load ocean boundaries: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateJoin("Korea regions joined to boundaries", koreaSet, domain.RegionNames(domain.Regions)),
		validateJoin("Oceans joined to boundaries", oceanSet, ds.OceanNamesInTable()),
		validateOceanTable(ds),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		switch {
		case !p.passed(strict):
			status = fmt.Sprintf("\033[31mFAIL (%d errors, %d warnings)\033[0m", len(p.errors), len(p.warnings))
			allPassed = false
		case len(p.warnings) > 0:
			status = fmt.Sprintf("\033[33mWARN (%d)\033[0m", len(p.warnings))
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Features: %d korea (%s), %d oceans (%s)\n",
		koreaSet.Features, koreaSet.Source, oceanSet.Features, oceanSet.Source)

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.warnings) == 0 {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
		for _, w := range p.warnings {
			fmt.Printf("  [warn] %s\n", w)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func newSource(label, loc string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) geo.Source {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		return geo.NewHTTPSource(label, loc, timeout, metrics, logger)
	}
	return geo.NewFileSource(label, loc, metrics, logger)
}

// validateJoin reports data names with no matching feature. Those rows render
// uncolored, so they are warnings rather than errors.
func validateJoin(name string, set domain.BoundarySet, names []string) *phase {
	p := &phase{name: name}
	matched := 0
	for _, n := range names {
		if set.Has(n) {
			matched++
		}
	}
	for _, n := range set.Unmatched(names) {
		p.warnf("%q has no feature in %s", n, set.Source)
	}
	if len(names) > 0 && matched == 0 {
		p.errorf("no names matched; is %s the right file?", set.Source)
	}
	fmt.Printf("  %-42s %d/%d matched\n", name, matched, len(names))
	return p
}

// validateOceanTable checks that the embedded rate table has one row per
// ocean per year and that every code maps to a display name.
func validateOceanTable(ds *domain.Dataset) *phase {
	p := &phase{name: "Ocean rate table"}
	seen := make(map[string]map[int]int)
	for _, pt := range ds.OceanRates {
		if _, ok := domain.OceanNames[pt.Code]; !ok {
			p.errorf("code %q has no display name", pt.Code)
		}
		if seen[pt.Code] == nil {
			seen[pt.Code] = make(map[int]int)
		}
		seen[pt.Code][pt.Year]++
	}
	years := ds.RateYears()
	for code, byYear := range seen {
		for y := years.Start; y <= years.End; y++ {
			switch n := byYear[y]; {
			case n == 0:
				p.errorf("%s: missing year %d", code, y)
			case n > 1:
				p.errorf("%s: %d rows for year %d", code, n, y)
			}
		}
	}
	if len(seen) != len(domain.OceanNames) {
		p.errorf("table has %d oceans, want %d", len(seen), len(domain.OceanNames))
	}
	return p
}
