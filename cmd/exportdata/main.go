// Command exportdata builds the dashboard dataset with a fixed seed and writes
// it to JSON and XLSX files, for fixtures and offline analysis.
//
// Usage:
//
//	go run ./cmd/exportdata \
//	  -seed 42 \
//	  -json-out data/export/dataset.json \
//	  -xlsx-out data/export/dataset.xlsx
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
	"github.com/couchcryptid/sealevel-dashboard/internal/export"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	seed := flag.Uint64("seed", 42, "random seed for the synthetic tables (must be non-zero)")
	start := flag.Int("start-year", domain.DefaultYears.Start, "first generated year")
	end := flag.Int("end-year", domain.DefaultYears.End, "last generated year")
	jsonOut := flag.String("json-out", "", "output path for the dataset JSON")
	xlsxOut := flag.String("xlsx-out", "", "output path for the dataset workbook")
	flag.Parse()

	if *jsonOut == "" && *xlsxOut == "" {
		flag.Usage()
		return fmt.Errorf("at least one of -json-out, -xlsx-out is required")
	}
	if *seed == 0 {
		return fmt.Errorf("-seed must be non-zero for reproducible output")
	}

	// Fixed clock so repeated runs produce identical files apart from the ID.
	ds, err := domain.BuildDataset(domain.DatasetOptions{
		Years: domain.YearRange{Start: *start, End: *end},
		Seed:  *seed,
		Clock: clockwork.NewFakeClockAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		return fmt.Errorf("build dataset: %w", err)
	}

	if *jsonOut != "" {
		if err := writeJSON(*jsonOut, ds); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
		log.Printf("wrote JSON: %s", *jsonOut)
	}

	if *xlsxOut != "" {
		if err := writeXLSX(*xlsxOut, ds); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		log.Printf("wrote workbook: %s", *xlsxOut)
	}

	printStats(ds)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func writeXLSX(path string, ds *domain.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteWorkbook(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(ds *domain.Dataset) {
	counts := ds.Counts()
	catchYears := ds.CatchYears()
	rateYears := ds.RateYears()
	lo, hi := ds.RateBounds()

	fmt.Println()
	fmt.Printf("Dataset %s (seed %d)\n", ds.ID, ds.Seed)
	fmt.Printf("  %-12s %5d rows  %d-%d\n", "sea level", counts.SeaLevel, ds.Years.Start, ds.Years.End)
	fmt.Printf("  %-12s %5d rows  %d-%d  max %.0f t\n", "catch", counts.Catch, catchYears.Start, catchYears.End, ds.MaxCatch())
	fmt.Printf("  %-12s %5d rows  %d-%d  %.1f-%.1f mm/yr\n", "ocean rates", counts.OceanRates, rateYears.Start, rateYears.End, lo, hi)
}
