package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownOcean is returned when a rate column has no display name.
var ErrUnknownOcean = errors.New("unknown ocean code")

// oceanRateTable holds annual sea-level-rise rates (mm/yr) per ocean.
// Rows are separated by ';' and fields by ','. The first row is the header.
const oceanRateTable = `year,pacific,atlantic,indian,southern,arctic;
1993,3.5,2.5,2.8,1.0,4.0;1994,3.7,2.7,3.0,1.2,4.2;1995,3.8,2.8,3.1,1.1,4.3;1996,4.0,2.9,3.3,1.3,4.5;
1997,4.2,3.0,3.4,1.5,4.7;1998,4.3,3.1,3.6,1.4,4.8;1999,4.1,3.0,3.5,1.3,4.6;2000,4.0,3.0,3.4,1.2,4.5;
2001,4.0,3.1,3.6,1.3,4.7;2002,4.1,3.2,3.7,1.4,4.8;2003,4.3,3.3,3.8,1.5,5.0;2004,4.4,3.4,3.9,1.5,5.1;
2005,4.5,3.5,4.0,1.6,5.2;2006,4.6,3.6,4.1,1.7,5.3;2007,4.8,3.7,4.2,1.8,5.5;2008,4.9,3.8,4.3,1.9,5.6;
2009,5.0,3.9,4.4,2.0,5.7;2010,5.1,4.0,4.5,2.1,5.8;2011,5.2,4.1,4.6,2.2,6.0;2012,5.3,4.2,4.7,2.3,6.1;
2013,5.4,4.3,4.8,2.4,6.2;2014,5.5,4.4,4.9,2.5,6.3;2015,5.6,4.5,5.0,2.6,6.4;2016,5.7,4.6,5.1,2.7,6.5;
2017,5.8,4.7,5.2,2.8,6.6;2018,5.9,4.8,5.3,2.9,6.7;2019,6.0,4.9,5.4,3.0,6.8;2020,6.1,5.0,5.5,3.1,6.9;
2021,6.2,5.1,5.6,3.2,7.0;2022,6.3,5.2,5.7,3.3,7.1;2023,6.4,5.3,5.8,3.4,7.2`

// OceanNames maps rate-table column codes to the names used by the ocean
// boundary file.
var OceanNames = map[string]string{
	"pacific":  "Pacific Ocean",
	"atlantic": "Atlantic Ocean",
	"indian":   "Indian Ocean",
	"southern": "Southern Ocean",
	"arctic":   "Arctic Ocean",
}

// WideTable is a year-indexed table with one value column per ocean code.
type WideTable struct {
	Columns []string  `json:"columns"`
	Rows    []WideRow `json:"rows"`
}

// WideRow holds one year's values, aligned with WideTable.Columns.
type WideRow struct {
	Year   int       `json:"year"`
	Values []float64 `json:"values"`
}

// OceanRatePoint is the long-form rise rate of one ocean in one year.
type OceanRatePoint struct {
	Year          int     `json:"year"`
	Code          string  `json:"code"`
	Ocean         string  `json:"ocean"`
	RateMMPerYear float64 `json:"rate_mm_per_year"`
}

// ParseOceanRates parses the embedded rate table into long form.
func ParseOceanRates() ([]OceanRatePoint, error) {
	wide, err := ParseWideTable(oceanRateTable)
	if err != nil {
		return nil, err
	}
	return Melt(wide, OceanNames)
}

// ParseWideTable parses ';'-separated rows of ','-separated fields. The first
// row is the header and its first column is the year.
func ParseWideTable(text string) (WideTable, error) {
	r := csv.NewReader(strings.NewReader(normalizeRows(text)))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return WideTable{}, errors.New("parse wide table: empty input")
	}
	if err != nil {
		return WideTable{}, fmt.Errorf("parse wide table header: %w", err)
	}
	if len(header) < 2 {
		return WideTable{}, errors.New("parse wide table: header needs a year column and at least one value column")
	}

	table := WideTable{Columns: trimAll(header[1:])}
	cols := make(map[string]struct{}, len(table.Columns))
	for _, c := range table.Columns {
		if _, dup := cols[c]; dup {
			return WideTable{}, fmt.Errorf("parse wide table: duplicate column %q", c)
		}
		cols[c] = struct{}{}
	}

	seen := make(map[int]struct{})
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return WideTable{}, fmt.Errorf("parse wide table: %w", err)
		}
		row, err := parseWideRow(rec)
		if err != nil {
			return WideTable{}, err
		}
		if _, dup := seen[row.Year]; dup {
			return WideTable{}, fmt.Errorf("parse wide table: duplicate year %d", row.Year)
		}
		seen[row.Year] = struct{}{}
		table.Rows = append(table.Rows, row)
	}
	if len(table.Rows) == 0 {
		return WideTable{}, errors.New("parse wide table: no data rows")
	}
	return table, nil
}

func parseWideRow(rec []string) (WideRow, error) {
	year, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return WideRow{}, fmt.Errorf("parse wide table: year %q: %w", rec[0], err)
	}
	row := WideRow{Year: year, Values: make([]float64, 0, len(rec)-1)}
	for _, field := range rec[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return WideRow{}, fmt.Errorf("parse wide table: year %d value %q: %w", year, field, err)
		}
		row.Values = append(row.Values, v)
	}
	return row, nil
}

// normalizeRows turns ';' row separators into newlines and drops blank rows.
func normalizeRows(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == ';' || r == '\n' })
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// Melt reshapes a wide table into long form, column-major: all years of the
// first column, then all years of the second, and so on. Every column must
// have an entry in names and every row one value per column.
func Melt(w WideTable, names map[string]string) ([]OceanRatePoint, error) {
	for _, row := range w.Rows {
		if len(row.Values) != len(w.Columns) {
			return nil, fmt.Errorf("melt: year %d has %d values for %d columns", row.Year, len(row.Values), len(w.Columns))
		}
	}
	points := make([]OceanRatePoint, 0, len(w.Columns)*len(w.Rows))
	for ci, code := range w.Columns {
		name, ok := names[code]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOcean, code)
		}
		for _, row := range w.Rows {
			points = append(points, OceanRatePoint{
				Year:          row.Year,
				Code:          code,
				Ocean:         name,
				RateMMPerYear: row.Values[ci],
			})
		}
	}
	return points, nil
}

// Pivot reshapes long-form points back into a wide table. Columns keep the
// order in which codes first appear; rows are sorted by year. Every
// (year, code) cell must be present exactly once.
func Pivot(points []OceanRatePoint) (WideTable, error) {
	var columns []string
	colIdx := make(map[string]int)
	cells := make(map[int]map[string]float64)
	for _, p := range points {
		if _, ok := colIdx[p.Code]; !ok {
			colIdx[p.Code] = len(columns)
			columns = append(columns, p.Code)
		}
		row, ok := cells[p.Year]
		if !ok {
			row = make(map[string]float64)
			cells[p.Year] = row
		}
		if _, dup := row[p.Code]; dup {
			return WideTable{}, fmt.Errorf("pivot: duplicate cell year %d column %q", p.Year, p.Code)
		}
		row[p.Code] = p.RateMMPerYear
	}

	years := make([]int, 0, len(cells))
	for y := range cells {
		years = append(years, y)
	}
	slices.Sort(years)

	table := WideTable{Columns: columns}
	for _, y := range years {
		values := make([]float64, len(columns))
		for i, code := range columns {
			v, ok := cells[y][code]
			if !ok {
				return WideTable{}, fmt.Errorf("pivot: missing cell year %d column %q", y, code)
			}
			values[i] = v
		}
		table.Rows = append(table.Rows, WideRow{Year: y, Values: values})
	}
	return table, nil
}
