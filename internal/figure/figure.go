// Package figure builds Plotly figure specifications from dataset tables.
// The browser renders them with Plotly.react; geometry is referenced by URL
// so figures stay small.
package figure

import (
	"errors"
	"fmt"
	"math"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
)

// ErrNoData is returned when the requested year has no rows.
var ErrNoData = errors.New("no data for year")

// FeatureIDKey joins trace locations to boundary features.
const FeatureIDKey = "properties.name"

// zeroFloor stands in for a zero color bound: numeric attributes are
// omitted from the JSON when zero.
const zeroFloor = math.SmallestNonzeroFloat64

func mapMargin() *grob.LayoutMargin {
	return &grob.LayoutMargin{R: 10, T: 40, L: 10, B: 10}
}

// KoreaCatchMap is a choropleth of catch volume by province for one year.
// The color range spans 0 to the largest catch in any year so colors are
// comparable across years.
func KoreaCatchMap(ds *domain.Dataset, year int, geojsonURL string) (*grob.Fig, error) {
	if !ds.CatchYears().Contains(year) {
		return nil, fmt.Errorf("%w: %d", ErrNoData, year)
	}
	rows := ds.CatchForYear(year)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoData, year)
	}

	locations := make([]string, len(rows))
	z := make([]float64, len(rows))
	text := make([]string, len(rows))
	for i, r := range rows {
		locations[i] = r.Region
		z[i] = r.CatchTons
		text[i] = r.Label
	}

	return &grob.Fig{
		Data: grob.Traces{
			&grob.Choropleth{
				Type:          grob.TraceTypeChoropleth,
				Geojson:       geojsonURL,
				Featureidkey:  FeatureIDKey,
				Locations:     locations,
				Z:             z,
				Zauto:         grob.False,
				Zmin:          zeroFloor,
				Zmax:          ds.MaxCatch(),
				Colorscale:    "Blues",
				Colorbar:      &grob.ChoroplethColorbar{Title: &grob.ChoroplethColorbarTitle{Text: "Catch (t)"}},
				Text:          text,
				Hovertemplate: "%{text}<br>%{z:,.0f} t<extra></extra>",
			},
		},
		Layout: &grob.Layout{
			Title:  &grob.LayoutTitle{Text: fmt.Sprintf("<b>Catch volume by province, %d</b>", year), X: 0.5},
			Margin: mapMargin(),
			Geo:    &grob.LayoutGeo{Fitbounds: "locations", Visible: grob.False},
		},
	}, nil
}

// SeaLevelArea is an area chart of mean coastal sea level by year.
func SeaLevelArea(ds *domain.Dataset) *grob.Fig {
	x := make([]int, len(ds.SeaLevel))
	y := make([]float64, len(ds.SeaLevel))
	for i, p := range ds.SeaLevel {
		x[i] = p.Year
		y[i] = p.LevelMM
	}

	return &grob.Fig{
		Data: grob.Traces{
			&grob.Scatter{
				Type:          grob.TraceTypeScatter,
				Name:          "Sea level",
				X:             x,
				Y:             y,
				Mode:          "lines",
				Fill:          "tozeroy",
				Hovertemplate: "%{x}: %{y:.1f} mm<extra></extra>",
			},
		},
		Layout: &grob.Layout{
			Title: &grob.LayoutTitle{Text: "<b>Mean coastal sea level, Korea (mm)</b>"},
			Xaxis: &grob.LayoutXaxis{Title: &grob.LayoutXaxisTitle{Text: "Year"}},
			Yaxis: &grob.LayoutYaxis{Title: &grob.LayoutYaxisTitle{Text: "Sea level (mm)"}},
		},
	}
}

// OceanRateMap is a choropleth of sea-level-rise rate by ocean for one year.
// The color range spans the smallest to largest rate in any year.
func OceanRateMap(ds *domain.Dataset, year int, geojsonURL string) (*grob.Fig, error) {
	if !ds.RateYears().Contains(year) {
		return nil, fmt.Errorf("%w: %d", ErrNoData, year)
	}
	rows := ds.RatesForYear(year)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoData, year)
	}

	locations := make([]string, len(rows))
	z := make([]float64, len(rows))
	for i, r := range rows {
		locations[i] = r.Ocean
		z[i] = r.RateMMPerYear
	}
	lo, hi := ds.RateBounds()
	if lo == 0 {
		lo = zeroFloor
	}

	return &grob.Fig{
		Data: grob.Traces{
			&grob.Choropleth{
				Type:          grob.TraceTypeChoropleth,
				Geojson:       geojsonURL,
				Featureidkey:  FeatureIDKey,
				Locations:     locations,
				Z:             z,
				Zauto:         grob.False,
				Zmin:          lo,
				Zmax:          hi,
				Colorscale:    "Reds",
				Colorbar:      &grob.ChoroplethColorbar{Title: &grob.ChoroplethColorbarTitle{Text: "Rise (mm/yr)"}},
				Text:          locations,
				Hovertemplate: "%{text}<br>%{z:.2f} mm/yr<extra></extra>",
			},
		},
		Layout: &grob.Layout{
			Title:  &grob.LayoutTitle{Text: fmt.Sprintf("<b>Sea-level rise rate by ocean, %d</b>", year), X: 0.5},
			Margin: mapMargin(),
			Geo: &grob.LayoutGeo{
				Visible:       grob.False,
				Resolution:    50,
				Showcountries: grob.True,
				Countrycolor:  "RebeccaPurple",
				Showland:      grob.True,
				Landcolor:     "lightgray",
				Showocean:     grob.True,
				Oceancolor:    "lightblue",
			},
		},
	}, nil
}
