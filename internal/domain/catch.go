package domain

// Catch generator parameters.
const (
	catchDecayPerYear = 0.018
	catchNoiseTons    = 3000.0
)

// RegionCatchPoint is the catch volume landed in one province in one year.
type RegionCatchPoint struct {
	Year      int     `json:"year"`
	Region    string  `json:"region"`
	Label     string  `json:"label"`
	CatchTons float64 `json:"catch_tons"`
}

// GenerateCatch produces one point per (region, year), region-major.
// Each value is base*(1 - 0.018*(year-r.Start)) plus uniform noise in
// [-3000, 3000), floored at zero. Regions missing from bases use base 0.
func GenerateCatch(regions []Region, bases map[string]float64, r YearRange, rng Rand) []RegionCatchPoint {
	points := make([]RegionCatchPoint, 0, len(regions)*r.Len())
	for _, region := range regions {
		base := bases[region.Name]
		for _, year := range r.Years() {
			factor := 1 - catchDecayPerYear*float64(year-r.Start)
			catch := base*factor + uniform(rng, -catchNoiseTons, catchNoiseTons)
			points = append(points, RegionCatchPoint{
				Year:      year,
				Region:    region.Name,
				Label:     region.Label,
				CatchTons: max(0, catch),
			})
		}
	}
	return points
}
