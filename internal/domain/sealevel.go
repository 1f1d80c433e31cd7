package domain

import "math"

// Sea level generator parameters.
const (
	seaLevelRampMM     = 102.0
	seaLevelNoiseScale = 1.2
	seaLevelCycles     = 3.0
	seaLevelCycleAmpMM = 2.5
)

// SeaLevelPoint is the mean coastal sea level for one year, in millimeters.
type SeaLevelPoint struct {
	Year    int     `json:"year"`
	LevelMM float64 `json:"level_mm"`
}

// GenerateSeaLevel produces one point per year in r: a linear ramp from 0 to
// 102 mm, Gaussian noise and a sinusoid with three full cycles across the range.
func GenerateSeaLevel(r YearRange, rng Rand) []SeaLevelPoint {
	n := r.Len()
	points := make([]SeaLevelPoint, 0, n)
	for i, year := range r.Years() {
		pos := linspacePos(i, n)
		trend := seaLevelRampMM * pos
		noise := rng.NormFloat64() * seaLevelNoiseScale
		cycle := math.Sin(2*math.Pi*seaLevelCycles*pos) * seaLevelCycleAmpMM
		points = append(points, SeaLevelPoint{Year: year, LevelMM: trend + noise + cycle})
	}
	return points
}

// linspacePos returns the fractional position of index i among n evenly
// spaced samples including both endpoints. A single sample sits at 0.
func linspacePos(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
