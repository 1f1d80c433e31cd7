// Package domain models the tables behind the sea level and fishery dashboard.
//
// # Tables
//
// Three tables are built once at startup and never mutated afterwards:
//
//	SeaLevel:   one SeaLevelPoint per year, synthetic Korean coastal mean sea level (mm).
//	Catch:      one RegionCatchPoint per (province, year), synthetic catch volume (tons).
//	OceanRates: one OceanRatePoint per (ocean, year), hand-authored rise rates (mm/yr).
//
// # Sea level
//
// For n years indexed by i the level is
//
//	102 * i/(n-1)  +  N(0,1) * 1.2  +  sin(6π * i/(n-1)) * 2.5
//
// a linear ramp to 102 mm, small Gaussian noise and three full cycles of a
// 2.5 mm oscillation. See [GenerateSeaLevel].
//
// # Catch volume
//
// Each coastal province starts from a fixed base tonnage that decays by 1.8%
// of the base per year, plus uniform noise in [-3000, 3000), floored at zero.
// Inland provinces have base 0 and therefore carry only floored noise. See
// [GenerateCatch].
//
// # Ocean rates
//
// The rate table is an embedded wide table (one column per ocean code). It is
// parsed, melted into long form and the codes mapped to display names. The
// long form pivots back to the identical wide table. See [ParseOceanRates].
//
// # Randomness
//
// Generators take an explicit [Rand]. A fixed seed reproduces a dataset
// exactly; seed 0 asks [ResolveSeed] to derive one from the clock.
//
// # Boundaries
//
// Map rendering joins rows to boundary features by name. Rows whose name has
// no feature are left uncolored on the map; [BoundarySet.Unmatched] reports
// them but they are not treated as errors.
package domain
