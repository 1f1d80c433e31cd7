package domain

import (
	"context"
	"slices"
)

// BoundarySet is a parsed boundary-geometry file: the raw GeoJSON bytes served
// to the browser and the feature names used for the join.
type BoundarySet struct {
	Source   string   `json:"source"`
	Names    []string `json:"names"`
	Features int      `json:"features"`
	Raw      []byte   `json:"-"`
}

// BoundarySource loads a boundary-geometry file.
type BoundarySource interface {
	LoadBoundaries(ctx context.Context) (BoundarySet, error)
}

// Has reports whether a feature with the given name exists.
func (b BoundarySet) Has(name string) bool {
	return slices.Contains(b.Names, name)
}

// Unmatched returns the names that have no feature, in input order and
// without duplicates. Such rows render uncolored; this is expected.
func (b BoundarySet) Unmatched(names []string) []string {
	known := make(map[string]struct{}, len(b.Names))
	for _, n := range b.Names {
		known[n] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, n := range names {
		if _, ok := known[n]; ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Snapshot is everything the dashboard renders: the tables plus both boundary
// sets. It is assembled once at startup and shared read-only.
type Snapshot struct {
	Dataset *Dataset
	Korea   BoundarySet
	Oceans  BoundarySet
}
