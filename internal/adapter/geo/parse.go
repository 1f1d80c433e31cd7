package geo

import (
	"errors"
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/couchcryptid/sealevel-dashboard/internal/domain"
)

// NameProperty is the feature property joined against table locations.
const NameProperty = "name"

// ParseBoundaries decodes a GeoJSON FeatureCollection. Every feature must
// carry a string name property; duplicate names are kept once.
func ParseBoundaries(source string, data []byte) (domain.BoundarySet, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return domain.BoundarySet{}, fmt.Errorf("decode %s: %w", source, err)
	}
	if len(fc.Features) == 0 {
		return domain.BoundarySet{}, errors.New("decode " + source + ": no features")
	}

	names := make([]string, 0, len(fc.Features))
	seen := make(map[string]struct{}, len(fc.Features))
	for i, f := range fc.Features {
		name, err := f.PropertyString(NameProperty)
		if err != nil || name == "" {
			return domain.BoundarySet{}, fmt.Errorf("decode %s: feature %d has no %q property", source, i, NameProperty)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return domain.BoundarySet{
		Source:   source,
		Names:    names,
		Features: len(fc.Features),
		Raw:      data,
	}, nil
}
