// Package boundary loads country boundary polygons (GeoJSON) and exposes
// them as named features for the choropleth binding layer.
package boundary

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// NameProperties are consulted in order for a feature's raw name.
var NameProperties = []string{"ADMIN", "name", "NAME", "admin"}

var ErrNoFeatures = errors.New("boundary collection has no features")

type Feature struct {
	RawName    string
	Geometry   orb.Geometry
	Properties geojson.Properties
}

func (f Feature) FeatureName() string { return f.RawName }

// Set is one parsed boundary dataset.
type Set struct {
	Source   string
	Features []Feature
}

// Names lists raw names in dataset order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.Features))
	for i, f := range s.Features {
		out[i] = f.RawName
	}
	return out
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Features)
}

// Parse decodes a GeoJSON FeatureCollection. Features without any name
// property keep an empty RawName; they can never resolve.
func Parse(data []byte) ([]Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, ErrNoFeatures
	}
	out := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, Feature{
			RawName:    NameOf(f.Properties),
			Geometry:   f.Geometry,
			Properties: f.Properties,
		})
	}
	return out, nil
}

func NameOf(p geojson.Properties) string {
	for _, k := range NameProperties {
		if v := p.MustString(k, ""); v != "" {
			return v
		}
	}
	return ""
}
