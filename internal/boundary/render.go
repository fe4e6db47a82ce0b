package boundary

import (
	"sort"

	"github.com/paulmach/orb/geojson"

	"github.com/mind-engage/populism-atlas/internal/choropleth"
)

// Render binds every feature of set through pass and returns the styled
// collection, one output feature per input feature, in dataset order.
func Render(pass *choropleth.Pass, set *Set) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = passMembers(pass)
	if set == nil {
		return fc
	}
	bindings := choropleth.BindAll(pass, set.Features)
	for i, f := range set.Features {
		b := bindings[i]
		out := geojson.NewFeature(f.Geometry)
		out.Properties = geojson.Properties{
			"name":         b.RawName,
			"country":      nil,
			"resolved":     b.Resolved,
			"selectable":   b.Resolved,
			"dimmed":       b.Visual.Dimmed,
			"selected":     b.Visual.Selected,
			"style":        b.Style,
			"hover_style":  b.HoverStyle(),
			"tooltip":      b.Tooltip.Text(),
			"tooltip_html": b.Tooltip.HTML(),
		}
		if key, ok := b.Click(); ok {
			out.Properties["country"] = key
		}
		fc.Append(out)
	}
	return fc
}

// passMembers echoes the pass inputs at the top level of the collection.
func passMembers(pass *choropleth.Pass) geojson.Properties {
	f, sel := pass.Filter(), pass.Selection()
	m := geojson.Properties{"color_mode": f.Mode, "ideology": nil, "selected": nil}
	if f.Ideology != nil {
		m["ideology"] = f.Ideology.String()
	}
	if sel.Has() {
		m["selected"] = sel.Key
	}
	return m
}

// Coverage reports name-resolution gaps between a boundary set and a
// metrics snapshot. Unresolved features render as no-data silently, so
// this is the only place the misses show up.
type Coverage struct {
	Features           int      `json:"features"`
	Resolved           int      `json:"resolved"`
	UnresolvedFeatures []string `json:"unresolved_features"`
	UnmappedCountries  []string `json:"unmapped_countries"`
	UnreachableAliases []string `json:"unreachable_aliases"`
}

func CheckCoverage(set *Set, r choropleth.Resolver, idx *choropleth.Index) Coverage {
	c := Coverage{
		Features:           set.Len(),
		UnresolvedFeatures: []string{},
		UnmappedCountries:  []string{},
		UnreachableAliases: r.Aliases().Unreachable(idx),
	}
	if c.UnreachableAliases == nil {
		c.UnreachableAliases = []string{}
	}
	hit := map[string]bool{}
	for _, name := range set.Names() {
		rec, ok := r.Resolve(name, idx)
		if !ok {
			if name != "" {
				c.UnresolvedFeatures = append(c.UnresolvedFeatures, name)
			}
			continue
		}
		c.Resolved++
		hit[rec.Country] = true
	}
	for _, rec := range idx.Records() {
		if !hit[rec.Country] {
			c.UnmappedCountries = append(c.UnmappedCountries, rec.Country)
		}
	}
	sort.Strings(c.UnresolvedFeatures)
	sort.Strings(c.UnmappedCountries)
	return c
}
