package http

import (
	"net/http"
	"strings"

	"github.com/mind-engage/populism-atlas/internal/boundary"
	"github.com/mind-engage/populism-atlas/internal/choropleth"
	"github.com/mind-engage/populism-atlas/internal/gpd"
)

// Atlas is what the map endpoints render against. Boundaries may be nil
// when the boundary source could not be loaded.
type Atlas struct {
	Resolver   choropleth.Resolver
	Boundaries *boundary.Set
}

// snapshot runs the map-data query from the request and indexes it.
func snapshot(svc *gpd.Service, r *http.Request) (*choropleth.Index, error) {
	q, err := mapQuery(r)
	if err != nil {
		return nil, err
	}
	items, err := svc.MapData(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return gpd.Snapshot(items), nil
}

// GET /api/choropleth?<map-data params>&color_mode=intensity|ideology&ideology=&selected=
// Unlike map-data, ideology here dims non-matching countries instead of
// dropping terms.
func ChoroplethHandler(svc *gpd.Service, atlas *Atlas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if atlas.Boundaries == nil {
			http.Error(w, "boundaries unavailable", http.StatusServiceUnavailable)
			return
		}
		mode, err := choropleth.ParseColorMode(r.URL.Query().Get("color_mode"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ideo, err := optIdeology(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		idx, err := snapshot(svc, r)
		if err != nil {
			writeErr(w, err)
			return
		}

		sel := choropleth.Selection{Key: strings.TrimSpace(r.URL.Query().Get("selected"))}
		if sel.Has() {
			// accept a boundary spelling as well as the canonical key
			if rec, ok := atlas.Resolver.Resolve(sel.Key, idx); ok {
				sel.Key = rec.Country
			}
		}

		pass := choropleth.NewPass(atlas.Resolver, idx, choropleth.FilterState{Ideology: ideo, Mode: mode}, sel)
		body, err := boundary.Render(pass, atlas.Boundaries).MarshalJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write(body)
	}
}

// GET /api/choropleth/resolve?name=
// The click path: reports which country a boundary name selects.
func ResolveHandler(svc *gpd.Service, atlas *Atlas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if strings.TrimSpace(name) == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		idx, err := snapshot(svc, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		out := struct {
			Name     string  `json:"name"`
			Country  *string `json:"country"`
			Resolved bool    `json:"resolved"`
		}{Name: name}
		if b := choropleth.NewPass(atlas.Resolver, idx, choropleth.FilterState{}, choropleth.Selection{}).Bind(choropleth.Name(name)); b.Resolved {
			key, _ := b.Click()
			out.Country = &key
			out.Resolved = true
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /api/coverage?<map-data params>
func CoverageHandler(svc *gpd.Service, atlas *Atlas) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if atlas.Boundaries == nil {
			http.Error(w, "boundaries unavailable", http.StatusServiceUnavailable)
			return
		}
		idx, err := snapshot(svc, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, boundary.CheckCoverage(atlas.Boundaries, atlas.Resolver, idx))
	}
}
