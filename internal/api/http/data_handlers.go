package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/populism-atlas/internal/gpd"
)

// GET /api/countries
func CountriesHandler(svc *gpd.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Countries(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"countries": list, "count": len(list)})
	}
}

// GET /api/regions
func RegionsHandler(svc *gpd.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regions, wb, err := svc.Regions(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"regions": regions, "wb_regions": wb})
	}
}

// GET /api/leaders?country=
func LeadersHandler(svc *gpd.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Leaders(r.Context(), strings.TrimSpace(r.URL.Query().Get("country")))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"leaders": list, "count": len(list)})
	}
}

// GET /api/data?country=&leader=&year_start=&year_end=&min_populism=
func DataHandler(svc *gpd.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := gpd.TermFilter{
			Country: strings.TrimSpace(r.URL.Query().Get("country")),
			Leader:  strings.TrimSpace(r.URL.Query().Get("leader")),
		}
		var err error
		if f.YearStart, err = optInt(r, "year_start"); err != nil {
			writeErr(w, err)
			return
		}
		if f.YearEnd, err = optInt(r, "year_end"); err != nil {
			writeErr(w, err)
			return
		}
		if f.MinPopulism, err = optFloat(r, "min_populism"); err != nil {
			writeErr(w, err)
			return
		}
		terms, err := svc.Data(r.Context(), f)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": terms, "count": len(terms)})
	}
}

// GET /api/summary
func SummaryHandler(svc *gpd.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Summary(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

type mapFilters struct {
	YearStart    *int           `json:"year_start"`
	YearEnd      *int           `json:"year_end"`
	SpeechType   gpd.SpeechType `json:"speech_type"`
	TimeWeighted bool           `json:"time_weighted"`
	Ideology     *int           `json:"ideology"`
}

// GET /api/map-data?year_start=&year_end=&speech_type=&time_weighted=&ideology=
// ideology restricts the terms before aggregation.
func MapDataHandler(svc *gpd.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := mapQuery(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		ideo, err := optIdeology(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		q.Ideology = ideologyCode(ideo)

		items, err := svc.MapData(r.Context(), q)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"map_data": items,
			"filters": mapFilters{
				YearStart:    q.YearStart,
				YearEnd:      q.YearEnd,
				SpeechType:   q.SpeechType,
				TimeWeighted: q.TimeWeighted,
				Ideology:     q.Ideology,
			},
		})
	}
}

// GET /api/timeline/{country}
func TimelineHandler(svc *gpd.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tl, err := svc.Timeline(r.Context(), chi.URLParam(r, "country"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tl)
	}
}

// GET /api/speeches?country=&ideology=&speech_type=
func SpeechesHandler(svc *gpd.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ideo, err := optIdeology(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		q := gpd.SpeechQuery{
			Country:  strings.TrimSpace(r.URL.Query().Get("country")),
			Ideology: ideologyCode(ideo),
		}
		if st := r.URL.Query().Get("speech_type"); st != "" {
			q.SpeechType = gpd.ParseSpeechType(st)
		}
		list, err := svc.Speeches(r.Context(), q)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"speeches": list, "count": len(list)})
	}
}
