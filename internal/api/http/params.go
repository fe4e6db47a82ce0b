package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mind-engage/populism-atlas/internal/choropleth"
	"github.com/mind-engage/populism-atlas/internal/gpd"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps service errors onto status codes.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gpd.ErrCountryNotFound), errors.Is(err, gpd.ErrEmptyDataset):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, errBadParam):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

var errBadParam = errors.New("bad parameter")

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

func optInt(r *http.Request, key string) (*int, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", errBadParam, key, s)
	}
	return &v, nil
}

func optFloat(r *http.Request, key string) (*float64, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", errBadParam, key, s)
	}
	return &v, nil
}

// optIdeology accepts -1/0/1 or left/center/right.
func optIdeology(r *http.Request) (*choropleth.Ideology, error) {
	s := strings.TrimSpace(r.URL.Query().Get("ideology"))
	if s == "" {
		return nil, nil
	}
	v, err := choropleth.ParseIdeology(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadParam, err)
	}
	return &v, nil
}

func ideologyCode(i *choropleth.Ideology) *int {
	if i == nil {
		return nil
	}
	v := int(*i)
	return &v
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// mapQuery reads the shared map controls: year_start, year_end,
// speech_type and time_weighted.
func mapQuery(r *http.Request) (gpd.MapQuery, error) {
	var q gpd.MapQuery
	var err error
	if q.YearStart, err = optInt(r, "year_start"); err != nil {
		return q, err
	}
	if q.YearEnd, err = optInt(r, "year_end"); err != nil {
		return q, err
	}
	if q.YearStart != nil && q.YearEnd != nil && *q.YearStart > *q.YearEnd {
		return q, fmt.Errorf("%w: year_start after year_end", errBadParam)
	}
	q.SpeechType = gpd.ParseSpeechType(r.URL.Query().Get("speech_type"))
	q.TimeWeighted = parseBool(r.URL.Query().Get("time_weighted"))
	return q, nil
}
