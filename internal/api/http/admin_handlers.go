package http

import (
	"errors"
	"net/http"

	"github.com/mind-engage/populism-atlas/internal/gpd"
	syncx "github.com/mind-engage/populism-atlas/internal/sync"
)

const maxUpload = 32 << 20

// POST /api/admin/import (multipart: file=GPD wide CSV)
// Replaces the whole dataset.
func ImportDatasetHandler(svc *gpd.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		res, err := svc.Import(r.Context(), f, hdr.Filename)
		if errors.Is(err, gpd.ErrInvalidDataset) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /api/admin/imports?limit=
func ImportHistoryHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 20)
		list, err := events.Recent(r.Context(), syncx.TypeDatasetImported, limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"imports": list, "count": len(list)})
	}
}
