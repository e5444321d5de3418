package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
	apperrors "github.com/tasnimul-arabi-anik/fetchm/pkg/errors"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/stats"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/store"
)

type handlers struct {
	ds    *genome.Dataset
	store store.Store
}

func newHandlers(ds *genome.Dataset, st store.Store) *handlers {
	return &handlers{ds: ds, store: st}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": len(h.ds.Records),
	})
}

// dataset returns the full dataset including run metadata.
func (h *handlers) dataset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ds)
}

// listRecords returns the records, optionally filtered by species and
// paged with limit/offset.
func (h *handlers) listRecords(w http.ResponseWriter, r *http.Request) {
	records := h.ds.Records

	if species := r.URL.Query().Get("species"); species != "" {
		filtered := make([]genome.Record, 0, len(records))
		for _, rec := range records {
			if rec.SpeciesName == species {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	total := len(records)
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if offset > len(records) {
		offset = len(records)
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"records": records,
	})
}

func (h *handlers) getRecord(w http.ResponseWriter, r *http.Request) {
	acc := genome.NormalizeAccession(chi.URLParam(r, "accession"))
	rec := h.ds.Find(acc)
	if rec == nil {
		writeError(w, http.StatusNotFound, "no such accession")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// stats returns the summary report. Column selection mirrors the stats
// command: ?numeric=, ?categorical= (comma-free repeated params), ?top=.
func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	top, err := queryInt(r, "top", 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid top")
		return
	}

	rep, err := stats.BuildReport(h.ds, q["numeric"], q["categorical"], top)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.Is(err, apperrors.ErrCodeInvalidColumn) {
			status = http.StatusBadRequest
		}
		writeError(w, status, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	infos, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": infos})
}

func (h *handlers) getRun(w http.ResponseWriter, r *http.Request) {
	ds, err := h.store.LoadRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, cache.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no such run")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid integer")
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
