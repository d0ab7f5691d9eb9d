package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/subhashbohra/acloudresume-site/internal/content"
	"github.com/subhashbohra/acloudresume-site/internal/digest"
	"github.com/subhashbohra/acloudresume-site/internal/models"
	"github.com/subhashbohra/acloudresume-site/internal/store"
	"github.com/subhashbohra/acloudresume-site/internal/updateservice"
)

const defaultSearchLimit = 20

// Handler holds API route handlers.
type Handler struct {
	svc      *updateservice.Service
	library  *content.Library
	db       *store.DB
	siteBase string
}

// NewHandler creates a new Handler.
func NewHandler(svc *updateservice.Service, library *content.Library, db *store.DB, siteBase string) *Handler {
	return &Handler{svc: svc, library: library, db: db, siteBase: siteBase}
}

// Updates handles GET /api/updates. Without a week parameter it serves the
// newest known week.
func (h *Handler) Updates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	week := q.Get("week")
	if week == "" {
		latest, err := h.svc.LatestWeek(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		week = latest
	}
	page, _ := strconv.Atoi(q.Get("page"))

	result, err := h.svc.Week(r.Context(), week, q.Get("category"), q.Get("q"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Weeks handles GET /api/updates/weeks.
func (h *Handler) Weeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.svc.Weeks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, WeeksResponse{Weeks: weeks})
}

// Digest handles GET /api/updates/digest.
func (h *Handler) Digest(w http.ResponseWriter, r *http.Request) {
	week := r.URL.Query().Get("week")
	if week == "" {
		latest, err := h.svc.LatestWeek(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		week = latest
	}
	d, err := h.svc.WeeklyDigest(r.Context(), week)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	hits, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	results := make([]SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = SearchResult{
			WeekKey: hit.WeekKey,
			ID:      hit.UpdateID,
			Title:   hit.Title,
			Snippet: hit.Snippet,
			URL: digest.CanonicalURL(h.siteBase, models.Update{
				WeekKey:  hit.WeekKey,
				UpdateID: hit.UpdateID,
			}),
		}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Posts handles GET /api/posts.
func (h *Handler) Posts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"posts": h.library.Posts()})
}

// Reviews handles GET /api/reviews.
func (h *Handler) Reviews(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"reviews": h.library.Reviews()})
}

// Tutorials handles GET /api/tutorials with optional category and text filter.
func (h *Handler) Tutorials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.library.Tutorials(q.Get("category"), q.Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{"tutorials": items})
}

// Visit handles POST /api/visits: increments and returns a page counter.
func (h *Handler) Visit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req VisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	count, err := h.db.IncrementVisit(req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VisitResponse{Path: req.Path, Count: count})
}

// VisitCount handles GET /api/visits: reads a counter without incrementing.
func (h *Handler) VisitCount(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	count, err := h.db.VisitCount(path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VisitResponse{Path: path, Count: count})
}

// Register handles POST /api/register. Re-registering the same identity is a
// no-op, so the widget can post on every sign-in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.db.AddRegistration(req.Provider, req.Subject, req.Email, req.Name); err != nil {
		writeError(w, err)
		return
	}
	total, err := h.db.CountUsers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, StatsResponse{TotalUsers: total})
}

// AuthStats handles GET /api/auth/stats.
func (h *Handler) AuthStats(w http.ResponseWriter, _ *http.Request) {
	total, err := h.db.CountUsers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{TotalUsers: total})
}

// Refresh handles POST /api/admin/refresh: triggers a feed fetch. A refresh
// superseded by a newer one reports 409.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("admin refresh completed", slog.String("week", res.WeekKey), slog.Int("count", res.Count))
	writeJSON(w, http.StatusOK, res)
}

// Import handles POST /api/admin/import: persists records supplied in the
// request body.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("items are required"))
		return
	}
	res, err := h.svc.Import(r.Context(), req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
