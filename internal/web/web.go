// Package web renders the server-side HTML pages for the site: the weekly
// AWS updates page and the tutorials library. Templates are embedded so the
// binary stays self-contained.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/subhashbohra/acloudresume-site/internal/content"
	"github.com/subhashbohra/acloudresume-site/internal/feed"
	"github.com/subhashbohra/acloudresume-site/internal/models"
	"github.com/subhashbohra/acloudresume-site/internal/updateservice"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// placeholderImages is how many placeholder card images ship under /assets.
const placeholderImages = 6

// cardImage returns the item's image URL, or a deterministically chosen
// placeholder when the feed carried none. The same item always gets the same
// placeholder so cards do not flicker between renders.
func cardImage(it models.Update) string {
	if it.ImageURL != "" {
		return it.ImageURL
	}
	return fmt.Sprintf("/assets/placeholder-%d.svg", feed.PickVariant(it.UpdateID, placeholderImages))
}

// UpdatesView is the view model for the weekly updates page.
type UpdatesView struct {
	Page       *updateservice.WeekPage
	Weeks      []string
	Categories []string
	Category   string
	Query      string
}

// TutorialsView is the view model for the tutorials page.
type TutorialsView struct {
	Tutorials []models.Tutorial
	Category  string
	Query     string
}

// Handler renders the HTML pages.
type Handler struct {
	svc     *updateservice.Service
	library *content.Library
	tmpl    *template.Template
	logger  *slog.Logger
}

// NewHandler parses the embedded templates and returns a page handler.
func NewHandler(svc *updateservice.Service, library *content.Library, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"cardImage": cardImage,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, library: library, tmpl: tmpl, logger: logger}, nil
}

// Updates handles GET /aws-updates.html.
func (h *Handler) Updates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	week := q.Get("week")
	if week == "" {
		latest, err := h.svc.LatestWeek(r.Context())
		if err == nil {
			week = latest
		}
	}
	page, _ := strconv.Atoi(q.Get("page"))

	view := UpdatesView{
		Weeks:      nil,
		Categories: models.BrandCategories,
		Category:   q.Get("category"),
		Query:      q.Get("q"),
	}
	if weeks, err := h.svc.Weeks(r.Context()); err == nil {
		view.Weeks = weeks
	}
	if week != "" {
		wp, err := h.svc.Week(r.Context(), week, view.Category, view.Query, page)
		if err == nil {
			view.Page = wp
		}
	}

	h.render(w, "updates.tmpl", view)
}

// Tutorials handles GET /tutorials.html.
func (h *Handler) Tutorials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := TutorialsView{
		Tutorials: h.library.Tutorials(q.Get("category"), q.Get("q")),
		Category:  q.Get("category"),
		Query:     q.Get("q"),
	}
	h.render(w, "tutorials.tmpl", view)
}

func (h *Handler) render(w http.ResponseWriter, name string, view any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, view); err != nil {
		h.logger.Error("template render failed", slog.String("template", name), slog.String("error", err.Error()))
	}
}
