package server

import (
	"bytes"
	"html/template"
	"net/http"

	"survival-dashboard/internal/features/charts"
	logging "survival-dashboard/internal/infra/log"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type figureLink struct {
	ID    string
	Title string
}

type indexPage struct {
	Title   string
	Figures []figureLink
}

type figurePage struct {
	ID    string
	Title string
	Image template.URL
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{Title: dashboardTitle}
	for _, k := range charts.Kinds() {
		page.Figures = append(page.Figures, figureLink{ID: k.String(), Title: k.Title()})
	}
	s.render(w, r, http.StatusOK, "index", page)
}

// handleFigure renders the figure page. Known figures that cannot be drawn
// still get the page, without an image.
func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "figureType")
	page := figurePage{ID: id}

	kind, known := charts.ParseKind(id)
	if !known {
		s.render(w, r, http.StatusNotFound, "figure", page)
		return
	}
	page.Title = kind.Title()

	if encoded, ok := s.figures.RenderID(id); ok {
		// the payload is our own base64 PNG
		page.Image = template.URL("data:image/png;base64," + encoded)
	}
	s.render(w, r, http.StatusOK, "figure", page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not Found", http.StatusNotFound)
}

// render executes a template into a buffer first so a failing template
// never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.LogError("Failed to render template",
			zap.String("template", name),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
