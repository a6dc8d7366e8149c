package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/namecardai/namecard/pkg/content"
	"github.com/namecardai/namecard/pkg/domain"
	"github.com/namecardai/namecard/pkg/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "landing", "demo", "signup", "pitch", "roadmap", "whyus", "notfound"}

var funcs = template.FuncMap{
	"markdown": content.Markdown,
	"btn": func(variant, size string) string {
		return domain.Button{Variant: domain.ButtonVariant(variant), Size: domain.ButtonSize(size)}.Classes()
	},
	// css marks palette values (gradients, shadows) from the closed theme table as safe.
	"css":     func(s string) template.CSS { return template.CSS(s) },
	"themes":  domain.Themes,
	"styles":  domain.CardStyles,
	"effects": domain.AREffects,
	"add":     func(a, b int) int { return a + b },
	"sub":     func(a, b int) int { return a - b },
	"has": func(errs domain.ValidationErrors, field string) bool {
		return errs.Has(field)
	},
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// pageData is the root value of every page template.
type pageData struct {
	Meta      domain.PageMeta
	Site      content.Site
	Nav       []domain.NavItem
	Path      string
	SessionID string
	Header    HeaderState
	Flash     string
	Catalog   *content.Catalog
	Body      any
}

// renderPage executes the named page into a buffer so a template failure
// never produces a half-written response.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, sess *session.Session, body any) {
	s.renderFlash(w, r, status, name, sess, "", body)
}

func (s *Server) renderFlash(w http.ResponseWriter, r *http.Request, status int, name string, sess *session.Session, flash string, body any) {
	cat := s.Sessions.Catalog()
	data := pageData{
		Path:    r.URL.Path,
		Flash:   flash,
		Catalog: cat,
		Body:    body,
	}
	if sess != nil {
		cat = sess.Catalog()
		data.Catalog = cat
		data.SessionID = sess.ID
		data.Header = headerOf(sess)
	}
	data.Meta = cat.Page(r.URL.Path)
	data.Site = cat.Site
	data.Nav = cat.Nav

	var buf bytes.Buffer
	if err := s.pages.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("Template render failed", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if s.metrics != nil && status == http.StatusOK {
		s.metrics.PageViews.WithLabelValues(name).Inc()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
