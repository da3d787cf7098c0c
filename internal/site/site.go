// Package site renderiza a página pública da campanha.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/schema"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02/01/2006") },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}).ParseFS(templatesFS, "templates/*.html"))

// Store é o subconjunto do gateway de persistência lido pelo site.
type Store interface {
	GetHomeContent(ctx context.Context) (schema.HomeContent, error)
	ListProposals(ctx context.Context) ([]schema.Proposal, error)
	ListNews(ctx context.Context) ([]schema.News, error)
	ListActivities(ctx context.Context) ([]schema.Activity, error)
	CountSupporters(ctx context.Context) (int64, error)
}

// Page é o modelo entregue ao template.
type Page struct {
	Theme      Theme
	Home       schema.HomeContent
	Proposals  []schema.Proposal
	News       []schema.News
	Activities []schema.Activity
	Supporters int64
}

type Handler struct {
	store        Store
	defaultTheme string
}

// NewHandler cria o handler; o tema padrão precisa existir.
func NewHandler(store Store, defaultTheme string) (*Handler, error) {
	if defaultTheme != "" && !schema.IsTheme(defaultTheme) {
		return nil, errors.New("tema padrão desconhecido: " + defaultTheme)
	}
	return &Handler{store: store, defaultTheme: defaultTheme}, nil
}

// Build monta a página com o conteúdo atual.
func (h *Handler) Build(ctx context.Context) (Page, error) {
	home, err := h.store.GetHomeContent(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		home = schema.DefaultHomeContent()
		home.Theme = ""
	} else if err != nil {
		return Page{}, err
	}

	page := Page{Home: home, Theme: ResolveTheme(home.Theme, h.defaultTheme)}
	if page.Proposals, err = h.store.ListProposals(ctx); err != nil {
		return Page{}, err
	}
	if page.News, err = h.store.ListNews(ctx); err != nil {
		return Page{}, err
	}
	if page.Activities, err = h.store.ListActivities(ctx); err != nil {
		return Page{}, err
	}
	if page.Supporters, err = h.store.CountSupporters(ctx); err != nil {
		return Page{}, err
	}
	return page, nil
}

// Render escreve a página no tema indicado.
func Render(w io.Writer, page Page) error {
	return templates.ExecuteTemplate(w, "home.html", page)
}

// Home responde GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.Build(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("site: falha ao carregar conteúdo")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, page); err != nil {
		log.Error().Err(err).Msg("site: falha ao renderizar")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
