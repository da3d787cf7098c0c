package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gestaozabele/campanha/internal/config"
	httpmiddleware "github.com/gestaozabele/campanha/internal/http/middleware"
	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/schema"
	"github.com/gestaozabele/campanha/internal/service"
	"github.com/gestaozabele/campanha/internal/site"
	"github.com/gestaozabele/campanha/internal/storage"
	"github.com/gestaozabele/campanha/internal/util"
)

// Store é o gateway de persistência usado pelas rotas.
type Store interface {
	CreateSupporter(ctx context.Context, in schema.SupporterInput) (schema.Supporter, error)
	CountSupporters(ctx context.Context) (int64, error)
	ListSupporters(ctx context.Context, filter repo.SupporterFilter) ([]schema.Supporter, error)

	ListActivities(ctx context.Context) ([]schema.Activity, error)
	CreateActivity(ctx context.Context, in schema.ActivityInput) (schema.Activity, error)
	UpdateActivity(ctx context.Context, id int64, in schema.ActivityInput) (schema.Activity, error)
	DeleteActivity(ctx context.Context, id int64) error

	ListNews(ctx context.Context) ([]schema.News, error)
	CreateNews(ctx context.Context, in schema.NewsInput) (schema.News, error)
	UpdateNews(ctx context.Context, id int64, in schema.NewsInput) (schema.News, error)
	DeleteNews(ctx context.Context, id int64) error

	ListProposals(ctx context.Context) ([]schema.Proposal, error)
	CreateProposal(ctx context.Context, in schema.ProposalInput) (schema.Proposal, error)
	UpdateProposal(ctx context.Context, id int64, in schema.ProposalInput) (schema.Proposal, error)
	DeleteProposal(ctx context.Context, id int64) error

	ListEvents(ctx context.Context) ([]schema.Event, error)
	CreateEvent(ctx context.Context, in schema.EventInput) (schema.Event, error)
	UpdateEvent(ctx context.Context, id int64, in schema.EventInput) (schema.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	GetHomeContent(ctx context.Context) (schema.HomeContent, error)
	UpsertHomeContent(ctx context.Context, h schema.HomeContent) (schema.HomeContent, error)
}

// Authenticator é o gateway de autenticação.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Register(ctx context.Context, in schema.UserInput, actor *schema.User) (*service.LoginResult, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (schema.User, error)
}

// Deps reúne as dependências externas do roteador.
type Deps struct {
	Store Store
	Auth  Authenticator
	// Checks são executados por /ready (ex.: ping do Postgres e do Redis).
	Checks map[string]func(context.Context) error
}

type Handler struct {
	cfg           *config.Config
	store         Store
	auth          Authenticator
	storage       storage.Uploader
	uploadDir     string
	checks        map[string]func(context.Context) error
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
	now           func() time.Time
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, deps Deps) (http.Handler, error) {
	uploader, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	h := &Handler{
		cfg:           cfg,
		store:         deps.Store,
		auth:          deps.Auth,
		storage:       uploader,
		checks:        deps.Checks,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
		now:           time.Now,
	}
	if local, ok := uploader.(*storage.LocalUploader); ok {
		h.uploadDir = local.Dir()
	}

	siteHandler, err := site.NewHandler(deps.Store, cfg.DefaultTheme)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))
	r.Use(httpmiddleware.Session(deps.Auth))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/", siteHandler.Home)
	if h.uploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", staticFiles(h.uploadDir)))
	}

	r.Route("/api", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			public.Get("/supporters/count", h.CountSupporters)
			public.Get("/zones", h.Zones)
			public.Get("/activities", h.ListActivities)
			public.Get("/news", h.ListNews)
			public.Get("/proposals", h.ListProposals)
			public.Get("/events", h.ListEvents)
			public.Get("/home-content", h.GetHomeContent)
			public.Get("/user", h.CurrentUser)
			public.Post("/logout", h.Logout)

			public.With(httpmiddleware.IPRateLimit(h.publicLimiter)).Post("/supporters", h.CreateSupporter)
		})

		api.Group(func(auth chi.Router) {
			auth.Use(httpmiddleware.IPRateLimit(h.authLimiter))
			auth.Post("/login", h.Login)
			auth.Post("/register", h.Register)
		})

		api.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin)

			admin.Get("/supporters", h.ListSupporters)
			admin.Get("/supporters/stats", h.SupporterStats)
			admin.Get("/supporters/export", h.ExportSupporters)

			admin.Post("/activities", h.CreateActivity)
			admin.Patch("/activities/{id}", h.UpdateActivity)
			admin.Delete("/activities/{id}", h.DeleteActivity)

			admin.Post("/news", h.CreateNews)
			admin.Patch("/news/{id}", h.UpdateNews)
			admin.Delete("/news/{id}", h.DeleteNews)

			admin.Post("/proposals", h.CreateProposal)
			admin.Patch("/proposals/{id}", h.UpdateProposal)
			admin.Delete("/proposals/{id}", h.DeleteProposal)

			admin.Post("/events", h.CreateEvent)
			admin.Patch("/events/{id}", h.UpdateEvent)
			admin.Delete("/events/{id}", h.DeleteEvent)

			admin.Post("/home-content", h.UpdateHomeContent)
			admin.With(httpmiddleware.UserRateLimit(h.authLimiter)).Post("/upload", h.Upload)
		})
	})

	return r, nil
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failures := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}
	if len(failures) > 0 {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ready": false, "errors": failures})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// staticFiles serve os uploads sem listagem de diretório. O navegador não pode
// adivinhar o tipo, e qualquer arquivo que não seja imagem sai como download
// para não rodar na origem do cookie de sessão.
func staticFiles(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if !util.IsImageName(r.URL.Path) {
			w.Header().Set("Content-Disposition", "attachment")
		}
		fs.ServeHTTP(w, r)
	})
}
