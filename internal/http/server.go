package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"playpartner-backend-go/internal/config"
	"playpartner-backend-go/internal/models"
	"playpartner-backend-go/internal/observability"
	"playpartner-backend-go/internal/services"
)

type Server struct {
	Store   Storage
	Config  config.Config
	Tokens  services.TokenService
	Events  *services.EventHub
	Media   services.MediaFiles
	Metrics *observability.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewServer(store Storage, cfg config.Config, events *services.EventHub, metrics *observability.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		Store:   store,
		Config:  cfg,
		Tokens:  tokens,
		Events:  events,
		Media:   services.MediaFiles{BasePath: cfg.MediaDir},
		Metrics: metrics,
		Logger:  logger,
		Now:     time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.RequestLogger)
	r.Use(middleware.Recoverer)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.Health)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/logout", s.Logout)

		api.Group(func(read chi.Router) {
			read.Use(WithAuth(s.Tokens))
			read.Use(RequireRole(models.Roles...))

			read.Get("/auth/user", s.CurrentUser)
			read.Put("/auth/password", s.ChangePassword)
			read.Get("/dashboard", s.Dashboard)

			read.Get("/partners", s.ListPartners)
			read.Get("/partners/export", s.ExportPartnersCSV)
			read.Get("/partners/export.xlsx", s.ExportPartnersXLSX)
			read.Get("/partners/{id}", s.GetPartner)
			read.Get("/partners/{id}/intimacy", s.GetIntimacy)
			read.Get("/partners/{id}/logistics", s.GetLogistics)
			read.Get("/partners/{id}/media", s.ListMedia)
			read.Get("/partners/{id}/assessments", s.ListPartnerAssessments)
			read.Get("/media/files/{key}", s.MediaFile)

			read.Get("/assessments", s.ListAssessments)
			read.Get("/tags", s.ListTags)
		})

		api.Group(func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireRole(models.RoleAdmin))

			admin.Post("/partners", s.CreatePartner)
			admin.Patch("/partners/{id}", s.UpdatePartner)
			admin.Delete("/partners/{id}", s.DeletePartner)
			admin.Put("/partners/{id}/intimacy", s.UpsertIntimacy)
			admin.Put("/partners/{id}/logistics", s.UpsertLogistics)
			admin.Post("/partners/{id}/media", s.CreateMedia)
			admin.Delete("/media/{id}", s.DeleteMedia)

			admin.Get("/assessments/export", s.ExportAssessmentsCSV)
			admin.Post("/assessments", s.CreateAssessment)

			admin.Post("/tags", s.CreateTag)
			admin.Delete("/tags/{id}", s.DeleteTag)

			admin.Get("/admin/system", s.SystemStats)
		})
	})

	r.Get("/ws/events", s.EventsSocket)
	if s.Config.MetricsEnabled && s.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Metrics.Registry(), promhttp.HandlerOpts{}))
	}
	return r
}

// Health reports whether the API can reach its database.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		s.Logger.Warn("health check failed", zap.Error(err))
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
