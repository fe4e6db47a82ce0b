package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authpkg "github.com/mind-engage/populism-atlas/internal/auth"
	authmw "github.com/mind-engage/populism-atlas/internal/auth/middleware"
	"github.com/mind-engage/populism-atlas/internal/config"
	"github.com/mind-engage/populism-atlas/internal/gpd"
	"github.com/mind-engage/populism-atlas/internal/logging"
	"github.com/mind-engage/populism-atlas/internal/rbac"
	syncx "github.com/mind-engage/populism-atlas/internal/sync"
)

type Deps struct {
	Config  config.Config
	Service *gpd.Service
	Events  *syncx.EventRepo
	Auth    *authmw.AuthService
	Atlas   *Atlas
	// Ready reports whether the dataset has been loaded.
	Ready func() bool
}

func NewRouter(d Deps) http.Handler {
	log := logging.New("http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(log), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/agree", authpkg.AgreementHandler(d.Auth, d.Config))
	r.Post("/auth/login", authmw.LoginHandler(d.Auth, d.Config.AdminUser, d.Config.AdminPassHash))

	// The data API sits behind the usage agreement when the gate is on.
	gate := authmw.AnonymousRole(authmw.RoleViewer)
	if d.Config.EnableAgreementGate {
		gate = authmw.JWTMiddleware(d.Auth)
	}
	r.With(gate).Get("/auth/me", MeHandler())

	r.Route("/api", func(ar chi.Router) {
		ar.Group(func(pr chi.Router) {
			pr.Use(gate)
			pr.With(rbac.RequireAny(rbac.PermCoverageView, rbac.PermDatasetImport)).
				Get("/coverage", CoverageHandler(d.Service, d.Atlas))

			pr.Group(func(rd chi.Router) {
				rd.Use(rbac.Require(rbac.PermDataRead))
				rd.Get("/countries", CountriesHandler(d.Service))
				rd.Get("/regions", RegionsHandler(d.Service))
				rd.Get("/leaders", LeadersHandler(d.Service))
				rd.Get("/data", DataHandler(d.Service))
				rd.Get("/summary", SummaryHandler(d.Service))
				rd.Get("/map-data", MapDataHandler(d.Service))
				rd.Get("/timeline/{country}", TimelineHandler(d.Service))
				rd.Get("/speeches", SpeechesHandler(d.Service))
				rd.Get("/choropleth", ChoroplethHandler(d.Service, d.Atlas))
				rd.Get("/choropleth/resolve", ResolveHandler(d.Service, d.Atlas))
			})
		})

		// Admin is always token-authenticated.
		ar.Group(func(pr chi.Router) {
			pr.Use(authmw.JWTMiddleware(d.Auth), rbac.Require(rbac.PermDatasetImport))
			pr.Post("/admin/import", ImportDatasetHandler(d.Service))
			if d.Events != nil {
				pr.Get("/admin/imports", ImportHistoryHandler(d.Events))
			}
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil && !d.Ready() {
			http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})
	r.Get("/", RootHandler(d.Config))
	return r
}

// GET /auth/me
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"subject":     authmw.SubjectFromContext(r.Context()),
			"role":        role,
			"permissions": rbac.Default().Permissions(role),
		})
	}
}

func RootHandler(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":        "Global Populism Database API",
			"mode":           cfg.Mode,
			"agreement_gate": cfg.EnableAgreementGate,
			"endpoints": []string{
				"/api/countries", "/api/regions", "/api/leaders", "/api/data",
				"/api/summary", "/api/map-data", "/api/timeline/{country}", "/api/speeches",
				"/api/choropleth", "/api/choropleth/resolve", "/api/coverage",
			},
		})
	}
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
