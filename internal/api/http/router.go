package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authmw "github.com/provamaster/provamaster/internal/auth/middleware"
	"github.com/provamaster/provamaster/internal/catalog"
	"github.com/provamaster/provamaster/internal/config"
	"github.com/provamaster/provamaster/internal/events"
	"github.com/provamaster/provamaster/internal/practice"
	"github.com/provamaster/provamaster/internal/rbac"
)

type RouterDeps struct {
	Catalog  catalog.Store
	Practice practice.Store
	Auth     *authmw.AuthService
	Events   *events.Repo
	DB       *sql.DB // user rows for login/register; nil disables local auth
}

// NewRouter assembles the gateway routes: public auth endpoints, a protected
// practice/catalog API, and health probes.
func NewRouter(cfg config.Config, deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth && deps.DB != nil {
		r.Post("/auth/login", authmw.LoginHandler(deps.Auth, deps.DB))
		r.Post("/auth/register", authmw.RegisterHandler(deps.Auth, deps.DB))
	}
	r.Get("/auth/session", authmw.SessionHandler(deps.Auth))
	r.Post("/auth/logout", authmw.SignOutHandler())

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(deps.Auth))

		pr.With(rbac.Require("catalog:view")).Get("/packages", ListPackagesHandler(deps.Catalog))
		pr.With(rbac.Require("catalog:view")).Get("/packages/{packageID}", GetPackageHandler(deps.Catalog))
		pr.With(rbac.Require("catalog:view")).Get("/packages/{packageID}/topics", ListTopicsHandler(deps.Catalog))
		pr.With(rbac.Require("catalog:view")).Get("/topics/{topicID}", GetTopicHandler(deps.Catalog))
		pr.With(rbac.Require("catalog:view")).Get("/questions", ListQuestionsHandler(deps.Catalog))

		pr.With(rbac.Require("practice:run")).Post("/sessions", CreateSessionHandler(deps.Practice, deps.Events))
		pr.With(rbac.RequireAny("session:view-own", "session:view-all")).
			Get("/sessions/{sessionID}", GetSessionHandler(deps.Practice))
		pr.With(rbac.Require("practice:run")).
			Post("/sessions/{sessionID}/attempts", InsertAttemptHandler(deps.Practice))
		pr.With(rbac.RequireAny("session:view-own", "session:view-all")).
			Get("/sessions/{sessionID}/attempts", ListAttemptsHandler(deps.Practice))
		pr.With(rbac.Require("practice:run")).
			Post("/sessions/{sessionID}/increment-correct", IncrementCorrectHandler(deps.Practice))
		pr.With(rbac.Require("practice:run")).
			Post("/sessions/{sessionID}/complete", CompleteSessionHandler(deps.Practice, deps.Events))

		// Content management
		pr.With(rbac.Require("content:write")).Post("/packages", PutPackageHandler(deps.Catalog))
		pr.With(rbac.Require("content:write")).Post("/topics", PutTopicHandler(deps.Catalog))
		pr.With(rbac.Require("content:write")).Post("/questions", PutQuestionHandler(deps.Catalog))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}
