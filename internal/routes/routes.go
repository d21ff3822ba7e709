package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polarisml/console-gateway/internal/apiclient"
	"github.com/polarisml/console-gateway/internal/guard"
	"github.com/polarisml/console-gateway/internal/handlers"
	"github.com/polarisml/console-gateway/internal/session"
	"github.com/polarisml/console-gateway/internal/sessionevents"
	"github.com/polarisml/console-gateway/internal/token"
)

// Deps are the singletons the route tree consumes.
type Deps struct {
	Sessions *session.Manager
	Client   *apiclient.Client
	Store    *token.Store
	Hub      *sessionevents.Hub
}

func Setup(r *chi.Mux, deps Deps) {
	auth := &handlers.Auth{Sessions: deps.Sessions}
	resources := &handlers.Resources{Client: deps.Client}

	// Operational endpoints (no gating).
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public landing page.
	r.Get("/", handlers.Marketing)

	// Auth pages: guest-only guarded on top of the edge gate.
	r.Group(func(r chi.Router) {
		r.Use(guard.GuestOnly(deps.Sessions))
		r.Get("/signin", handlers.SignInPage)
		r.Get("/signup", handlers.SignUpPage)
	})

	// Console shells: protected guard on top of the edge gate.
	r.Group(func(r chi.Router) {
		r.Use(guard.Protected(deps.Sessions))
		r.Get("/dashboard", handlers.ConsoleShell("Dashboard", "dashboard"))
		r.Get("/projects", handlers.ConsoleShell("Projects", "projects"))
		r.Get("/projects/*", handlers.ConsoleShell("Project", "project"))
		r.Get("/datasets", handlers.ConsoleShell("Datasets", "datasets"))
		r.Get("/datasets/*", handlers.ConsoleShell("Dataset", "dataset"))
		r.Get("/predictions", handlers.ConsoleShell("Predictions", "predictions"))
		r.Get("/predictions/*", handlers.ConsoleShell("Prediction", "prediction"))
		r.Get("/account", handlers.ConsoleShell("Account", "account"))
	})

	// Auth API.
	r.Post("/api/auth/signin", auth.SignIn)
	r.Post("/api/auth/signup", auth.SignUp)
	r.Post("/api/auth/signout", auth.SignOut)
	r.Get("/api/auth/session", auth.SessionInfo)

	// Resource passthrough. The edge gate already rejected tokenless calls.
	for _, prefix := range []string{"/api/datasets", "/api/projects", "/api/predictions"} {
		r.HandleFunc(prefix, resources.Proxy)
		r.HandleFunc(prefix+"/*", resources.Proxy)
	}

	// Cross-tab sign-out events.
	r.Get("/ws/session", sessionevents.Handler(deps.Hub, deps.Store))
}
