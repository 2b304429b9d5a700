package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftwise-hq/workforce-backend-go/internal/config"
	"github.com/shiftwise-hq/workforce-backend-go/internal/handler/http/middleware"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	sessionHandler SessionHandler,
	approvalHandler ApprovalHandler,
	presenceHandler PresenceHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Stream token auth lives in the query string, not the header.
		r.Get("/presence/stream", presenceHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", sessionHandler.ClockIn)
				r.Post("/break/start", sessionHandler.StartBreak)
				r.Post("/break/end", sessionHandler.EndBreak)
				r.Post("/clock-out", sessionHandler.ClockOut)
				r.Get("/current", sessionHandler.Current)

				r.Route("/approvals", func(r chi.Router) {
					r.Post("/{id}/submit", approvalHandler.Submit)

					// Supervisors only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireSupervisor)
						r.Get("/", approvalHandler.ListPending)
						r.Post("/{id}/approve", approvalHandler.Approve)
						r.Post("/{id}/reject", approvalHandler.Reject)
					})
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireSupervisor)
					r.Get("/payable", approvalHandler.ListPayable)
				})
			})

			r.Route("/presence", func(r chi.Router) {
				r.Get("/", presenceHandler.TeamSnapshot)
				r.Post("/stream-token", presenceHandler.StreamToken)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Post("/{id}/read", notificationHandler.MarkRead)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
