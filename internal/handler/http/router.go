package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/handler/http/middleware"
	"github.com/crewbook/crewbook-backend-go/internal/handler/http/response"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	Report   ReportHandler
	Schedule ScheduleHandler
	Event    EventHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, db Pinger, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.Error("Health check failed", "error", err)
			response.InternalServerError(w, "database unavailable")
			return
		}
		response.Success(w, map[string]string{"status": "ok", "version": cfg.Version})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource clients authenticate with ?token=
		r.Get("/events", h.Event.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Post("/events/token", h.Event.Token)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/dashboard", h.Report.Dashboard)
				r.Get("/cash-flow", h.Report.CashFlow)
				r.Get("/clients", h.Report.Clients)
				r.Get("/workers", h.Report.Workers)
				r.Get("/payroll", h.Report.Payroll)
				r.Get("/summary.pdf", h.Report.SummaryPDF)
			})

			r.Get("/schedules/{id}", h.Schedule.Get)

			// Owners and managers only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSettler)
				r.Post("/schedules/{id}/collect", h.Schedule.MarkCollected)
				r.Put("/assignments/{id}/paid", h.Schedule.SetAssignmentPaid)
			})
		})
	})
	return r
}
