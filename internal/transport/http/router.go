package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/transport/http/handler"
	appmiddleware "github.com/go-otp-auth/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.NotFound(handler.NotFound)

	requireAccess := appmiddleware.RequireScope(appmiddleware.ScopePolicy{
		Scope:    domain.ScopeAccess,
		Verifier: deps.Tokens,
	})
	requireRegister := appmiddleware.RequireScope(appmiddleware.ScopePolicy{
		Scope:         domain.ScopeRegister,
		Verifier:      deps.Tokens,
		Registrations: deps.Registrations,
	})

	otpRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	healthH := handler.NewHealthHandler(deps.Cache)
	authH := handler.NewAuthHandler(deps.Auth)
	userH := handler.NewUserHandler(deps.Auth)
	adminH := handler.NewAdminHandler(deps.Queue)

	r.Get("/health-check/{action}", healthH.Ping)

	r.Route("/auth", func(r chi.Router) {
		r.With(otpRL.Limit).Post("/send-otp", authH.SendOTP)
		r.With(otpRL.Limit).Post("/verify-otp", authH.VerifyOTP)
		r.With(requireRegister).Post("/register", authH.Register)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAccess)
		r.Get("/users/me", userH.Me)
		r.Get("/admin/queues", adminH.Queues)
	})

	return r
}
