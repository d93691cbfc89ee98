// Package app собирает HTTP сервер блога: роутер, middleware и жизненный цикл
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/iudanet/blogapi/internal/server/authz"
	"github.com/iudanet/blogapi/internal/server/handlers"
	"github.com/iudanet/blogapi/internal/server/middleware"
	"github.com/iudanet/blogapi/internal/server/storage"
	"github.com/iudanet/blogapi/internal/server/token"
)

// Deps зависимости роутера
type Deps struct {
	Logger  *slog.Logger
	Users   storage.UserStorage
	Posts   storage.PostStorage
	Pinger  handlers.Pinger
	Issuer  *token.Issuer
	Now     func() time.Time // nil - time.Now
	Version string
	Origins []string // nil - любой origin
	// PasswordCost стоимость bcrypt; 0 - значение по умолчанию
	PasswordCost int
}

// NewRouter создает chi роутер со всеми маршрутами API
func NewRouter(d Deps) http.Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	origins := d.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	verifier := authz.NewVerifier(d.Issuer.Codec(), d.Users)
	gate := middleware.NewGate(d.Logger, verifier).WithClock(now)

	authHandler := handlers.NewAuthHandler(d.Logger, d.Users, d.Issuer).
		WithClock(now).
		WithPasswordCost(d.PasswordCost)
	postHandler := handlers.NewPostHandler(d.Logger, d.Posts)
	healthHandler := handlers.NewHealthHandler(d.Logger, d.Pinger, d.Version)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggingWithSkip(d.Logger, []string{"/health"}))
	r.Use(middleware.RecoveryMiddleware(d.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(chimw.StripSlashes)

	r.NotFound(handlers.NotFound(d.Logger))
	r.MethodNotAllowed(handlers.MethodNotAllowed(d.Logger))

	r.Get("/health", healthHandler.Health)

	// Авторизация. /api/auth/* оставлены для старых клиентов
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.Refresh)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
	})

	// Посты: чтение открыто, изменение только через gate
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.List)
		r.With(gate.Middleware).Post("/", postHandler.Create)
		r.Get("/{id}", postHandler.Get)
		r.With(gate.Middleware).Put("/{id}", postHandler.Update)
		r.With(gate.Middleware).Delete("/{id}", postHandler.Delete)
	})

	return r
}
