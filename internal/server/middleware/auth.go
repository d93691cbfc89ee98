package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/blogapi/internal/apperror"
	"github.com/iudanet/blogapi/internal/server/authz"
	"github.com/iudanet/blogapi/internal/server/handlers"
	"github.com/iudanet/blogapi/internal/server/token"
)

// Gate проверяет Bearer access token и прикрепляет пользователя к запросу.
// Без состояния: нет учета попыток, блокировок и rate limiting
type Gate struct {
	logger   *slog.Logger
	verifier *authz.Verifier
	now      func() time.Time
}

// NewGate создает gate поверх verifier
func NewGate(logger *slog.Logger, verifier *authz.Verifier) *Gate {
	return &Gate{
		logger:   logger,
		verifier: verifier,
		now:      time.Now,
	}
}

// WithClock подменяет источник времени (для тестов)
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Authorize извлекает токен из заголовка Authorization и проверяет его
func (g *Gate) Authorize(r *http.Request) authz.Result {
	raw, ok := authz.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return authz.Result{Reason: authz.ReasonMissingToken}
	}

	return g.verifier.Verify(r.Context(), raw, token.KindAccess, g.now())
}

// Middleware пропускает запрос дальше только с проверенным пользователем в контексте
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		result := g.Authorize(r)

		if result.Err != nil {
			handlers.WriteError(ctx, w, g.logger, apperror.Internal(result.Err))
			return
		}

		if !result.Authorized() {
			g.logger.WarnContext(ctx, "request rejected by auth gate",
				slog.String("reason", string(result.Reason)),
				slog.String("path", r.URL.Path))
			handlers.WriteError(ctx, w, g.logger, apperror.Token(result.Reason.Message(), nil))
			return
		}

		g.logger.DebugContext(ctx, "user authenticated",
			slog.Int64("user_id", result.User.ID),
			slog.String("username", result.User.Username))

		next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, result.User)))
	})
}

// AuthMiddleware создает middleware для проверки JWT токена
func AuthMiddleware(logger *slog.Logger, verifier *authz.Verifier) func(http.Handler) http.Handler {
	return NewGate(logger, verifier).Middleware
}
