package handlers

import (
	"context"

	"github.com/iudanet/blogapi/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

// userKey ключ для хранения аутентифицированного пользователя в контексте
const userKey contextKey = "user"

// WithUser возвращает контекст с прикреплённым пользователем
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext извлекает пользователя, прикреплённого auth middleware
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
