package auth

import (
	"context"

	"github.com/iudanet/blogapi/pkg/api"
)

// APIClient подмножество HTTP клиента, нужное сервису авторизации
type APIClient interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Refresh(ctx context.Context, refresh string) (*api.RefreshResponse, error)
}
