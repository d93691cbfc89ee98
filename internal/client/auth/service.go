// Package auth управляет сессией клиента: вход, выход и обновление access токена
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	clientapi "github.com/iudanet/blogapi/internal/client/api"
	"github.com/iudanet/blogapi/internal/client/storage"
	"github.com/iudanet/blogapi/internal/validation"
	"github.com/iudanet/blogapi/pkg/api"
)

var (
	// ErrNotAuthenticated нет сохраненной сессии
	ErrNotAuthenticated = errors.New("not authenticated, please run 'login' first")
	// ErrSessionExpired refresh токен больше не принимается сервером
	ErrSessionExpired = errors.New("session expired, please run 'login' again")
)

// Service предоставляет функции авторизации
type Service struct {
	apiClient APIClient
	store     storage.SessionStorage
}

// NewService создает новый сервис авторизации
func NewService(apiClient APIClient, store storage.SessionStorage) *Service {
	return &Service{
		apiClient: apiClient,
		store:     store,
	}
}

// Register регистрирует нового пользователя. Сессия не создается
func (s *Service) Register(ctx context.Context, username, password string) (*api.UserView, error) {
	username = strings.TrimSpace(username)
	creds := validation.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	resp, err := s.apiClient.Register(ctx, api.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &resp.User, nil
}

// Login получает пару токенов и сохраняет сессию
func (s *Service) Login(ctx context.Context, username, password string) (*storage.Session, error) {
	if username == "" || password == "" {
		return nil, validation.ErrCredentialsRequired
	}

	resp, err := s.apiClient.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	userID, err := SubjectFromToken(resp.Tokens.Access)
	if err != nil {
		return nil, err
	}

	session := &storage.Session{
		Username: username,
		UserID:   userID,
		Access:   resp.Tokens.Access,
		Refresh:  resp.Tokens.Refresh,
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// Logout удаляет локальную сессию. Токены на сервере остаются действительными до истечения
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.DeleteSession(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Session возвращает текущую сессию
func (s *Service) Session(ctx context.Context) (*storage.Session, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// WithAccess вызывает call с сохраненным access токеном. Если сервер отвечает 401,
// access токен один раз обновляется через refresh и вызов повторяется
func (s *Service) WithAccess(ctx context.Context, call func(access string) error) error {
	session, err := s.Session(ctx)
	if err != nil {
		return err
	}

	err = call(session.Access)
	if !clientapi.IsUnauthorized(err) {
		return err
	}

	resp, err := s.apiClient.Refresh(ctx, session.Refresh)
	if err != nil {
		if clientapi.IsUnauthorized(err) {
			return fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		return err
	}

	session.Access = resp.Access
	if err := s.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return call(session.Access)
}

// SubjectFromToken читает id пользователя из claim sub без проверки подписи.
// Только для отображения: подпись проверяет сервер
func SubjectFromToken(raw string) (int64, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return 0, fmt.Errorf("failed to parse access token: %w", err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject %q: %w", claims.Subject, err)
	}
	return id, nil
}
