package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/blogapi/internal/apperror"
	"github.com/iudanet/blogapi/internal/crypto"
	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/authz"
	"github.com/iudanet/blogapi/internal/server/storage"
	"github.com/iudanet/blogapi/internal/server/token"
	"github.com/iudanet/blogapi/internal/validation"
	"github.com/iudanet/blogapi/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	issuer       *token.Issuer
	verifier     *authz.Verifier
	now          func() time.Time
	passwordCost int
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, issuer *token.Issuer) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		userStorage: userStorage,
		issuer:      issuer,
		verifier:    authz.NewVerifier(issuer.Codec(), userStorage),
		now:         time.Now,
	}
}

// WithClock подменяет источник времени (для тестов)
func (h *AuthHandler) WithClock(now func() time.Time) *AuthHandler {
	h.now = now
	return h
}

// WithPasswordCost задает стоимость bcrypt; 0 - значение по умолчанию
func (h *AuthHandler) WithPasswordCost(cost int) *AuthHandler {
	h.passwordCost = cost
	return h
}

// Register обрабатывает POST /register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body := decodeBody(r)

	creds := validation.Credentials{
		Username: trimmedString(body, "username"),
		Password: bodyString(body, "password"),
	}

	if err := creds.Validate(); err != nil {
		h.logger.WarnContext(ctx, "invalid registration", slog.String("username", creds.Username), slog.Any("error", err))
		WriteError(ctx, w, h.logger, apperror.Validation(err.Error()))
		return
	}

	hash, err := crypto.HashPassword(creds.Password, h.passwordCost)
	if err != nil {
		WriteError(ctx, w, h.logger, apperror.Internal(err))
		return
	}

	user := &models.User{
		Username:     creds.Username,
		PasswordHash: hash,
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", creds.Username))
			WriteError(ctx, w, h.logger, apperror.Validation("username already taken"))
			return
		}
		WriteError(ctx, w, h.logger, apperror.Internal(err))
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID))

	resp := api.RegisterResponse{
		User: api.UserView{ID: user.ID, Username: user.Username},
	}

	WriteJSON(w, h.logger, resp, http.StatusCreated)
}

// Login обрабатывает POST /login
// Проверяет учетные данные и выдает пару токенов
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body := decodeBody(r)

	username := bodyString(body, "username")
	password := bodyString(body, "password")
	if username == "" || password == "" {
		WriteError(ctx, w, h.logger, apperror.Validation(validation.ErrCredentialsRequired.Error()))
		return
	}

	user, err := h.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// выравниваем время ответа с веткой неверного пароля
			crypto.BurnPasswordCheck(password)
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", username))
			WriteError(ctx, w, h.logger, apperror.Authentication("Invalid credentials"))
			return
		}
		WriteError(ctx, w, h.logger, apperror.Internal(err))
		return
	}

	if err := crypto.VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", username))
			WriteError(ctx, w, h.logger, apperror.Authentication("Invalid credentials"))
			return
		}
		WriteError(ctx, w, h.logger, apperror.Internal(err))
		return
	}

	pair, err := h.issuer.IssuePair(user, h.now())
	if err != nil {
		WriteError(ctx, w, h.logger, apperror.Internal(err))
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID))

	resp := api.LoginResponse{
		Tokens: api.TokenPair{Access: pair.Access, Refresh: pair.Refresh},
	}

	WriteJSON(w, h.logger, resp, http.StatusOK)
}

// Refresh обрабатывает POST /auth/refresh
// Обменивает refresh token на новый access token. Refresh token не ротируется
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body := decodeBody(r)

	raw := bodyString(body, "refresh")
	if raw == "" {
		raw = bodyString(body, "token")
	}
	if raw == "" {
		WriteError(ctx, w, h.logger, apperror.Validation("refresh token is required"))
		return
	}

	now := h.now()

	result := h.verifier.Verify(ctx, raw, token.KindRefresh, now)
	if result.Err != nil {
		WriteError(ctx, w, h.logger, apperror.Internal(result.Err))
		return
	}
	if !result.Authorized() {
		h.logger.WarnContext(ctx, "refresh rejected", slog.String("reason", string(result.Reason)))
		WriteError(ctx, w, h.logger, apperror.Token(result.Reason.Message(), nil))
		return
	}

	access, err := h.issuer.IssueAccess(result.User, now)
	if err != nil {
		WriteError(ctx, w, h.logger, apperror.Internal(err))
		return
	}

	h.logger.InfoContext(ctx, "access token refreshed", slog.Int64("user_id", result.User.ID))

	WriteJSON(w, h.logger, api.RefreshResponse{Access: access}, http.StatusOK)
}
