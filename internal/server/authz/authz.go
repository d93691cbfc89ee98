// Package authz decides whether a presented token identifies an existing user
// and whether that user may change a post.
package authz

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iudanet/blogapi/internal/models"
	"github.com/iudanet/blogapi/internal/server/storage"
	"github.com/iudanet/blogapi/internal/server/token"
)

// Reason explains why a token was rejected
type Reason string

const (
	// ReasonNone means the request is authorized
	ReasonNone Reason = ""
	// ReasonMissingToken - no token or a malformed Authorization header
	ReasonMissingToken Reason = "missing_token"
	// ReasonTokenExpired - token expiry is not after now
	ReasonTokenExpired Reason = "token_expired"
	// ReasonInvalidToken - bad signature or unparsable token
	ReasonInvalidToken Reason = "invalid_token"
	// ReasonWrongTokenType - refresh token presented where access is required or vice versa
	ReasonWrongTokenType Reason = "wrong_token_type"
	// ReasonUserNotFound - token subject no longer exists
	ReasonUserNotFound Reason = "user_not_found"
)

// Message returns the client-facing error message for the reason
func (r Reason) Message() string {
	switch r {
	case ReasonMissingToken:
		return "Authorization token missing"
	case ReasonTokenExpired:
		return "Token expired"
	case ReasonInvalidToken:
		return "Invalid token"
	case ReasonWrongTokenType:
		return "Invalid token type"
	case ReasonUserNotFound:
		return "User not found"
	default:
		return ""
	}
}

// Result is the outcome of a verification: an identity or a rejection reason.
// Err is set when the user lookup failed for reasons other than not-found.
type Result struct {
	Err    error
	User   *models.User
	Reason Reason
}

// Authorized reports whether the result carries a verified user
func (r Result) Authorized() bool {
	return r.Reason == ReasonNone && r.Err == nil && r.User != nil
}

// Decoder decodes a raw token at a given instant
type Decoder interface {
	Decode(raw string, now time.Time) (*token.Claims, error)
}

// UserGetter resolves a token subject
type UserGetter interface {
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
}

// Verifier turns a raw token into a Result
type Verifier struct {
	decoder Decoder
	users   UserGetter
}

// NewVerifier creates a verifier
func NewVerifier(decoder Decoder, users UserGetter) *Verifier {
	return &Verifier{decoder: decoder, users: users}
}

// Verify decodes raw at now, checks its kind and resolves its subject.
// At most one storage lookup is made.
func (v *Verifier) Verify(ctx context.Context, raw string, want token.Kind, now time.Time) Result {
	if raw == "" {
		return Result{Reason: ReasonMissingToken}
	}

	claims, err := v.decoder.Decode(raw, now)
	switch {
	case errors.Is(err, token.ErrExpired):
		return Result{Reason: ReasonTokenExpired}
	case err != nil:
		return Result{Reason: ReasonInvalidToken}
	}

	if claims.Kind != want {
		return Result{Reason: ReasonWrongTokenType}
	}

	user, err := v.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return Result{Reason: ReasonUserNotFound}
		}
		return Result{Err: err}
	}

	return Result{User: user}
}

// BearerToken extracts the token from an Authorization header value.
// The value must be exactly "<scheme> <token>" with scheme "bearer" in any case.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// CanMutate reports whether user may update or delete post
func CanMutate(post *models.Post, user *models.User) bool {
	if post == nil || user == nil {
		return false
	}
	return post.IsAuthoredBy(user.ID)
}
