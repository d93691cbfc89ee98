package token

import (
	"fmt"
	"time"

	"github.com/iudanet/blogapi/internal/models"
)

// Pair holds an access token and a refresh token issued together
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issuer builds tokens for users from an explicit config
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer validates cfg and creates an issuer
func NewIssuer(cfg Config) (*Issuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid token config: %w", err)
	}

	codec, err := NewCodec(cfg.Secret, cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	return &Issuer{
		codec:      codec,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// Codec returns the codec used to sign issued tokens
func (i *Issuer) Codec() *Codec {
	return i.codec
}

// IssuePair creates an access and a refresh token sharing the same issue time
func (i *Issuer) IssuePair(user *models.User, now time.Time) (Pair, error) {
	access, err := i.issue(user, KindAccess, now, i.accessTTL)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := i.issue(user, KindRefresh, now, i.refreshTTL)
	if err != nil {
		return Pair{}, err
	}

	return Pair{Access: access, Refresh: refresh}, nil
}

// IssueAccess creates a single access token
func (i *Issuer) IssueAccess(user *models.User, now time.Time) (string, error) {
	return i.issue(user, KindAccess, now, i.accessTTL)
}

func (i *Issuer) issue(user *models.User, kind Kind, now time.Time, ttl time.Duration) (string, error) {
	token, err := i.codec.Encode(Claims{
		Subject:   user.ID,
		Username:  user.Username,
		Kind:      kind,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to issue %s token: %w", kind, err)
	}
	return token, nil
}
