// Package token encodes, decodes and issues the signed access and refresh
// tokens used by the blog API.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes access tokens from refresh tokens
type Kind string

const (
	// KindAccess authorizes API requests
	KindAccess Kind = "access"
	// KindRefresh can only be exchanged for a new access token
	KindRefresh Kind = "refresh"
)

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	return k == KindAccess || k == KindRefresh
}

const (
	// DefaultAlgorithm is used when no algorithm is configured
	DefaultAlgorithm = "HS256"
	// DefaultAccessTTL is the default access token lifetime
	DefaultAccessTTL = 15 * time.Minute
	// DefaultRefreshTTL is the default refresh token lifetime
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	// ErrExpired is returned when the token's expiry is not after now
	ErrExpired = errors.New("token expired")
	// ErrMalformed is returned for bad signatures, missing claims and unparsable tokens
	ErrMalformed = errors.New("token malformed")
)

// Claims is the decoded content of a token
type Claims struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
	Username  string
	Kind      Kind
	Subject   int64
}

// Config carries the signing secret, algorithm and token lifetimes
type Config struct {
	Algorithm  string
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// DefaultConfig returns HS256 with 15 minute access and 7 day refresh lifetimes
func DefaultConfig(secret []byte) Config {
	return Config{
		Secret:     secret,
		Algorithm:  DefaultAlgorithm,
		AccessTTL:  DefaultAccessTTL,
		RefreshTTL: DefaultRefreshTTL,
	}
}

// Validate checks that the config can be used to sign tokens
func (c Config) Validate() error {
	if len(c.Secret) == 0 {
		return errors.New("token secret is required")
	}
	if _, err := signingMethod(c.Algorithm); err != nil {
		return err
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("access token lifetime must be positive, got %s", c.AccessTTL)
	}
	if c.RefreshTTL <= 0 {
		return fmt.Errorf("refresh token lifetime must be positive, got %s", c.RefreshTTL)
	}
	return nil
}

// signingMethod resolves an HMAC algorithm name
func signingMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
	return method, nil
}
