package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtClaims is the wire form: sub, username, type, iat, exp
type jwtClaims struct {
	Username string `json:"username"`
	Type     Kind   `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a single configured algorithm
type Codec struct {
	method *jwt.SigningMethodHMAC
	secret []byte
}

// NewCodec creates a codec for the given secret and HMAC algorithm
func NewCodec(secret []byte, algorithm string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}

	method, err := signingMethod(algorithm)
	if err != nil {
		return nil, err
	}

	return &Codec{method: method, secret: secret}, nil
}

// Encode signs the claims into a compact token string
func (c *Codec) Encode(claims Claims) (string, error) {
	if !claims.Kind.Valid() {
		return "", fmt.Errorf("invalid token kind %q", claims.Kind)
	}

	iat := jwt.NewNumericDate(claims.IssuedAt)
	exp := jwt.NewNumericDate(claims.ExpiresAt)
	if !exp.After(iat.Time) {
		return "", fmt.Errorf("token expiry %s is not after issue time %s", exp.Time, iat.Time)
	}

	wire := jwtClaims{
		Username: claims.Username,
		Type:     claims.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.Subject, 10),
			IssuedAt:  iat,
			ExpiresAt: exp,
		},
	}

	signed, err := jwt.NewWithClaims(c.method, wire).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode verifies the token at the instant now.
// Returns ErrExpired when now >= exp and ErrMalformed for everything else.
func (c *Codec) Decode(raw string, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var wire jwtClaims
	_, err := parser.ParseWithClaims(raw, &wire, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		// подпись проверяется до claims, поэтому чужой ключ никогда не даёт ErrExpired
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if wire.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing iat", ErrMalformed)
	}
	if !wire.Type.Valid() {
		return nil, fmt.Errorf("%w: invalid type %q", ErrMalformed, wire.Type)
	}

	subject, err := strconv.ParseInt(wire.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sub: %w", ErrMalformed, err)
	}

	return &Claims{
		Subject:   subject,
		Username:  wire.Username,
		Kind:      wire.Type,
		IssuedAt:  wire.IssuedAt.UTC(),
		ExpiresAt: wire.ExpiresAt.UTC(),
	}, nil
}
