package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/blogapi/internal/models"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "HS512", mutate: func(c *Config) { c.Algorithm = "HS512" }},
		{name: "empty secret", mutate: func(c *Config) { c.Secret = nil }, wantErr: true},
		{name: "bad algorithm", mutate: func(c *Config) { c.Algorithm = "ES256" }, wantErr: true},
		{name: "zero access ttl", mutate: func(c *Config) { c.AccessTTL = 0 }, wantErr: true},
		{name: "negative refresh ttl", mutate: func(c *Config) { c.RefreshTTL = -time.Hour }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(testSecret)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(testSecret)
	assert.Equal(t, "HS256", cfg.Algorithm)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
}

func TestNewIssuer_InvalidConfig(t *testing.T) {
	issuer, err := NewIssuer(Config{Algorithm: "HS256", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	assert.Error(t, err)
	assert.Nil(t, issuer)
}

func TestIssuer_IssuePair(t *testing.T) {
	issuer, err := NewIssuer(DefaultConfig(testSecret))
	require.NoError(t, err)

	user := &models.User{ID: 7, Username: "bob"}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	pair, err := issuer.IssuePair(user, now)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	access, err := issuer.Codec().Decode(pair.Access, now)
	require.NoError(t, err)
	refresh, err := issuer.Codec().Decode(pair.Refresh, now)
	require.NoError(t, err)

	assert.Equal(t, KindAccess, access.Kind)
	assert.Equal(t, KindRefresh, refresh.Kind)

	assert.Equal(t, int64(7), access.Subject)
	assert.Equal(t, access.Subject, refresh.Subject)
	assert.Equal(t, "bob", access.Username)
	assert.Equal(t, access.Username, refresh.Username)

	assert.True(t, access.IssuedAt.Equal(refresh.IssuedAt))
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt))
	assert.Equal(t, 15*time.Minute, access.ExpiresAt.Sub(access.IssuedAt))
	assert.Equal(t, 7*24*time.Hour, refresh.ExpiresAt.Sub(refresh.IssuedAt))
}

func TestIssuer_CustomLifetimes(t *testing.T) {
	cfg := DefaultConfig(testSecret)
	cfg.AccessTTL = time.Minute
	cfg.RefreshTTL = 2 * time.Hour

	issuer, err := NewIssuer(cfg)
	require.NoError(t, err)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pair, err := issuer.IssuePair(&models.User{ID: 1, Username: "alice"}, now)
	require.NoError(t, err)

	_, err = issuer.Codec().Decode(pair.Access, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrExpired)

	_, err = issuer.Codec().Decode(pair.Refresh, now.Add(time.Minute))
	assert.NoError(t, err)
}

func TestIssuer_IssueAccess(t *testing.T) {
	issuer, err := NewIssuer(DefaultConfig(testSecret))
	require.NoError(t, err)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	raw, err := issuer.IssueAccess(&models.User{ID: 3, Username: "carol"}, now)
	require.NoError(t, err)

	claims, err := issuer.Codec().Decode(raw, now)
	require.NoError(t, err)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.Equal(t, int64(3), claims.Subject)
}
