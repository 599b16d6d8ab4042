package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", secret, time.Hour)
	require.NoError(t, err)

	got, err := GetUserIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestGetUserIDFromToken_Rejects(t *testing.T) {
	t.Parallel()

	good, err := GenerateToken("u1", []byte("right"), time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken("u1", []byte("right"), -time.Minute)
	require.NoError(t, err)
	noUser, err := GenerateToken("", []byte("right"), time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		key   string
	}{
		{"wrong secret", good, "wrong"},
		{"expired", expired, "right"},
		{"no user id", noUser, "right"},
		{"alg none", none, "right"},
		{"garbage", "not.a.jwt", "right"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetUserIDFromToken(tt.token, []byte(tt.key))
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}
