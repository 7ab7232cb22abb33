package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/linkbio/backend/internal/testhelpers"
	"github.com/pageza/linkbio/backend/internal/types"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTIssuer_SignAndVerify(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := NewJWTIssuer("secret").WithClock(fixedClock(now))
	userID := uuid.New()

	token, expiresAt, err := issuer.Sign(userID, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), expiresAt.UTC())

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTIssuer_TokensAreUnique(t *testing.T) {
	issuer := NewJWTIssuer("secret").WithClock(fixedClock(time.Now()))
	userID := uuid.New()

	first, _, err := issuer.Sign(userID, time.Hour)
	require.NoError(t, err)
	second, _, err := issuer.Sign(userID, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTIssuer_Expired(t *testing.T) {
	now := time.Now()
	issuer := NewJWTIssuer("secret").WithClock(fixedClock(now))
	token, _, err := issuer.Sign(uuid.New(), time.Hour)
	require.NoError(t, err)

	issuer.WithClock(fixedClock(now.Add(time.Hour + time.Second)))
	_, err = issuer.Verify(token)
	testhelpers.AssertErrorCode(t, err, CodeInvalidToken)
}

func TestJWTIssuer_Rejects(t *testing.T) {
	userID := uuid.New()
	issuer := NewJWTIssuer("secret")
	valid := func(method jwt.SigningMethod, key interface{}, claims *types.TokenClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	claimsFor := func(id uuid.UUID) *types.TokenClaims {
		return &types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   id.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: id,
		}
	}

	other, _, err := NewJWTIssuer("other-secret").Sign(userID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "wrong secret", token: other},
		{name: "unexpected algorithm", token: valid(jwt.SigningMethodHS512, []byte("secret"), claimsFor(userID))},
		{name: "none algorithm", token: valid(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor(userID))},
		{name: "missing user id", token: valid(jwt.SigningMethodHS256, []byte("secret"), claimsFor(uuid.Nil))},
		{name: "missing expiry", token: valid(jwt.SigningMethodHS256, []byte("secret"), &types.TokenClaims{UserID: userID})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			testhelpers.AssertErrorCode(t, err, CodeInvalidToken)
		})
	}
}
