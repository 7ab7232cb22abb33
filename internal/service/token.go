package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/pageza/linkbio/backend/internal/types"
)

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Sign(userID uuid.UUID, ttl time.Duration) (string, time.Time, error)
	Verify(token string) (*types.TokenClaims, error)
}

// JWTIssuer issues HS256 tokens with a single process-wide secret.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), now: time.Now}
}

// WithClock replaces the time source used for signing and expiry checks.
func (j *JWTIssuer) WithClock(now func() time.Time) *JWTIssuer {
	j.now = now
	return j
}

// Sign returns a token for userID valid for ttl, and its expiry. Every token
// carries a random id so two tokens signed in the same second differ.
func (j *JWTIssuer) Sign(userID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	now := j.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, oops.Code(CodeServerError).Wrapf(err, "failed to sign token")
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (j *JWTIssuer) Verify(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, oops.Code(CodeInvalidToken).Wrapf(err, "invalid token")
	}
	if claims.UserID == uuid.Nil {
		return nil, oops.Code(CodeInvalidToken).Errorf("invalid token: missing user id")
	}
	return claims, nil
}
