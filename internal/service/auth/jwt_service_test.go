package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, secret string, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newJWTService(secret, time.Hour, func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.ErrorIs(t, err, ErrInvalidLifetime)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSecret, fixedTime)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	issuer := newTestService(t, testSecret, fixedTime)
	token, err := issuer.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		secret  string
		now     time.Time
		token   string
		wantErr error
	}{
		{name: "valid", secret: testSecret, now: fixedTime.Add(30 * time.Minute), token: token},
		{name: "within clock skew", secret: testSecret, now: fixedTime.Add(61 * time.Minute), token: token},
		{
			name:    "expired",
			secret:  testSecret,
			now:     fixedTime.Add(2 * time.Hour),
			token:   token,
			wantErr: ErrExpiredToken,
		},
		{
			name:    "wrong secret",
			secret:  "wrong-secret-that-is-long-enough-for-testing",
			now:     fixedTime,
			token:   token,
			wantErr: ErrInvalidToken,
		},
		{name: "malformed", secret: testSecret, now: fixedTime, token: "not.a.token", wantErr: ErrInvalidToken},
		{name: "empty", secret: testSecret, now: fixedTime, token: "", wantErr: ErrMissingToken},
		{name: "unsigned", secret: testSecret, now: fixedTime, token: noneToken, wantErr: ErrInvalidToken},
		{name: "missing user", secret: testSecret, now: fixedTime, token: noUser, wantErr: ErrInvalidToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, tc.secret, tc.now)

			claims, err := svc.ValidateToken(context.Background(), tc.token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestValidateTokenNotYetValid(t *testing.T) {
	t.Parallel()

	future, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(fixedTime.Add(2 * time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := newTestService(t, testSecret, fixedTime)
	_, err = svc.ValidateToken(context.Background(), future)
	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}
