package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

var testIdentity = Identity{UserID: 42, Email: "host@example.com", Role: "host"}

func TestHashPassword(t *testing.T) {
	t.Run("hash differs from plaintext", func(t *testing.T) {
		hashed, err := HashPassword("mySecurePassword123")

		require.NoError(t, err)
		assert.NotEqual(t, "mySecurePassword123", hashed)
	})

	t.Run("salted hashes differ", func(t *testing.T) {
		h1, _ := HashPassword("samePassword")
		h2, _ := HashPassword("samePassword")

		assert.NotEqual(t, h1, h2)
	})
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("correctPassword")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct", "correctPassword", true},
		{"wrong", "wrongPassword", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(hashed, tt.password))
		})
	}
}

func TestGenerateTokens(t *testing.T) {
	t.Run("access and refresh carry the identity", func(t *testing.T) {
		access, refresh, err := GenerateTokens(testIdentity, testSecret)
		require.NoError(t, err)
		assert.NotEqual(t, access, refresh)

		claims, err := ValidateToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, testIdentity, claims.Identity)
		assert.Equal(t, tokenTypeAccess, claims.TokenType)
		assert.Equal(t, jwtIssuer, claims.Issuer)
		assert.Contains(t, claims.Audience, jwtAudience)

		diff := claims.ExpiresAt.Time.Sub(time.Now().Add(AccessTokenTTL)).Abs()
		assert.Less(t, diff, 2*time.Second)
	})

	t.Run("empty secret", func(t *testing.T) {
		access, refresh, err := GenerateTokens(testIdentity, "")

		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
		assert.Empty(t, access)
		assert.Empty(t, refresh)
	})
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateAccessToken(testIdentity, testSecret)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		claims, err := ValidateToken(token, "wrong-secret")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("malformed", func(t *testing.T) {
		claims, err := ValidateToken("invalid.token.format", testSecret)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := ValidateToken(token, "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
			Identity:  testIdentity,
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(past),
				IssuedAt:  jwt.NewNumericDate(past.Add(-AccessTokenTTL)),
			},
		})
		signed, err := expired.SignedString([]byte(testSecret))
		require.NoError(t, err)

		claims, err := ValidateToken(signed, testSecret)
		assert.Equal(t, ErrTokenExpired, err)
		assert.Nil(t, claims)
	})
}

func TestParseRefreshToken(t *testing.T) {
	t.Run("refresh token", func(t *testing.T) {
		refresh, err := GenerateRefreshToken(testIdentity, testSecret)
		require.NoError(t, err)

		id, err := ParseRefreshToken(refresh, testSecret)
		require.NoError(t, err)
		assert.Equal(t, testIdentity, *id)
	})

	t.Run("access token rejected", func(t *testing.T) {
		access, err := GenerateAccessToken(testIdentity, testSecret)
		require.NoError(t, err)

		id, err := ParseRefreshToken(access, testSecret)
		assert.Equal(t, ErrInvalidTokenType, err)
		assert.Nil(t, id)
	})
}
