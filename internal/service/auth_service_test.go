package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func adminClaims(issuer string, expires time.Time) models.JWTClaims {
	return models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleAdmin,
		Email:  "admin@school.test",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestValidateTokenAcceptsSignedToken(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret", Issuer: "school"})
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), adminClaims("school", time.Now().Add(time.Hour)))

	claims, err := svc.ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "u1", claims.UserID)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret", Issuer: "school"})
	noRole := adminClaims("school", time.Now().Add(time.Hour))
	noRole.Role = ""

	cases := map[string]string{
		"wrong secret":  signToken(t, jwt.SigningMethodHS256, []byte("other"), adminClaims("school", time.Now().Add(time.Hour))),
		"wrong issuer":  signToken(t, jwt.SigningMethodHS256, []byte("secret"), adminClaims("elsewhere", time.Now().Add(time.Hour))),
		"expired":       signToken(t, jwt.SigningMethodHS256, []byte("secret"), adminClaims("school", time.Now().Add(-time.Hour))),
		"wrong method":  signToken(t, jwt.SigningMethodHS512, []byte("secret"), adminClaims("school", time.Now().Add(time.Hour))),
		"missing role":  signToken(t, jwt.SigningMethodHS256, []byte("secret"), noRole),
		"garbage input": "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
		})
	}
}
