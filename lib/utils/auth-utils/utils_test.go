package authutils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"startupai-backend/config"
	"startupai-backend/models"
)

func TestGetToken(t *testing.T) {
	config.Conf = &config.Configuration{}
	config.Conf.Auth.JWTSecret = "test-secret"
	config.Conf.Auth.JWTExpireInSec = 3600

	tokenString, err := GetToken("user-7", "Sam Founder", "space-1", models.FounderRole)
	require.Nil(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.Nil(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "user-7", claims["sub"])
	require.Equal(t, "space-1", claims["space"])
	require.Equal(t, string(models.FounderRole), claims["role"])
}
