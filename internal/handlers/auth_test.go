package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codekart/codekart/internal/models"
)

func registerAndLogin(t *testing.T, env *testEnv, username, password string) (string, string) {
	t.Helper()

	creds := map[string]string{"username": username, "password": password}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", creds)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/auth/login", creds)
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	return resp.AccessToken, resp.RefreshToken
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	registerAndLogin(t, env, "asha", "secret-pass")

	var user models.User
	require.NoError(t, env.DB.Where("username = ?", "asha").First(&user).Error)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "secret-pass", user.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	registerAndLogin(t, env, "asha", "secret-pass")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "asha",
		"password": "another-pass",
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	registerAndLogin(t, env, "asha", "secret-pass")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "asha",
		"password": "wrong",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	_, refreshToken := registerAndLogin(t, env, "asha", "secret-pass")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshToken})
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", refreshToken).First(&stored).Error)
	require.True(t, stored.Revoked)
}
