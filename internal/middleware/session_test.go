package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chiyasathi/internal/middleware"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Get("/me", middleware.SessionRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"token":     middleware.Token(c),
			"userId":    middleware.UserID(c),
			"requestId": middleware.RequestIDOf(c),
		})
	})
	return app
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestSessionRequired_MissingToken(t *testing.T) {
	resp, err := sessionApp().Test(httptest.NewRequest(http.MethodGet, "/me", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, body(t, resp))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err = sessionApp().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionRequired_OpaqueToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "opaque"})
	resp, err := sessionApp().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := body(t, resp)
	assert.Contains(t, out, `"token":"opaque"`)
	assert.Contains(t, out, `"userId":""`)
}

func TestSessionRequired_JWTClaims(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   "u-5",
		"role": "owner",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("not-our-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := sessionApp().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"userId":"u-5"`)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u-5",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("not-our-secret"))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err = sessionApp().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Session expired"}`, body(t, resp))
}

func TestRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "opaque"})
	resp, err := sessionApp().Test(req, -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Contains(t, body(t, resp), resp.Header.Get("X-Request-ID"))
}
