package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/adapter/http/fiber/middleware"
	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/mocks"
)

func newAuthApp(svc *mocks.MockAuthService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
	NewAuthHandler(svc, zap.NewNop()).RegisterRoutes(app, middleware.AuthRequired(svc))
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestAuthHandler_RegisterLogsIn(t *testing.T) {
	svc := &mocks.MockAuthService{
		RegisterFunc: func(ctx context.Context, user *domain.User) error {
			user.ID = "u1"
			user.Role = domain.UserRoleUser
			return nil
		},
		LoginFunc: func(ctx context.Context, email, password string) (string, string, error) {
			return "access", "refresh", nil
		},
	}

	code, body := post(t, newAuthApp(svc), "/api/v1/auth/register", `{"name":"Ada","email":"ada@example.com","password":"password123"}`)

	assert.Equal(t, fiber.StatusCreated, code)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "u1", user["id"])
	assert.NotContains(t, user, "password")
	assert.Equal(t, "access", body["tokens"].(map[string]interface{})["accessToken"])
}

func TestAuthHandler_RegisterConflict(t *testing.T) {
	svc := &mocks.MockAuthService{
		RegisterFunc: func(ctx context.Context, user *domain.User) error {
			return domain.ErrConflict
		},
	}

	code, _ := post(t, newAuthApp(svc), "/api/v1/auth/register", `{"email":"ada@example.com","password":"password123"}`)

	assert.Equal(t, fiber.StatusConflict, code)
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	svc := &mocks.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string) (string, string, error) {
			return "", "", domain.ErrUnauthorized
		},
	}
	app := newAuthApp(svc)

	code, _ := post(t, app, "/api/v1/auth/login", `{"email":"","password":""}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = post(t, app, "/api/v1/auth/login", `{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = post(t, app, "/api/v1/auth/login", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	var loggedOut string
	svc := &mocks.MockAuthService{
		ValidateTokenFunc: func(ctx context.Context, token string) (*domain.User, error) {
			if token == "good" {
				return &domain.User{ID: "u1", Email: "ada@example.com", Role: domain.UserRoleUser}, nil
			}
			return nil, domain.ErrUnauthorized
		},
		LogoutFunc: func(ctx context.Context, token string) error {
			loggedOut = token
			return nil
		},
	}
	app := newAuthApp(svc)

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me domain.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "u1", me.ID)

	req = httptest.NewRequest("POST", "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "good", loggedOut)
}
