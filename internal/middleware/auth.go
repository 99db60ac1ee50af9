package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/coomunity/marketplace-backend/internal/handler"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware verifies Firebase ID tokens and puts the caller's uid
// into the echo context under "uid".
type AuthMiddleware struct {
	authClient *auth.Client
}

func NewAuthMiddleware(ctx context.Context) (*AuthMiddleware, error) {
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is not set")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthMiddleware{authClient: client}, nil
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get("Authorization"))
		if !ok {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized", "missing bearer token"))
		}
		verified, err := m.authClient.VerifyIDToken(c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized", "invalid token"))
		}
		c.Set("uid", verified.UID)
		return next(c)
	}
}

func bearerToken(authz string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
	return token, token != ""
}

func (m *AuthMiddleware) Client() *auth.Client {
	return m.authClient
}
