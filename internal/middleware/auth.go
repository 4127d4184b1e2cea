// Package middleware provides authentication, logging, metrics and rate limiting for the HTTP layer.
package middleware

import (
	"context"
	"errors"
	"strings"

	"feedgraph/internal/config"
	"feedgraph/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingToken   = errors.New("authorization required")
	errInvalidToken   = errors.New("invalid or expired token")
	errInvalidSubject = errors.New("invalid subject claim")
	errInvalidIssuer  = errors.New("invalid token issuer")
	errInvalidAud     = errors.New("invalid token audience")
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ParseViewer verifies an identity token and returns the viewer it names.
// The subject claim is the user key; the email claim is optional.
func ParseViewer(cfg *config.Config, tokenString string) (models.Viewer, error) {
	if tokenString == "" {
		return models.Viewer{}, errMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.Viewer{}, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Viewer{}, errInvalidToken
	}

	if cfg.JWTIssuer != "" {
		if issuer, _ := claims.GetIssuer(); issuer != cfg.JWTIssuer {
			return models.Viewer{}, errInvalidIssuer
		}
	}
	if cfg.JWTAudience != "" {
		audience, _ := claims.GetAudience()
		found := false
		for _, aud := range audience {
			if aud == cfg.JWTAudience {
				found = true
				break
			}
		}
		if !found {
			return models.Viewer{}, errInvalidAud
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return models.Viewer{}, errInvalidSubject
	}

	email, _ := claims["email"].(string)
	return models.Viewer{
		UserID: strings.TrimSpace(sub),
		Email:  strings.ToLower(strings.TrimSpace(email)),
	}, nil
}

// AuthRequired is a middleware that enforces a verified identity on protected routes.
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer, err := ParseViewer(cfg, BearerToken(c.Get("Authorization")))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(capitalize(err.Error())))
		}

		c.Locals("userID", viewer.UserID)
		c.Locals("viewerEmail", viewer.Email)
		ctx := context.WithValue(c.UserContext(), UserIDKey, viewer.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// ViewerFromCtx returns the viewer stored by AuthRequired; it is anonymous on public routes.
func ViewerFromCtx(c *fiber.Ctx) models.Viewer {
	uid, _ := c.Locals("userID").(string)
	email, _ := c.Locals("viewerEmail").(string)
	return models.Viewer{UserID: uid, Email: email}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
