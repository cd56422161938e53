package middleware

import (
	"log"
	"strings"
	"time"

	"chiyasathi/internal/proxy"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
)

// CookieName is the http-only cookie carrying the backend bearer token.
const CookieName = "auth_token"

const (
	localToken  = "token"
	localUserID = "user_id"
	localRole   = "role"
)

// SessionRequired rejects requests that carry no bearer credential, before
// any backend call is made. The credential is read from the auth_token
// cookie, falling back to an "Authorization: Bearer <token>" header.
//
// Tokens are opaque to this service. When one happens to be a JWT whose exp
// claim has passed it is rejected here instead of at the backend.
func SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": proxy.MsgUnauthorized,
			})
		}

		if claims, ok := peekClaims(token); ok {
			if !claims.VerifyExpiresAt(time.Now().Unix(), false) {
				log.Printf("Rejected expired session token for user %v", claims["id"])
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Session expired",
				})
			}
			if id, ok := claims["id"].(string); ok {
				c.Locals(localUserID, id)
			}
			if role, ok := claims["role"].(string); ok {
				c.Locals(localRole, role)
			}
		}

		c.Locals(localToken, token)
		return c.Next()
	}
}

// Token returns the credential stored by SessionRequired.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}

// UserID returns the user id decoded from a JWT credential, if any.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func bearerToken(c *fiber.Ctx) string {
	if token := c.Cookies(CookieName); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// peekClaims decodes a JWT without verifying its signature; the backend
// owns the signing key and remains the authority on validity.
func peekClaims(token string) (jwt.MapClaims, bool) {
	if strings.Count(token, ".") != 2 {
		return nil, false
	}
	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	return claims, ok
}
