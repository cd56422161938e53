package handlers

import (
	"chiyasathi/internal/middleware"
	"chiyasathi/internal/proxy"

	"github.com/gofiber/fiber/v2"
)

// Mount registers every forwarding route on router (normally the /api group).
func Mount(router fiber.Router, backend *proxy.Backend, secureCookie bool) {
	requireSession := middleware.SessionRequired()

	NewAuthHandler(backend, secureCookie).RegisterRoutes(router, requireSession)
	NewMenuHandler(backend).RegisterRoutes(router, requireSession)
	NewOrderHandler(backend).RegisterRoutes(router, requireSession)
}
