package handlers

import (
	"net/url"

	"chiyasathi/internal/proxy"

	"github.com/gofiber/fiber/v2"
)

// MenuHandler forwards menu requests.
type MenuHandler struct {
	backend *proxy.Backend
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(backend *proxy.Backend) *MenuHandler {
	return &MenuHandler{backend: backend}
}

// RegisterRoutes registers the menu routes behind requireSession.
func (h *MenuHandler) RegisterRoutes(router fiber.Router, requireSession fiber.Handler) {
	menuRoutes := router.Group("/menu", requireSession)
	menuRoutes.Get("/", h.HandleList)
	menuRoutes.Post("/", h.HandleCreate)
	menuRoutes.Put("/:id", h.HandleUpdate)
	menuRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList forwards GET /menu.
func (h *MenuHandler) HandleList(c *fiber.Ctx) error {
	return forward(c, h.backend, proxy.Request{Method: fiber.MethodGet, Path: "/menu"}, proxy.MsgRequestFailed)
}

// HandleCreate accepts multipart (with an optional image) or JSON.
func (h *MenuHandler) HandleCreate(c *fiber.Ctx) error {
	return forwardBody(c, h.backend, fiber.MethodPost, "/menu")
}

// HandleUpdate forwards PUT /menu/:id.
func (h *MenuHandler) HandleUpdate(c *fiber.Ctx) error {
	return forwardBody(c, h.backend, fiber.MethodPut, "/menu/"+url.PathEscape(c.Params("id")))
}

// HandleDelete forwards DELETE /menu/:id.
func (h *MenuHandler) HandleDelete(c *fiber.Ctx) error {
	return forward(c, h.backend, proxy.Request{
		Method: fiber.MethodDelete,
		Path:   "/menu/" + url.PathEscape(c.Params("id")),
	}, proxy.MsgDeleteFailed)
}
