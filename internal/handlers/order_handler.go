package handlers

import (
	"net/url"

	"chiyasathi/internal/proxy"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler forwards order requests. Transition legality is decided by
// the backend; bodies are relayed unmodified.
type OrderHandler struct {
	backend *proxy.Backend
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(backend *proxy.Backend) *OrderHandler {
	return &OrderHandler{backend: backend}
}

// RegisterRoutes registers the order routes behind requireSession.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireSession fiber.Handler) {
	orderRoutes := router.Group("/orders", requireSession)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
	orderRoutes.Put("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders forwards GET /orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	return forward(c, h.backend, proxy.Request{Method: fiber.MethodGet, Path: "/orders"}, proxy.MsgRequestFailed)
}

// HandleGetOrderByID forwards GET /orders/:id.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	return forward(c, h.backend, proxy.Request{
		Method: fiber.MethodGet,
		Path:   orderPath(c),
	}, proxy.MsgRequestFailed)
}

// HandleCreateOrder forwards POST /orders with a JSON body.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	body, ok := jsonBody(c)
	if !ok {
		return invalidBody(c, proxy.MsgInvalidBody)
	}
	return forward(c, h.backend, proxy.Request{
		Method:      fiber.MethodPost,
		Path:        "/orders",
		ContentType: fiber.MIMEApplicationJSON,
		Body:        body,
	}, proxy.MsgRequestFailed)
}

// HandleUpdateOrderStatus forwards PUT /orders/:id/status unmodified.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	body, ok := jsonBody(c)
	if !ok {
		return invalidBody(c, proxy.MsgInvalidBody)
	}
	return forward(c, h.backend, proxy.Request{
		Method:      fiber.MethodPut,
		Path:        orderPath(c) + "/status",
		ContentType: fiber.MIMEApplicationJSON,
		Body:        body,
	}, proxy.MsgRequestFailed)
}

// HandleDeleteOrder forwards DELETE /orders/:id.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	return forward(c, h.backend, proxy.Request{
		Method: fiber.MethodDelete,
		Path:   orderPath(c),
	}, proxy.MsgDeleteFailed)
}

func orderPath(c *fiber.Ctx) string {
	return "/orders/" + url.PathEscape(c.Params("id"))
}
