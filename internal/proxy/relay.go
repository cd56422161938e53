package proxy

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Fallback messages used when the backend does not supply one.
const (
	MsgRequestFailed = "Request failed"
	MsgDeleteFailed  = "Delete failed"
	MsgUnavailable   = "Backend unavailable"
	MsgUnauthorized  = "Unauthorized"
	MsgInvalidBody   = "Invalid body"
	MsgInvalidForm   = "Invalid form data"
)

// MessageOf extracts the "message" field of a backend JSON body.
func MessageOf(body []byte, fallback string) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Message == "" {
		return fallback
	}
	return env.Message
}

// Relay writes a backend response to c. Failures are reduced to
// {"message": ...} with the backend's status code; successes pass the JSON
// body through, or {} when the body is not JSON.
func Relay(c *fiber.Ctx, resp *Response, fallback string) error {
	if !resp.OK() {
		return c.Status(resp.Status).JSON(fiber.Map{
			"message": MessageOf(resp.Body, fallback),
		})
	}
	if resp.Status == http.StatusNoContent {
		return c.JSON(fiber.Map{"ok": true})
	}
	if !json.Valid(resp.Body) {
		return c.JSON(fiber.Map{})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(resp.Body)
}

// Fail answers a transport error with 502, anything else with 500.
func Fail(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, ErrUnavailable) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not forward request",
		"error":   err.Error(),
	})
}
