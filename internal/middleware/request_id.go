package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const localRequestID = "requestid"

// RequestID tags each request with an X-Request-ID, reusing the caller's one
// when present. The id is forwarded to the backend.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: localRequestID,
	})
}

// RequestIDOf returns the id assigned by RequestID.
func RequestIDOf(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}
