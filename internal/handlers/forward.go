package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"chiyasathi/internal/middleware"
	"chiyasathi/internal/proxy"

	"github.com/gofiber/fiber/v2"
)

// forward sends r with the caller's credential and query string and relays
// the answer.
func forward(c *fiber.Ctx, backend *proxy.Backend, r proxy.Request, fallback string) error {
	if q := c.Request().URI().QueryString(); len(q) > 0 && !strings.Contains(r.Path, "?") {
		r.Path += "?" + string(q)
	}
	r.Token = middleware.Token(c)
	r.RequestID = middleware.RequestIDOf(c)

	resp, err := backend.Do(r)
	if err != nil {
		log.Printf("Error forwarding %s %s: %v", r.Method, r.Path, err)
		return proxy.Fail(c, err, proxy.MsgUnavailable)
	}
	return proxy.Relay(c, resp, fallback)
}

// jsonBody returns the raw request body when it holds a JSON value other than null.
func jsonBody(c *fiber.Ctx) ([]byte, bool) {
	body := c.Body()
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" || !json.Valid(body) {
		return nil, false
	}
	return body, true
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func invalidBody(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}

// forwardBody forwards a POST or PUT whose body is either multipart or JSON.
func forwardBody(c *fiber.Ctx, backend *proxy.Backend, method, path string) error {
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			log.Printf("Error parsing multipart body for %s: %v", path, err)
			return invalidBody(c, proxy.MsgInvalidForm)
		}
		return forward(c, backend, proxy.Request{Method: method, Path: path, Form: form}, proxy.MsgRequestFailed)
	}

	body, ok := jsonBody(c)
	if !ok {
		return invalidBody(c, proxy.MsgInvalidBody)
	}
	return forward(c, backend, proxy.Request{
		Method:      method,
		Path:        path,
		ContentType: fiber.MIMEApplicationJSON,
		Body:        body,
	}, proxy.MsgRequestFailed)
}
