package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"chiyasathi/internal/middleware"
	"chiyasathi/internal/models"
	"chiyasathi/internal/proxy"
	"chiyasathi/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login, registration and profile requests.
type AuthHandler struct {
	backend      *proxy.Backend
	validate     *validator.Validate
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session
// cookie Secure and should be set in production.
func NewAuthHandler(backend *proxy.Backend, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		backend:      backend,
		validate:     validation.New(),
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the authentication routes. Login, registration and
// logout are public; requireSession guards the rest.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireSession fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Put("/profile-picture", requireSession, h.HandleProfilePicture)
}

// HandleLogin forwards credentials to the backend and stores the issued
// token in an http-only cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Email and password are required",
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not encode login request",
			"error":   err.Error(),
		})
	}

	resp, err := h.backend.Do(proxy.Request{
		Method:      fiber.MethodPost,
		Path:        "/auth/login",
		RequestID:   middleware.RequestIDOf(c),
		ContentType: fiber.MIMEApplicationJSON,
		Body:        body,
	})
	if err != nil {
		log.Printf("Login for %s could not reach backend: %v", req.Email, err)
		return proxy.Fail(c, err, fmt.Sprintf("Login service unavailable: %v", proxy.Cause(err)))
	}
	if !resp.OK() {
		return proxy.Relay(c, resp, "Login failed")
	}

	var data struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"data"`
	}
	_ = json.Unmarshal(resp.Body, &data)

	if data.Token != "" {
		c.Cookie(&fiber.Cookie{
			Name:     middleware.CookieName,
			Value:    data.Token,
			Path:     "/",
			HTTPOnly: true,
			Secure:   h.secureCookie,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}

	return c.JSON(fiber.Map{
		"ok":    true,
		"user":  rawOrNull(data.User),
		"token": stringOrNull(data.Token),
	})
}

// HandleRegister validates the role-specific sign-up form and forwards it
// as multipart, without client-only fields.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return invalidBody(c, proxy.MsgInvalidForm)
	}

	reg := models.NewRegistration(models.ParseRole(firstValue(form, "role")))
	reg.Bind(func(key string) string { return firstValue(form, key) })

	if err := h.validate.Struct(reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validation.Messages(err),
		})
	}

	resp, err := h.backend.Do(proxy.Request{
		Method:    fiber.MethodPost,
		Path:      "/auth/register",
		RequestID: middleware.RequestIDOf(c),
		Form:      registrationForm(form, reg),
		Strip:     models.ClientOnlyFields,
	})
	if err != nil {
		log.Printf("Registration could not reach backend: %v", err)
		return proxy.Fail(c, err, fmt.Sprintf("Signup service unavailable: %v", proxy.Cause(err)))
	}
	if !resp.OK() {
		return proxy.Relay(c, resp, "Signup failed")
	}

	var data struct {
		Message string          `json:"message"`
		User    json.RawMessage `json:"user"`
	}
	_ = json.Unmarshal(resp.Body, &data)
	if data.Message == "" {
		data.Message = "Signup successful"
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"message": data.Message,
		"user":    rawOrNull(data.User),
	})
}

// HandleProfilePicture forwards a new profile picture upload.
func (h *AuthHandler) HandleProfilePicture(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return invalidBody(c, proxy.MsgInvalidForm)
	}
	return forward(c, h.backend, proxy.Request{
		Method: fiber.MethodPut,
		Path:   "/auth/profile-picture",
		Form:   form,
	}, proxy.MsgRequestFailed)
}

// HandleLogout expires the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"ok": true})
}

// registrationForm overlays the validated fields on the submitted form so
// uploaded files and unknown fields still pass through.
func registrationForm(form *multipart.Form, reg models.Registration) *multipart.Form {
	values := make(map[string][]string, len(form.Value))
	for k, v := range form.Value {
		values[k] = v
	}
	for k, v := range reg.Fields() {
		values[k] = []string{v}
	}
	return &multipart.Form{Value: values, File: form.File}
}

func firstValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func rawOrNull(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func stringOrNull(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
