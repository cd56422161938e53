package proxy

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrUnavailable is returned when the backend could not be reached.
var ErrUnavailable = errors.New("backend unavailable")

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return ErrUnavailable.Error() + ": " + e.cause.Error()
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.cause}
}

// Cause returns the transport error behind an ErrUnavailable, or err itself.
func Cause(err error) error {
	var ue *unavailableError
	if errors.As(err, &ue) {
		return ue.cause
	}
	return err
}

// Request describes one forwarded call.
type Request struct {
	Method      string
	Path        string // appended to the backend base URL, e.g. "/orders/42"
	Token       string // bearer credential, omitted when empty
	RequestID   string
	ContentType string
	Body        []byte
	// Form, when set, is re-encoded as multipart/form-data and replaces Body.
	Form *multipart.Form
	// Strip lists form fields that must not reach the backend.
	Strip []string
}

// Response is the raw backend answer.
type Response struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Backend forwards requests to the external REST API.
type Backend struct {
	baseURL string
	timeout time.Duration
}

// NewBackend creates a Backend rooted at baseURL (e.g. "http://host:5000/api").
func NewBackend(baseURL string, timeout time.Duration) *Backend {
	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// BaseURL returns the root every request path is appended to.
func (b *Backend) BaseURL() string {
	return b.baseURL
}

// Do performs r and returns the backend response. Any failure to obtain a
// response (dial error, timeout, malformed URL) wraps ErrUnavailable.
func (b *Backend) Do(r Request) (*Response, error) {
	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(r.Method)
	req.SetRequestURI(b.baseURL + r.Path)
	if r.Token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+r.Token)
	}
	if r.RequestID != "" {
		req.Header.Set(fiber.HeaderXRequestID, r.RequestID)
	}
	if b.timeout > 0 {
		a.Timeout(b.timeout)
	}

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, &unavailableError{cause: err}
	}

	if r.Form != nil {
		args := fiber.AcquireArgs()
		defer fiber.ReleaseArgs(args)
		if err := attachForm(a, args, r.Form, r.Strip); err != nil {
			fiber.ReleaseAgent(a)
			return nil, fmt.Errorf("failed to encode form for %s: %w", r.Path, err)
		}
	} else {
		if r.ContentType != "" {
			req.Header.SetContentType(r.ContentType)
		}
		if len(r.Body) > 0 {
			req.SetBody(r.Body)
		}
	}

	// Bytes releases the agent.
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		log.Printf("Backend %s %s failed: %v", r.Method, r.Path, errs[0])
		return nil, &unavailableError{cause: errs[0]}
	}
	return &Response{Status: code, Body: body}, nil
}

func attachForm(a *fiber.Agent, args *fiber.Args, form *multipart.Form, strip []string) error {
	skip := make(map[string]bool, len(strip))
	for _, s := range strip {
		skip[s] = true
	}

	for _, key := range sortedKeys(form.Value) {
		if skip[key] {
			continue
		}
		for _, v := range form.Value[key] {
			args.Add(key, v)
		}
	}

	var files []*fiber.FormFile
	for _, key := range sortedKeys(form.File) {
		if skip[key] {
			continue
		}
		for _, fh := range form.File[key] {
			content, err := readFile(fh)
			if err != nil {
				return err
			}
			files = append(files, &fiber.FormFile{Fieldname: key, Name: fh.Filename, Content: content})
		}
	}

	// FileData must precede MultipartForm, which writes the whole body.
	if len(files) > 0 {
		a.FileData(files...)
	}
	a.MultipartForm(args)
	return nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
