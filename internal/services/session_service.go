package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"chiyasathi/internal/models"
	"chiyasathi/internal/repositories"
)

// Keys under which the session is persisted.
const (
	KeyToken       = "auth_token"
	KeyUser        = "auth_user"
	KeyRole        = "userRole"
	KeyTable       = "tableId"
	KeyTheme       = "theme"
	KeyCafeName    = "cafeName"
	KeyCafeAddress = "cafeAddress"
)

// sessionKeys are cleared together on logout.
var sessionKeys = []string{KeyToken, KeyUser, KeyRole, KeyTable, KeyTheme, KeyCafeName, KeyCafeAddress}

// Theme is the display preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Session holds the signed-in user, role and table. It is created once,
// loaded with Init, and passed to every service that needs it.
type Session struct {
	store repositories.StateRepository

	mu          sync.RWMutex
	token       string
	user        *models.User
	role        models.Role
	tableID     string
	theme       Theme
	cafeName    string
	cafeAddress string
}

// NewSession creates a new Session backed by store.
func NewSession(store repositories.StateRepository) *Session {
	return &Session{store: store, role: models.RoleCustomer, theme: ThemeSystem}
}

// Init reads the persisted state once.
func (s *Session) Init() error {
	values := make(map[string]string, len(sessionKeys))
	for _, k := range sessionKeys {
		v, ok, err := s.store.Get(k)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if ok {
			values[k] = v
		}
	}

	var user *models.User
	if raw := values[KeyUser]; raw != "" {
		user = new(models.User)
		if err := json.Unmarshal([]byte(raw), user); err != nil {
			return fmt.Errorf("failed to decode stored user: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = values[KeyToken]
	s.user = user
	s.role = models.ParseRole(values[KeyRole])
	s.tableID = values[KeyTable]
	s.theme = parseTheme(values[KeyTheme])
	s.cafeName = values[KeyCafeName]
	s.cafeAddress = values[KeyCafeAddress]
	return nil
}

// Login stores the credential and profile returned by a successful login.
func (s *Session) Login(token string, user *models.User) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrUnauthorized)
	}
	role := models.RoleCustomer
	var rawUser []byte
	if user != nil {
		role = models.ParseRole(string(user.Role))
		var err error
		if rawUser, err = json.Marshal(user); err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(KeyToken, token); err != nil {
		return err
	}
	if rawUser != nil {
		if err := s.store.Set(KeyUser, string(rawUser)); err != nil {
			return err
		}
	} else if err := s.store.Delete(KeyUser); err != nil {
		return err
	}
	if err := s.store.Set(KeyRole, string(role)); err != nil {
		return err
	}
	s.token, s.user, s.role = token, user, role
	return nil
}

// Logout clears every persisted key, the table included.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(sessionKeys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.token, s.user, s.role = "", nil, models.RoleCustomer
	s.tableID, s.theme, s.cafeName, s.cafeAddress = "", ThemeSystem, "", ""
	return nil
}

// Token implements client.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is stored.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// User returns a copy of the stored profile, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Role returns the stored role, customer when none was stored.
func (s *Session) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// IsOwner reports whether the signed-in user is a cafe owner.
func (s *Session) IsOwner() bool {
	return s.Role() == models.RoleOwner
}

// TableID returns the customer's table label, or "".
func (s *Session) TableID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tableID
}

// SetTable stores the customer's table label.
func (s *Session) SetTable(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: table number is required", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(KeyTable, id); err != nil {
		return err
	}
	s.tableID = id
	return nil
}

// ResetTable forgets the table; the session itself stays valid.
func (s *Session) ResetTable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(KeyTable); err != nil {
		return err
	}
	s.tableID = ""
	return nil
}

// Theme returns the display preference.
func (s *Session) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme stores t, which must be light, dark or system.
func (s *Session) SetTheme(t Theme) error {
	if parseTheme(string(t)) != t {
		return fmt.Errorf("%w: unknown theme %q", ErrValidation, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(KeyTheme, string(t)); err != nil {
		return err
	}
	s.theme = t
	return nil
}

// SetCafe stores the owner's cafe details shown on the dashboard.
func (s *Session) SetCafe(name, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(KeyCafeName, name); err != nil {
		return err
	}
	if err := s.store.Set(KeyCafeAddress, address); err != nil {
		return err
	}
	s.cafeName, s.cafeAddress = name, address
	return nil
}

// Cafe returns the stored cafe name and address.
func (s *Session) Cafe() (name, address string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cafeName, s.cafeAddress
}

func parseTheme(v string) Theme {
	switch Theme(v) {
	case ThemeLight, ThemeDark:
		return Theme(v)
	default:
		return ThemeSystem
	}
}
