package services

import (
	"context"
	"fmt"
	"log"

	"chiyasathi/internal/models"
	"chiyasathi/internal/repositories"
	"chiyasathi/internal/validation"

	"github.com/go-playground/validator/v10"
)

// AuthService signs users in and out and keeps the Session in step.
type AuthService struct {
	userRepo repositories.UserRepository
	session  *Session
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, session *Session) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		session:  session,
		validate: validation.New(),
	}
}

// Login checks the credentials locally, signs in and stores the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := s.check(req); err != nil {
		return nil, err
	}

	token, user, err := s.userRepo.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.session.Login(token, user); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	log.Printf("Signed in %s as %s", email, s.session.Role())
	return user, nil
}

// Register validates the role-specific form and creates the account. The
// password confirmation is sent along for the forwarding server to strip.
func (s *AuthService) Register(ctx context.Context, reg models.Registration, picture *models.Upload) (*models.User, error) {
	if err := s.check(reg); err != nil {
		return nil, err
	}

	fields := reg.Fields()
	fields["confirmPassword"] = confirmationOf(reg)
	user, err := s.userRepo.Register(ctx, fields, picture)
	if err != nil {
		return nil, err
	}
	if owner, ok := reg.(*models.OwnerRegistration); ok {
		if err := s.session.SetCafe(owner.CafeName, owner.CafeAddress); err != nil {
			log.Printf("Warning: could not store cafe details: %v", err)
		}
	}
	return user, nil
}

// UpdateProfilePicture uploads a new picture for the signed-in user.
func (s *AuthService) UpdateProfilePicture(ctx context.Context, picture models.Upload) (*models.User, error) {
	if !s.session.Authenticated() {
		return nil, ErrUnauthorized
	}
	return s.userRepo.UpdateProfilePicture(ctx, picture)
}

// Logout clears the whole session.
func (s *AuthService) Logout() error {
	return s.session.Logout()
}

func (s *AuthService) check(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		if msgs := validation.Messages(err); msgs != nil {
			return FieldErrors(msgs)
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func confirmationOf(reg models.Registration) string {
	switch r := reg.(type) {
	case *models.CustomerRegistration:
		return r.ConfirmPassword
	case *models.OwnerRegistration:
		return r.ConfirmPassword
	}
	return ""
}
