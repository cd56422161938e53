package repositories

import (
	"context"

	"chiyasathi/internal/models"
)

// UserRepository defines the account operations offered by the backend.
type UserRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (token string, user *models.User, err error)
	Register(ctx context.Context, fields map[string]string, picture *models.Upload) (*models.User, error)
	UpdateProfilePicture(ctx context.Context, picture models.Upload) (*models.User, error)
}
