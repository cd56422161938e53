package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"chiyasathi/internal/client"
	"chiyasathi/internal/models"
)

// APIUserRepository implements UserRepository over the ordering API.
type APIUserRepository struct {
	api *client.Client
}

// NewAPIUserRepository creates a new instance of APIUserRepository.
func NewAPIUserRepository(api *client.Client) *APIUserRepository {
	return &APIUserRepository{api: api}
}

// Login accepts both the backend envelope {token, data} and the forwarding
// server's {ok, token, user}.
func (r *APIUserRepository) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	var resp struct {
		Token string          `json:"token"`
		Data  json.RawMessage `json:"data"`
		User  json.RawMessage `json:"user"`
	}
	if err := r.api.SendJSONRaw(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return "", nil, fmt.Errorf("failed to log in %s: %w", req.Email, err)
	}
	if resp.Token == "" {
		return "", nil, fmt.Errorf("login for %s returned no token", req.Email)
	}

	raw := resp.User
	if isNull(raw) {
		raw = resp.Data
	}
	var user models.User
	if !isNull(raw) {
		if err := json.Unmarshal(raw, &user); err != nil {
			return "", nil, fmt.Errorf("failed to decode user for %s: %w", req.Email, err)
		}
	}
	return resp.Token, &user, nil
}

// Register creates an account from a multipart form.
func (r *APIUserRepository) Register(ctx context.Context, fields map[string]string, picture *models.Upload) (*models.User, error) {
	var files []client.Upload
	if picture != nil {
		files = append(files, uploadFor("profilePicture", *picture))
	}
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := r.api.SendMultipart(ctx, http.MethodPost, "/auth/register", fields, files, &resp); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", fields["email"], err)
	}
	return resp.User, nil
}

// UpdateProfilePicture replaces the signed-in user's picture.
func (r *APIUserRepository) UpdateProfilePicture(ctx context.Context, picture models.Upload) (*models.User, error) {
	var resp struct {
		Data *models.User `json:"data"`
	}
	files := []client.Upload{uploadFor("profilePicture", picture)}
	if err := r.api.SendMultipart(ctx, http.MethodPut, "/auth/profile-picture", nil, files, &resp); err != nil {
		return nil, fmt.Errorf("failed to update profile picture: %w", err)
	}
	return resp.Data, nil
}

func uploadFor(field string, u models.Upload) client.Upload {
	return client.Upload{Field: field, Filename: u.Filename, ContentType: u.ContentType, Content: u.Content}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
