package repositories_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chiyasathi/internal/client"
	"chiyasathi/internal/models"
	"chiyasathi/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIMenuRepository_CreateSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			io.WriteString(w, `{"data":[{"_id":"1","name":"Masala Tea","price":60,"category":"Tea","image":null}]}`)
			return
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Momo", r.FormValue("name"))
		assert.Equal(t, "180", r.FormValue("price"))
		assert.Equal(t, "Snacks", r.FormValue("category"))
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "momo.jpg", hdr.Filename)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"data":{"_id":"9","name":"Momo","price":180,"category":"Snacks","image":"/uploads/momo.jpg"}}`)
	}))
	defer srv.Close()

	repo := repositories.NewAPIMenuRepository(client.New(srv.URL, time.Second, staticToken("tok")))

	items, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Image)

	item, err := repo.Create(context.Background(), models.MenuForm{
		Name:     "Momo",
		Price:    180,
		Category: models.CategorySnacks,
		Image:    &models.Upload{Filename: "momo.jpg", ContentType: "image/jpeg", Content: []byte("jpeg")},
	})
	require.NoError(t, err)
	assert.Equal(t, "9", item.ID)
	assert.Equal(t, "/uploads/momo.jpg", *item.Image)
}
