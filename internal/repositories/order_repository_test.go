package repositories_test

import (
	"context"
	"encoding/json"
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

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestMockOrderRepository(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, models.OrderRequest{
		TableID:     "T1",
		Items:       []models.OrderItem{{MenuItemID: "a", Name: "Tea", Price: 50, Quantity: 2}},
		TotalAmount: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, first.Status)
	assert.NotEmpty(t, first.ID)

	time.Sleep(time.Millisecond)
	second, err := repo.Create(ctx, models.OrderRequest{TableID: "T2", TotalAmount: 30})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, models.StatusServed))
	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusServed, got.Status)
	assert.Equal(t, int64(100), got.TotalAmount, "status change keeps total")

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.Error(t, err)
	assert.Error(t, repo.Delete(ctx, "missing"))
}

func TestAPIOrderRepository(t *testing.T) {
	var gotStatus models.StatusUpdate
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/orders":
			io.WriteString(w, `{"data":[{"_id":"o-1","tableId":"T1","status":"pending","totalAmount":130}]}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/orders/o-1":
			io.WriteString(w, `{"data":{"_id":"o-1","status":"ready"}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/orders":
			var req models.OrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"data": models.Order{
				ID: "o-2", TableID: req.TableID, Items: req.Items, TotalAmount: req.TotalAmount, Status: models.StatusPending,
			}})
		case r.Method == http.MethodPut && r.URL.Path == "/api/orders/o-1/status":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotStatus))
			io.WriteString(w, `{"data":{"_id":"o-1","status":"preparing"}}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/orders/o-1":
			io.WriteString(w, `{"ok":true}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Order not found"}`)
		}
	}))
	defer srv.Close()

	repo := repositories.NewAPIOrderRepository(client.New(srv.URL+"/api", time.Second, staticToken("tok")))
	ctx := context.Background()

	orders, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(130), orders[0].TotalAmount)

	order, err := repo.GetByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, order.Status)

	created, err := repo.Create(ctx, models.OrderRequest{
		TableID:     "T1",
		Items:       []models.OrderItem{{MenuItemID: "a", Name: "Tea", Price: 50, Quantity: 2}},
		TotalAmount: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "o-2", created.ID)
	assert.Equal(t, models.StatusPending, created.Status)

	require.NoError(t, repo.UpdateStatus(ctx, "o-1", models.StatusPreparing))
	assert.Equal(t, models.StatusPreparing, gotStatus.Status)

	require.NoError(t, repo.Delete(ctx, "o-1"))

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Contains(t, err.Error(), "Order not found")
}
