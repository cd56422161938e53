package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chiyasathi/internal/config"
	"chiyasathi/internal/models"
	"chiyasathi/internal/services"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(baseURL string) config.Config {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("API_BASE_URL", baseURL)
	v.Set("BACKEND_TIMEOUT", "2s")
	return config.FromViper(v)
}

func TestHealth(t *testing.T) {
	app := NewApp(testConfig("http://127.0.0.1:5000/api"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "http://127.0.0.1:5000/api", body["backend"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestOrdersRequireSession(t *testing.T) {
	var hits int
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		io.WriteString(w, `{"data":[]}`)
	}))
	defer backend.Close()

	app := NewApp(testConfig(backend.URL + "/api"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, hits)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, hits)
}

func TestLogOrderEvent(t *testing.T) {
	body, err := json.Marshal(services.Notification{
		OrderID:    "o-1",
		Kind:       services.KindReady,
		Transition: &services.Transition{From: models.StatusPreparing, To: models.StatusReady},
		Message:    "Order Ready! Head to the counter",
		At:         time.Now(),
	})
	require.NoError(t, err)

	assert.NoError(t, logOrderEvent(amqp.Delivery{Body: body}))
	assert.Error(t, logOrderEvent(amqp.Delivery{Body: []byte("not json")}))
}
