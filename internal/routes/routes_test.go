package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
	"github.com/BruksfildServices01/detailing-scheduler/internal/db"
	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Storage:   config.StorageConfig{Driver: config.DriverMemory, Key: "appointments"},
		Admin:     config.AdminConfig{Password: "segredo", JWTSecret: "s3cr3t", SessionTTL: time.Hour},
		Booking:   config.BookingConfig{Timezone: "America/Sao_Paulo"},
		Notify:    config.NotifyConfig{BusinessName: "Carlach Detailing", CountryCode: "55"},
		RateLimit: config.RateLimitConfig{RPS: 0},
	}

	storage, err := db.Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r := gin.New()
	r.Use(middleware.RequestLogger(zerolog.Nop(), m))
	shutdown := RegisterRoutes(r, Deps{
		Config:   cfg,
		Storage:  storage,
		Log:      zerolog.Nop(),
		Metrics:  m,
		Registry: reg,
	})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, shutdown(ctx))
		assert.NoError(t, storage.Close())
	})
	return r
}

func call(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes_BookingToDashboard(t *testing.T) {
	r := newTestServer(t)

	d := time.Now().UTC().AddDate(0, 0, 3)
	for d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	date := d.Format("2006-01-02")

	w := call(r, http.MethodPost, "/api/bookings", `{
		"clientName": "Maria Silva",
		"phone": "(11) 98765-4321",
		"carModel": "Honda Civic",
		"plate": "ABC1234",
		"vehicleSize": "seda",
		"serviceType": "lavacao-basica-seda",
		"date": "`+date+`",
		"time": "09:00"
	}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(r, http.MethodGet, "/api/admin/appointments", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodPost, "/api/admin/login", `{"password":"segredo"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = call(r, http.MethodGet, "/api/admin/appointments", "", login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Maria Silva")

	w = call(r, http.MethodGet, "/api/appointments", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"plate":"ABC-1234"`)
}

func TestRoutes_AuditLogsOnlyWithPostgres(t *testing.T) {
	r := newTestServer(t)

	w := call(r, http.MethodPost, "/api/admin/login", `{"password":"segredo"}`, "")
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = call(r, http.MethodGet, "/api/admin/audit-logs", "", login.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_HealthMetricsAndCORS(t *testing.T) {
	r := newTestServer(t)

	w := call(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = call(r, http.MethodOptions, "/api/appointments", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = call(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "detailing_http_requests_total"))
}
