package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/staff-presence/internal/api/http/handlers"
	"github.com/spec-kit/staff-presence/internal/auth"
	"github.com/spec-kit/staff-presence/internal/config"
	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/events"
	"github.com/spec-kit/staff-presence/internal/observability"
	"github.com/spec-kit/staff-presence/internal/presence"
	"github.com/spec-kit/staff-presence/internal/repository"
	"github.com/spec-kit/staff-presence/internal/service"
	"github.com/spec-kit/staff-presence/internal/store"
)

type testServer struct {
	app   *fiber.App
	store *store.Facade
	admin string
	staff string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: bcrypt.MinCost}}
	clock := service.Clock(func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) })

	adminHash, err := auth.HashPassword("AdminPass", bcrypt.MinCost)
	require.NoError(t, err)
	staffHash, err := auth.HashPassword("StaffPass", bcrypt.MinCost)
	require.NoError(t, err)

	facade := store.NewFacade(
		repository.NewMemoryStaffRepository(
			domain.Record{"id": "a1", "name": "Admin", "username": "admin", "passwordHash": adminHash, "role": "admin"},
			domain.Record{"id": "s1", "name": "Zul", "position": "Officer", "username": "zul", "passwordHash": staffHash, "role": "staff"},
		),
		repository.NewMemoryMovementRepository(
			domain.Record{"id": "m1", "staffId": "s1", "staffName": "Zul", "dateOut": "2024-06-09", "dateReturn": "2024-06-11", "location": "Tawau"},
		),
		store.FacadeOptions{},
	)
	dispatcher := events.NewInMemoryDispatcher(logger)
	reconciler := presence.NewReconciler(nil, logger, metrics)

	authService := service.NewAuthService(cfg, facade, logger)
	staffService := service.NewStaffService(cfg, facade, dispatcher, logger, clock)
	movementService := service.NewMovementService(facade, dispatcher, logger, clock)
	presenceService := service.NewPresenceService(facade, reconciler, logger, clock)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", map[string]handlers.Dependency{}),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(staffService),
		Movements:      handlers.NewMovementHandler(movementService),
		Presence:       handlers.NewPresenceHandler(presenceService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
	})

	srv := &testServer{app: app, store: facade}
	srv.admin = srv.login(t, "admin", "AdminPass")
	srv.staff = srv.login(t, " ZUL ", "StaffPass")
	return srv
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	status, body := s.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, nethttp.StatusOK, status)
	data := body["data"].(map[string]any)
	return data["auth"].(map[string]any)["token"].(string)
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestLoginFailures(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{"username": "zul", "password": "staffpass"})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = srv.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{"username": "zul"})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestDashboardReconciles(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, nethttp.MethodGet, "/presence/dashboard", srv.staff, nil)
	require.Equal(t, nethttp.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "2024-06-10", data["date"])
	assert.EqualValues(t, 2, data["total"])
	assert.EqualValues(t, 1, data["out"])

	rows := data["staff"].([]any)
	zul := rows[1].(map[string]any)
	assert.Equal(t, string(domain.StatusOutOfOffice), zul["status"])
	assert.Equal(t, "Tawau", zul["movement"].(map[string]any)["location"])
}

func TestSearchByDate(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, nethttp.MethodGet, "/presence/search?date=2024-06-12&q=off", srv.staff, nil)
	require.Equal(t, nethttp.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["total"])
	assert.EqualValues(t, 0, data["out"])

	status, body = srv.do(t, nethttp.MethodGet, "/presence/search?date=yesterday", srv.staff, nil)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestCreateMovementValidation(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, nethttp.MethodPost, "/movements", srv.staff, map[string]string{
		"date_out": "2024-06-20", "date_return": "2024-06-18", "location": "Labuan", "purpose": "Audit",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = srv.do(t, nethttp.MethodPost, "/movements", srv.staff, map[string]string{
		"date_out": "2024-06-18", "date_return": "2024-06-20", "location": "Labuan", "purpose": "Audit",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	created := body["data"].(map[string]any)
	assert.Equal(t, "s1", created["staff_id"])
	assert.Equal(t, "Zul", created["staff_name"])

	status, body = srv.do(t, nethttp.MethodGet, "/movements/me", srv.staff, nil)
	require.Equal(t, nethttp.StatusOK, status)
	mine := body["data"].([]any)
	require.Len(t, mine, 2)
	first := mine[0].(map[string]any)
	assert.Equal(t, "2024-06-18", first["date_out"])
	assert.Equal(t, "UPCOMING", first["time_status"])
	assert.Equal(t, "18/06/2024", first["date_out_display"])
}

func TestAdminRoutes(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.do(t, nethttp.MethodGet, "/admin/staff", srv.staff, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, _ = srv.do(t, nethttp.MethodGet, "/admin/staff", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, body := srv.do(t, nethttp.MethodPost, "/admin/staff", srv.admin, map[string]string{
		"name": "Mei", "username": "mei", "password": "MeiPass", "position": "Analyst",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	created := body["data"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "IN_OFFICE", created["current_status"])
	assert.NotContains(t, created, "password_hash")

	status, body = srv.do(t, nethttp.MethodPut, "/admin/staff/"+id, srv.admin, map[string]string{"position": "Lead"})
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "Lead", body["data"].(map[string]any)["position"])

	status, body = srv.do(t, nethttp.MethodGet, "/admin/staff", srv.admin, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, body["data"].([]any), 3)

	status, _ = srv.do(t, nethttp.MethodDelete, "/admin/staff/"+id, srv.admin, nil)
	assert.Equal(t, nethttp.StatusNoContent, status)
	status, body = srv.do(t, nethttp.MethodDelete, "/admin/staff/"+id, srv.admin, nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = srv.do(t, nethttp.MethodGet, "/admin/movements", srv.admin, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)

	status, _ = srv.do(t, nethttp.MethodDelete, "/admin/movements/m1", srv.admin, nil)
	assert.Equal(t, nethttp.StatusNoContent, status)

	status, body = srv.do(t, nethttp.MethodPost, "/admin/sync", srv.admin, nil)
	require.Equal(t, nethttp.StatusAccepted, status)
	assert.EqualValues(t, 0, body["data"].(map[string]any)["out"])
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, nethttp.MethodGet, "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, _ = srv.do(t, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)

	req := httptest.NewRequest(nethttp.MethodGet, "/metrics", nil)
	resp, err := srv.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "presence_http_requests_total")
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, nethttp.MethodGet, "/nope", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}
