package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/ai"
	"github.com/spec-kit/ticket-classifier/internal/api/http/handlers"
	"github.com/spec-kit/ticket-classifier/internal/auth"
	"github.com/spec-kit/ticket-classifier/internal/config"
	"github.com/spec-kit/ticket-classifier/internal/domain"
	"github.com/spec-kit/ticket-classifier/internal/events"
	"github.com/spec-kit/ticket-classifier/internal/observability"
	"github.com/spec-kit/ticket-classifier/internal/repository"
	"github.com/spec-kit/ticket-classifier/internal/service"
)

type toggleClassifier struct {
	fail   bool
	result ai.ClassificationResult
}

func (c *toggleClassifier) Name() string { return "toggle" }

func (c *toggleClassifier) Classify(context.Context, ai.TicketInput) (ai.ClassificationResult, error) {
	if c.fail {
		return ai.ClassificationResult{}, errors.New("provider unavailable")
	}
	return c.result, nil
}

type testServer struct {
	app        *fiber.App
	classifier *toggleClassifier
	token      string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics("test")
	classifier := &toggleClassifier{result: ai.ClassificationResult{
		Category:   domain.TicketCategoryBilling,
		Priority:   domain.TicketPriorityHigh,
		Confidence: 0.92,
		Reasoning:  "mentions an invoice",
	}}

	ticketRepo := repository.NewMemoryTicketRepository()
	userRepo := repository.NewMemoryUserRepository()
	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: 4}, userRepo, logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		Classifier:   service.NewClassificationService(classifier, metrics, logger),
		Dispatcher:   events.NewInMemoryDispatcher(),
		Logger:       logger,
		MaxListLimit: 100,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("ticket-classifier", "test", handlers.Dependency{Name: "storage", Pinger: ticketRepo}),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
		Metrics:        metrics,
	})

	_, token, _, err := authService.Register(context.Background(), "agent", "agent@example.com", "s3cret-pass")
	require.NoError(t, err)
	return &testServer{app: app, classifier: classifier, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any, authed bool) (int, map[string]any) {
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
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func (s *testServer) createTicket(t *testing.T, title string) map[string]any {
	t.Helper()
	status, body := s.do(t, nethttp.MethodPost, "/tickets", map[string]string{
		"title": title, "description": "I was charged twice on my invoice",
	}, true)
	require.Equal(t, nethttp.StatusCreated, status)
	return body["data"].(map[string]any)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, nethttp.MethodGet, "/health/live", nil, false)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, nethttp.MethodGet, "/health/ready", nil, false)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadinessWithFailingDependencies(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		deps       []handlers.Dependency
		wantStatus int
	}{
		{
			name: "optional redis down",
			deps: []handlers.Dependency{
				{Name: "storage", Pinger: up},
				{Name: "redis", Pinger: down, Optional: true},
			},
			wantStatus: nethttp.StatusOK,
		},
		{
			name: "storage down",
			deps: []handlers.Dependency{
				{Name: "storage", Pinger: down},
				{Name: "redis", Pinger: up, Optional: true},
			},
			wantStatus: nethttp.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			RegisterMiddlewares(app, zap.NewNop(), nil, 0)
			health := handlers.NewHealthHandler("ticket-classifier", "test", tt.deps...)
			app.Get("/health/ready", health.Ready)

			resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health/ready", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.wantStatus == nethttp.StatusOK {
				assert.Equal(t, "degraded", body["status"])
				deps := body["dependencies"].(map[string]any)
				assert.Equal(t, "ok", deps["storage"])
				assert.Contains(t, deps["redis"], "degraded")
			} else {
				assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
			}
		})
	}
}

func TestTicketsRequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, nethttp.MethodGet, "/tickets", nil, false)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestCreateAndGetTicket(t *testing.T) {
	s := newTestServer(t)

	created := s.createTicket(t, "Double charge")
	assert.Equal(t, "OPEN", created["status"])
	assert.Equal(t, "BILLING", created["category"])
	classification := created["classification"].(map[string]any)
	assert.Equal(t, "HIGH", classification["priority"])
	assert.InDelta(t, 0.92, classification["confidence"], 1e-9)
	assert.Equal(t, "mentions an invoice", classification["reasoning"])

	id := created["id"].(string)
	status, body := s.do(t, nethttp.MethodGet, "/tickets/"+id, nil, true)
	require.Equal(t, nethttp.StatusOK, status)
	fetched := body["data"].(map[string]any)["classification"].(map[string]any)
	assert.Equal(t, "BILLING", fetched["category"])
	assert.Equal(t, 0.0, fetched["confidence"])
	assert.Equal(t, "", fetched["reasoning"])
}

func TestCreateTicketValidation(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, nethttp.MethodPost, "/tickets", map[string]string{"title": "", "description": "x"}, true)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestCreateTicketClassificationFailure(t *testing.T) {
	s := newTestServer(t)
	s.classifier.fail = true

	status, body := s.do(t, nethttp.MethodPost, "/tickets", map[string]string{"title": "a", "description": "b"}, true)
	assert.Equal(t, nethttp.StatusInternalServerError, status)
	assert.Equal(t, "CLASSIFICATION_FAILED", errorCode(body))
}

func TestGetMissingTicket(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, nethttp.MethodGet, "/tickets/unknown", nil, true)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestListTickets(t *testing.T) {
	s := newTestServer(t)
	s.createTicket(t, "first")
	s.createTicket(t, "second")

	status, body := s.do(t, nethttp.MethodGet, "/tickets?limit=1&offset=0", nil, true)
	require.Equal(t, nethttp.StatusOK, status)
	items := body["data"].([]any)
	require.Len(t, items, 1)
	_, hasDetail := items[0].(map[string]any)["classification"]
	assert.False(t, hasDetail)

	status, body = s.do(t, nethttp.MethodGet, "/tickets?offset=-4", nil, true)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, float64(service.DefaultListLimit), body["limit"])
	assert.Equal(t, 0.0, body["offset"])
	assert.Len(t, body["data"].([]any), 2)

	status, body = s.do(t, nethttp.MethodGet, "/tickets?limit=abc", nil, true)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestUpdateStatusEndpoint(t *testing.T) {
	s := newTestServer(t)
	id := s.createTicket(t, "status flow")["id"].(string)

	status, body := s.do(t, nethttp.MethodPatch, "/tickets/"+id+"/status", map[string]string{"status": "in_progress"}, true)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "IN_PROGRESS", body["data"].(map[string]any)["status"])

	status, body = s.do(t, nethttp.MethodPatch, "/tickets/"+id+"/status", map[string]string{"status": "CLOSED"}, true)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "IN_PROGRESS", details["from"])
	assert.Equal(t, "CLOSED", details["to"])

	status, body = s.do(t, nethttp.MethodPatch, "/tickets/"+id+"/status", map[string]string{"status": "DONE"}, true)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, _ = s.do(t, nethttp.MethodPatch, "/tickets/missing/status", map[string]string{"status": "CLOSED"}, true)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestReclassifyAndDelete(t *testing.T) {
	s := newTestServer(t)
	id := s.createTicket(t, "reclassify me")["id"].(string)

	s.classifier.result = ai.ClassificationResult{
		Category: domain.TicketCategoryGeneral, Priority: domain.TicketPriorityUrgent, Confidence: 0.4,
	}
	status, body := s.do(t, nethttp.MethodPost, "/tickets/"+id+"/reclassify", nil, true)
	require.Equal(t, nethttp.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "GENERAL", data["category"])
	assert.Equal(t, "LOW", data["priority"])

	status, _ = s.do(t, nethttp.MethodPost, "/tickets/missing/reclassify", nil, true)
	assert.Equal(t, nethttp.StatusNotFound, status)

	status, _ = s.do(t, nethttp.MethodDelete, "/tickets/"+id, nil, true)
	assert.Equal(t, nethttp.StatusNoContent, status)

	status, _ = s.do(t, nethttp.MethodDelete, "/tickets/"+id, nil, true)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, nethttp.MethodPost, "/auth/login", map[string]string{"username": "agent", "password": "s3cret-pass"}, false)
	require.Equal(t, nethttp.StatusOK, status)
	assert.NotEmpty(t, body["data"].(map[string]any)["token"])

	status, body = s.do(t, nethttp.MethodPost, "/auth/login", map[string]string{"username": "agent", "password": "nope-nope"}, false)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = s.do(t, nethttp.MethodPost, "/auth/register", map[string]string{"username": "agent", "password": "another-pass"}, false)
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, _ = s.do(t, nethttp.MethodPost, "/auth/register", map[string]string{"username": "second", "password": "another-pass"}, false)
	assert.Equal(t, nethttp.StatusCreated, status)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.createTicket(t, "count me")

	req := httptest.NewRequest(nethttp.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "test_ticket_classifications_total")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/health/live", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get("X-Request-ID"), 26)

	req = httptest.NewRequest(nethttp.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "abc")
	resp, err = s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Header.Get("X-Request-ID"))
}
