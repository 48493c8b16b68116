package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	businessHandler "omnia-service/internal/handlers/business"
	datasetHandler "omnia-service/internal/handlers/dataset"
	importHandler "omnia-service/internal/handlers/imports"
	strategyHandler "omnia-service/internal/handlers/strategy"
	wsHandler "omnia-service/internal/handlers/websocket"
	"omnia-service/internal/middleware"
	"omnia-service/internal/pkg/jwt"
	"omnia-service/internal/repository/postgres"
	businessUsecase "omnia-service/internal/service/business"
	datasetUsecase "omnia-service/internal/service/dataset"
	generationUsecase "omnia-service/internal/service/generation"
	importUsecase "omnia-service/internal/service/imports"
	"omnia-service/internal/websocket"
	"omnia-service/internal/workspace"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// degradedRouter wires the API with every optional backend missing.
func degradedRouter(verifier *jwt.Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	businesses := postgres.UnavailableBusinessRepository{}
	strategies := postgres.UnavailableStrategyRepository{}
	store := workspace.NewMemoryStore()
	hub := websocket.NewHub(verifier, logger)

	businessService := businessUsecase.NewBusinessService(businesses, strategies, store, hub, logger)
	generationService := generationUsecase.NewGenerationService(businesses, strategies, store, nil, hub, time.Second, logger)
	datasetService := datasetUsecase.NewDatasetService(postgres.UnavailableDatasetRepository{}, strategies, businesses, nil, logger)
	importService := importUsecase.NewImportService(businesses, businessService, logger)

	r := gin.New()
	r.Use(middleware.RecoveryMiddleware(logger))
	SetupRouter(r, logger, &Handlers{
		BusinessHandler: businessHandler.NewBusinessHandler(businessService),
		StrategyHandler: strategyHandler.NewStrategyHandler(generationService),
		DatasetHandler:  datasetHandler.NewDatasetHandler(datasetService),
		ImportHandler:   importHandler.NewImportHandler(importService),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, nil, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(verifier, logger),
	})
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_DegradedMode(t *testing.T) {
	r := degradedRouter(nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "health", method: http.MethodGet, path: "/api/v1/health", status: http.StatusOK},
		{name: "list businesses", method: http.MethodGet, path: "/api/v1/businesses", status: http.StatusServiceUnavailable},
		{name: "list dataset", method: http.MethodGet, path: "/api/v1/dataset", status: http.StatusServiceUnavailable},
		{name: "archive", method: http.MethodPost, path: "/api/v1/dataset/archive", status: http.StatusServiceUnavailable},
		{name: "template", method: http.MethodGet, path: "/api/v1/imports/templates/products", status: http.StatusOK},
		{name: "preview", method: http.MethodPost, path: "/api/v1/strategy/preview", body: `{"profile": {"nombreNegocio": "X"}}`, status: http.StatusOK},
		{
			name:   "generate with profile",
			method: http.MethodPost,
			path:   "/api/v1/businesses/b-1/strategy/generate",
			body:   `{"profile": {"nombreNegocio": "X", "businessType": "retail"}}`,
			status: http.StatusOK,
		},
		{name: "workspace", method: http.MethodGet, path: "/api/v1/businesses/b-1/workspace", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRouter_AuthEnabled(t *testing.T) {
	r := degradedRouter(jwt.NewVerifier("router-secret", ""))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/businesses", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/ws/stats", "").Code)

	token, _, err := jwt.NewGenerator("router-secret", "", time.Hour).Generate("user-1", "", nil)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/templates/tickets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ws/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
