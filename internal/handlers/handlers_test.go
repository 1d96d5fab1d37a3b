package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hotel_platform_backend/internal/middleware"
	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/repositories"
	"hotel_platform_backend/internal/services"
	"hotel_platform_backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := utils.InitJWT("handlers-test-secret-key", time.Hour); err != nil {
		panic(err)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.APIError `json:"error"`
}

type testServer struct {
	engine    *gin.Engine
	overrides *repositories.MemoryPriceOverrideRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	catalog := repositories.NewSeededCatalog(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	overrides := repositories.NewMemoryPriceOverrideRepository()

	pricing := NewPriceOverrideHandler(services.NewPricingService(overrides, services.NewPriceCatalog(catalog)))
	search := NewSearchHandler(services.NewSearchService(catalog,
		services.WithClock(func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) })))

	r := gin.New()
	r.GET("/search", search.Search)
	r.GET("/admin/search", middleware.AuthMiddleware(), search.AdminSearch)

	po := r.Group("/price-overrides", middleware.AuthMiddleware(),
		middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager), middleware.BranchScopeMiddleware())
	po.GET("", pricing.ListOverrides)
	po.POST("", pricing.SetPrice)
	po.GET("/effective", pricing.GetEffectivePrice)
	po.POST("/bulk", pricing.BulkAdjust)
	po.GET("/audit", pricing.GetAuditLog)
	po.PATCH("/:id/toggle", pricing.ToggleOverride)
	po.DELETE("/:id", pricing.RemoveOverride)
	r.POST("/quote", middleware.AuthMiddleware(), middleware.BranchScopeMiddleware(), pricing.Quote)

	return &testServer{engine: r, overrides: overrides}
}

func bearer(t *testing.T, role, branch string) string {
	t.Helper()
	tok, err := utils.GenerateAccessToken(1, "tester", "Jean Mugisha", role, branch)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %q: %v", env.Data, err)
		}
	}
	return env
}
