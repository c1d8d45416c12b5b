package service

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pawpopart/pawpop-fulfillment/storage"
)

// setupTestService creates a service instance with an in-memory database.
// External providers are unconfigured, so fulfillment degrades to fallbacks.
func setupTestService(t *testing.T) *Service {
	t.Helper()

	database, queries, cleanup, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(cleanup)

	store := storage.NewTestStorage(database, queries)

	config := &Config{
		Environment: "test",
		Port:        "8080",
		BaseURL:     "http://localhost:8080",
	}
	config.Admin.APIKey = "test-admin-key"
	config.Review.EnableHumanReview = true

	svc := New(store, config)
	t.Cleanup(svc.Shutdown)

	return svc
}

// setupTestEcho creates an Echo instance with all routes registered.
func setupTestEcho(t *testing.T) (*echo.Echo, *Service) {
	t.Helper()

	e := echo.New()
	svc := setupTestService(t)
	svc.RegisterRoutes(e)

	return e, svc
}
