package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawpopart/pawpop-fulfillment/internal/printify"
)

type MockupHandler struct {
	generator *printify.Generator
}

func NewMockupHandler(generator *printify.Generator) *MockupHandler {
	return &MockupHandler{generator: generator}
}

type generateMockupsRequest struct {
	ArtworkID string `json:"artworkId"`
	ImageURL  string `json:"imageUrl"`
}

// GenerateMockups renders the artwork onto every physical product. Returns
// 200 with fallback mockups when the provider is unavailable; the purchase
// flow must not block on provider health.
func (h *MockupHandler) GenerateMockups(c echo.Context) error {
	var req generateMockupsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.ArtworkID == "" || req.ImageURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "artworkId and imageUrl are required")
	}

	mockups, err := h.generator.GenerateMockups(c.Request().Context(), req.ArtworkID, req.ImageURL)
	if err != nil {
		slog.Error("mockup generation failed", "artwork_id", req.ArtworkID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate mockups")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"mockups": mockups,
	})
}
