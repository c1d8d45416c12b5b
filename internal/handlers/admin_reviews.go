package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawpopart/pawpop-fulfillment/internal/review"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

type ReviewHandler struct {
	store     *review.Store
	processor *review.Processor
}

func NewReviewHandler(store *review.Store, processor *review.Processor) *ReviewHandler {
	return &ReviewHandler{
		store:     store,
		processor: processor,
	}
}

type createReviewRequest struct {
	ArtworkID           string `json:"artworkId"`
	ReviewType          string `json:"reviewType"`
	ImageURL            string `json:"imageUrl"`
	SourceGenerationURL string `json:"sourceGenerationUrl"`
	CustomerName        string `json:"customerName"`
	CustomerEmail       string `json:"customerEmail"`
	PetName             string `json:"petName"`
}

// CreateReview opens a review for an artwork. Idempotent: a duplicate
// request returns the already-pending review.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.ArtworkID == "" || req.ReviewType == "" || req.ImageURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "artworkId, reviewType and imageUrl are required")
	}

	created, err := h.store.CreateReview(c.Request().Context(), review.CreateParams{
		ArtworkID:           req.ArtworkID,
		ReviewType:          req.ReviewType,
		ImageURL:            req.ImageURL,
		SourceGenerationURL: req.SourceGenerationURL,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		PetName:             req.PetName,
	})
	if err != nil {
		if errors.Is(err, review.ErrUnknownType) {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown review type")
		}
		slog.Error("failed to create review", "artwork_id", req.ArtworkID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create review")
	}
	if created == nil {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"skipped": true,
			"reason":  "human review is disabled",
		})
	}

	return c.JSON(http.StatusCreated, reviewJSON(*created))
}

// ListReviews returns pending reviews, optionally filtered with ?type=.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	rows, err := h.store.ListPending(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		if errors.Is(err, review.ErrUnknownType) {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown review type")
		}
		slog.Error("failed to list reviews", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list reviews")
	}

	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = pendingReviewJSON(r)
	}
	return c.JSON(http.StatusOK, map[string]any{"reviews": out})
}

func (h *ReviewHandler) GetReview(c echo.Context) error {
	row, err := h.store.Get(c.Request().Context(), c.Param("reviewId"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Review not found")
		}
		slog.Error("failed to load review", "review_id", c.Param("reviewId"), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load review")
	}

	out := reviewJSON(db.AdminReview{
		ID:                  row.ID,
		ArtworkID:           row.ArtworkID,
		ReviewType:          row.ReviewType,
		Status:              row.Status,
		ImageUrl:            row.ImageUrl,
		SourceGenerationUrl: row.SourceGenerationUrl,
		CustomerName:        row.CustomerName,
		CustomerEmail:       row.CustomerEmail,
		PetName:             row.PetName,
		ReviewNotes:         row.ReviewNotes,
		ReviewedBy:          row.ReviewedBy,
		ReviewedAt:          row.ReviewedAt,
		CreatedAt:           row.CreatedAt,
	})
	out["artworkToken"] = row.ArtworkToken
	return c.JSON(http.StatusOK, out)
}

type processReviewRequest struct {
	Status     string `json:"status"`
	ReviewedBy string `json:"reviewedBy"`
	Notes      string `json:"notes"`
}

// ProcessReview applies an approve/reject decision. A review that is no
// longer pending yields 409: decisions are first-wins.
func (h *ReviewHandler) ProcessReview(c echo.Context) error {
	var req processReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Status != review.StatusApproved && req.Status != review.StatusRejected {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be approved or rejected")
	}

	err := h.processor.ProcessReview(c.Request().Context(), review.Decision{
		ReviewID:   c.Param("reviewId"),
		Status:     req.Status,
		ReviewedBy: req.ReviewedBy,
		Notes:      req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, review.ErrNotPending):
			return echo.NewHTTPError(http.StatusConflict, "Review was already processed")
		case errors.Is(err, sql.ErrNoRows):
			return echo.NewHTTPError(http.StatusNotFound, "Review not found")
		}
		slog.Error("failed to process review", "review_id", c.Param("reviewId"), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process review")
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "status": req.Status})
}

func reviewJSON(r db.AdminReview) map[string]any {
	out := map[string]any{
		"reviewId":      r.ID,
		"artworkId":     r.ArtworkID,
		"reviewType":    r.ReviewType,
		"status":        r.Status,
		"imageUrl":      r.ImageUrl,
		"customerName":  r.CustomerName,
		"customerEmail": r.CustomerEmail,
		"createdAt":     r.CreatedAt,
	}
	if r.PetName.Valid {
		out["petName"] = r.PetName.String
	}
	if r.SourceGenerationUrl.Valid {
		out["sourceGenerationUrl"] = r.SourceGenerationUrl.String
	}
	if r.ReviewedBy.Valid {
		out["reviewedBy"] = r.ReviewedBy.String
	}
	if r.ReviewNotes.Valid {
		out["reviewNotes"] = r.ReviewNotes.String
	}
	if r.ReviewedAt.Valid {
		out["reviewedAt"] = r.ReviewedAt.Time
	}
	return out
}

func pendingReviewJSON(r db.ListPendingReviewsRow) map[string]any {
	out := map[string]any{
		"reviewId":      r.ID,
		"artworkId":     r.ArtworkID,
		"artworkToken":  r.ArtworkToken,
		"reviewType":    r.ReviewType,
		"status":        r.Status,
		"imageUrl":      r.ImageUrl,
		"customerName":  r.CustomerName,
		"customerEmail": r.CustomerEmail,
		"createdAt":     r.CreatedAt,
	}
	if r.PetName.Valid {
		out["petName"] = r.PetName.String
	}
	return out
}
