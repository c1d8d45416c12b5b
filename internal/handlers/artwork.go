package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/pawpopart/pawpop-fulfillment/internal/email"
	"github.com/pawpopart/pawpop-fulfillment/internal/outbox"
	"github.com/pawpopart/pawpop-fulfillment/internal/review"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

// ArtworkHandler manages artwork records through their generation lifecycle
// and serves the token-addressed customer view.
type ArtworkHandler struct {
	queries *db.Queries
	reviews *review.Store
	outbox  *outbox.Recorder
	baseURL string
}

func NewArtworkHandler(queries *db.Queries, reviews *review.Store, recorder *outbox.Recorder, baseURL string) *ArtworkHandler {
	return &ArtworkHandler{
		queries: queries,
		reviews: reviews,
		outbox:  recorder,
		baseURL: baseURL,
	}
}

type createArtworkRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	PetName         string `json:"petName"`
	SourcePetMomURL string `json:"sourcePetMomUrl"`
	SourcePetURL    string `json:"sourcePetUrl"`
}

func (h *ArtworkHandler) CreateArtwork(c echo.Context) error {
	var req createArtworkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.CustomerName == "" || req.CustomerEmail == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customerName and customerEmail are required")
	}

	artwork, err := h.queries.CreateArtwork(c.Request().Context(), db.CreateArtworkParams{
		ID:              ulid.Make().String(),
		AccessToken:     uuid.NewString(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		PetName:         sql.NullString{String: req.PetName, Valid: req.PetName != ""},
		GenerationStep:  "pending",
		UpscaleStatus:   "not_required",
		SourcePetMomUrl: sql.NullString{String: req.SourcePetMomURL, Valid: req.SourcePetMomURL != ""},
		SourcePetUrl:    sql.NullString{String: req.SourcePetURL, Valid: req.SourcePetURL != ""},
	})
	if err != nil {
		slog.Error("failed to create artwork", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create artwork")
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"artworkId":   artwork.ID,
		"accessToken": artwork.AccessToken,
	})
}

type updateArtworkRequest struct {
	GenerationStep   string `json:"generationStep"`
	PreviewImageURL  string `json:"previewImageUrl"`
	UpscaledImageURL string `json:"upscaledImageUrl"`
}

// UpdateArtwork advances the generation pipeline. When generation completes,
// the result goes to proof review when reviews are enabled, or straight to
// the customer when they are not.
func (h *ArtworkHandler) UpdateArtwork(c echo.Context) error {
	artworkID := c.Param("artworkId")
	var req updateArtworkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()
	artwork, err := h.queries.GetArtwork(ctx, artworkID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
		}
		slog.Error("failed to load artwork", "artwork_id", artworkID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load artwork")
	}

	if req.PreviewImageURL != "" {
		err := h.queries.UpdateArtworkPreviewImage(ctx, db.UpdateArtworkPreviewImageParams{
			PreviewImageUrl: sql.NullString{String: req.PreviewImageURL, Valid: true},
			ID:              artworkID,
		})
		if err != nil {
			slog.Error("failed to store preview image", "artwork_id", artworkID, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update artwork")
		}
	}
	if req.UpscaledImageURL != "" {
		err := h.queries.UpdateArtworkUpscaledImage(ctx, db.UpdateArtworkUpscaledImageParams{
			UpscaledImageUrl: sql.NullString{String: req.UpscaledImageURL, Valid: true},
			ID:               artworkID,
		})
		if err != nil {
			slog.Error("failed to store upscaled image", "artwork_id", artworkID, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update artwork")
		}
	}
	if req.GenerationStep != "" {
		err := h.queries.UpdateArtworkGenerationStep(ctx, db.UpdateArtworkGenerationStepParams{
			GenerationStep: req.GenerationStep,
			ID:             artworkID,
		})
		if err != nil {
			slog.Error("failed to update generation step", "artwork_id", artworkID, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update artwork")
		}

		if req.GenerationStep == "completed" {
			h.onGenerationCompleted(c, artwork, req.PreviewImageURL)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// onGenerationCompleted routes a finished artwork either into proof review
// or directly to the customer's inbox.
func (h *ArtworkHandler) onGenerationCompleted(c echo.Context, artwork db.Artwork, previewURL string) {
	ctx := c.Request().Context()
	if previewURL == "" && artwork.PreviewImageUrl.Valid {
		previewURL = artwork.PreviewImageUrl.String
	}

	if h.reviews.Enabled() {
		_, err := h.reviews.CreateReview(ctx, review.CreateParams{
			ArtworkID:     artwork.ID,
			ReviewType:    review.TypeArtworkProof,
			ImageURL:      previewURL,
			CustomerName:  artwork.CustomerName,
			CustomerEmail: artwork.CustomerEmail,
			PetName:       artwork.PetName.String,
		})
		if err != nil {
			slog.Error("failed to open proof review", "artwork_id", artwork.ID, "error", err)
		}
		return
	}

	h.outbox.Record(ctx, outbox.KindMasterpieceReadyEmail, "", artwork.ID, email.MasterpieceReadyData{
		CustomerName:  artwork.CustomerName,
		CustomerEmail: artwork.CustomerEmail,
		PetName:       artwork.PetName.String,
		ArtworkURL:    fmt.Sprintf("%s/artwork/%s", h.baseURL, artwork.AccessToken),
		PreviewURL:    previewURL,
	})
}

// GetArtworkByToken serves the customer-facing artwork page data. Access is
// by unguessable token, not ID.
func (h *ArtworkHandler) GetArtworkByToken(c echo.Context) error {
	ctx := c.Request().Context()
	artwork, err := h.queries.GetArtworkByToken(ctx, c.Param("token"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Artwork not found")
		}
		slog.Error("failed to load artwork by token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load artwork")
	}

	mockups, err := h.queries.ListArtworkMockups(ctx, artwork.ID)
	if err != nil {
		slog.Error("failed to load artwork mockups", "artwork_id", artwork.ID, "error", err)
	}

	mockupJSON := make([]map[string]any, len(mockups))
	for i, m := range mockups {
		mockupJSON[i] = map[string]any{
			"productType": m.ProductType,
			"title":       m.Title,
			"description": m.Description.String,
			"mockupUrl":   m.MockupUrl,
			"size":        m.Size,
		}
	}

	out := map[string]any{
		"artworkId":      artwork.ID,
		"customerName":   artwork.CustomerName,
		"petName":        artwork.PetName.String,
		"generationStep": artwork.GenerationStep,
		"mockups":        mockupJSON,
	}
	// The preview is withheld until the proof review clears so customers
	// never see a rejected render.
	if artwork.ReviewStatusArtworkProof != review.StatusPending {
		if artwork.PreviewImageUrl.Valid {
			out["previewImageUrl"] = artwork.PreviewImageUrl.String
		}
		if artwork.DigitalDownloadUrl.Valid {
			out["digitalDownloadUrl"] = artwork.DigitalDownloadUrl.String
		}
	}
	return c.JSON(http.StatusOK, out)
}
