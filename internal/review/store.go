package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/pawpopart/pawpop-fulfillment/internal/email"
	"github.com/pawpopart/pawpop-fulfillment/internal/outbox"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

// Review types: the artwork proof gates customer-facing previews, the
// high-res file gates physical fulfillment.
const (
	TypeArtworkProof = "artwork_proof"
	TypeHighresFile  = "highres_file"
)

// Review statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ErrUnknownType marks a review type outside the two supported kinds.
var ErrUnknownType = errors.New("unknown review type")

// Store manages human review records. When reviews are disabled the store
// degrades to a pass-through: creation returns nil and fulfillment proceeds
// unguarded.
type Store struct {
	db      *sql.DB
	queries *db.Queries
	outbox  *outbox.Recorder
	enabled bool
}

func NewStore(database *sql.DB, queries *db.Queries, recorder *outbox.Recorder, enabled bool) *Store {
	return &Store{
		db:      database,
		queries: queries,
		outbox:  recorder,
		enabled: enabled,
	}
}

func (s *Store) Enabled() bool {
	return s.enabled
}

// CreateParams describes one requested review.
type CreateParams struct {
	ArtworkID           string
	ReviewType          string
	ImageURL            string
	SourceGenerationURL string
	CustomerName        string
	CustomerEmail       string
	PetName             string
}

// CreateReview opens a pending review for an artwork. At most one pending
// review per (artwork, type) exists: a duplicate request returns the existing
// review unchanged. Returns (nil, nil) when reviews are disabled.
func (s *Store) CreateReview(ctx context.Context, params CreateParams) (*db.AdminReview, error) {
	if !s.enabled {
		return nil, nil
	}
	if params.ReviewType != TypeArtworkProof && params.ReviewType != TypeHighresFile {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, params.ReviewType)
	}

	existing, err := s.queries.GetPendingReviewByArtworkAndType(ctx, db.GetPendingReviewByArtworkAndTypeParams{
		ArtworkID:  params.ArtworkID,
		ReviewType: params.ReviewType,
	})
	if err == nil {
		slog.Info("pending review already exists", "review_id", existing.ID, "artwork_id", params.ArtworkID, "review_type", params.ReviewType)
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check for pending review: %w", err)
	}

	created, err := s.insertReview(ctx, params)
	if err != nil {
		// The partial unique index on pending reviews makes the lost race
		// look like a constraint violation; the winner's row is the answer.
		if isUniqueViolation(err) {
			winner, lookupErr := s.queries.GetPendingReviewByArtworkAndType(ctx, db.GetPendingReviewByArtworkAndTypeParams{
				ArtworkID:  params.ArtworkID,
				ReviewType: params.ReviewType,
			})
			if lookupErr == nil {
				return &winner, nil
			}
		}
		return nil, err
	}

	s.notifyAdmin(ctx, created)
	slog.Info("admin review created", "review_id", created.ID, "artwork_id", params.ArtworkID, "review_type", params.ReviewType)
	return created, nil
}

// insertReview writes the review row and flips the artwork's review status
// column in one transaction.
func (s *Store) insertReview(ctx context.Context, params CreateParams) (*db.AdminReview, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	created, err := qtx.CreateAdminReview(ctx, db.CreateAdminReviewParams{
		ID:                  ulid.Make().String(),
		ArtworkID:           params.ArtworkID,
		ReviewType:          params.ReviewType,
		ImageUrl:            params.ImageURL,
		SourceGenerationUrl: sql.NullString{String: params.SourceGenerationURL, Valid: params.SourceGenerationURL != ""},
		CustomerName:        params.CustomerName,
		CustomerEmail:       params.CustomerEmail,
		PetName:             sql.NullString{String: params.PetName, Valid: params.PetName != ""},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.setArtworkReviewStatus(ctx, qtx, params.ArtworkID, params.ReviewType, StatusPending); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit review: %w", err)
	}
	return &created, nil
}

func (s *Store) setArtworkReviewStatus(ctx context.Context, q *db.Queries, artworkID, reviewType, status string) error {
	var err error
	switch reviewType {
	case TypeArtworkProof:
		err = q.UpdateArtworkProofReviewStatus(ctx, db.UpdateArtworkProofReviewStatusParams{
			ReviewStatusArtworkProof: status,
			ID:                       artworkID,
		})
	case TypeHighresFile:
		err = q.UpdateArtworkHighresReviewStatus(ctx, db.UpdateArtworkHighresReviewStatusParams{
			ReviewStatusHighres: status,
			ID:                  artworkID,
		})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownType, reviewType)
	}
	if err != nil {
		return fmt.Errorf("failed to update artwork review status: %w", err)
	}
	return nil
}

// RequestHighresReview opens a high-res file review ahead of fulfillment,
// deriving customer context from the artwork. Reports whether a review is
// now (or already was) pending.
func (s *Store) RequestHighresReview(ctx context.Context, artworkID, imageURL string) (bool, error) {
	if !s.enabled {
		return false, nil
	}

	artwork, err := s.queries.GetArtwork(ctx, artworkID)
	if err != nil {
		return false, fmt.Errorf("failed to load artwork %s: %w", artworkID, err)
	}
	if imageURL == "" {
		if artwork.UpscaledImageUrl.Valid {
			imageURL = artwork.UpscaledImageUrl.String
		} else {
			imageURL = artwork.PreviewImageUrl.String
		}
	}

	created, err := s.CreateReview(ctx, CreateParams{
		ArtworkID:     artworkID,
		ReviewType:    TypeHighresFile,
		ImageURL:      imageURL,
		CustomerName:  artwork.CustomerName,
		CustomerEmail: artwork.CustomerEmail,
		PetName:       artwork.PetName.String,
	})
	if err != nil {
		return false, err
	}
	return created != nil, nil
}

func (s *Store) notifyAdmin(ctx context.Context, review *db.AdminReview) {
	if s.outbox == nil {
		return
	}
	s.outbox.Record(ctx, outbox.KindAdminReviewEmail, "", review.ArtworkID, email.ReviewNotificationData{
		ReviewID:     review.ID,
		ReviewType:   review.ReviewType,
		CustomerName: review.CustomerName,
		PetName:      review.PetName.String,
		ImageURL:     review.ImageUrl,
	})
}

// ListPending returns open reviews, optionally filtered by type.
func (s *Store) ListPending(ctx context.Context, reviewType string) ([]db.ListPendingReviewsRow, error) {
	if reviewType == "" {
		return s.queries.ListPendingReviews(ctx)
	}
	if reviewType != TypeArtworkProof && reviewType != TypeHighresFile {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, reviewType)
	}
	rows, err := s.queries.ListPendingReviewsByType(ctx, reviewType)
	if err != nil {
		return nil, err
	}
	out := make([]db.ListPendingReviewsRow, len(rows))
	for i, r := range rows {
		out[i] = db.ListPendingReviewsRow(r)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (db.GetAdminReviewRow, error) {
	return s.queries.GetAdminReview(ctx, id)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
