package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/pawpopart/pawpop-fulfillment/internal/orders"
	"github.com/pawpopart/pawpop-fulfillment/internal/review"
	"github.com/pawpopart/pawpop-fulfillment/storage"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

const (
	numArtworks       = 30
	physicalOrderOdds = 0.7
)

var productTypes = []string{"art_print", "canvas_stretched", "canvas_framed"}
var productSizes = []string{"12x18", "18x24", "20x30"}
var orderStatuses = []string{"pending", "paid", "pending_review", "processing", "shipped"}

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./db/pawpop.db"
	}

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	queries := store.Queries

	for i := 0; i < numArtworks; i++ {
		artwork, err := seedArtwork(ctx, queries)
		if err != nil {
			log.Fatalf("failed to seed artwork: %v", err)
		}

		if rand.Float64() < physicalOrderOdds {
			if err := seedOrder(ctx, queries, artwork); err != nil {
				log.Fatalf("failed to seed order: %v", err)
			}
		}
	}

	fmt.Printf("seeded %d artworks into %s\n", numArtworks, dbPath)
}

func seedArtwork(ctx context.Context, queries *db.Queries) (db.Artwork, error) {
	petName := gofakeit.PetName()
	artwork, err := queries.CreateArtwork(ctx, db.CreateArtworkParams{
		ID:              ulid.Make().String(),
		AccessToken:     uuid.NewString(),
		CustomerName:    gofakeit.Name(),
		CustomerEmail:   gofakeit.Email(),
		PetName:         sql.NullString{String: petName, Valid: true},
		GenerationStep:  "completed",
		UpscaleStatus:   "completed",
		SourcePetMomUrl: sql.NullString{String: gofakeit.ImageURL(800, 1000), Valid: true},
		SourcePetUrl:    sql.NullString{String: gofakeit.ImageURL(800, 800), Valid: true},
	})
	if err != nil {
		return db.Artwork{}, err
	}

	preview := gofakeit.ImageURL(1200, 1600)
	err = queries.UpdateArtworkPreviewImage(ctx, db.UpdateArtworkPreviewImageParams{
		PreviewImageUrl: sql.NullString{String: preview, Valid: true},
		ID:              artwork.ID,
	})
	if err != nil {
		return db.Artwork{}, err
	}

	for _, productType := range productTypes {
		size := productSizes[rand.Intn(len(productSizes))]
		_, err := queries.CreateArtworkMockup(ctx, db.CreateArtworkMockupParams{
			ID:                ulid.Make().String(),
			ArtworkID:         artwork.ID,
			ProductType:       productType,
			Title:             fmt.Sprintf("%s (%s\")", productType, size),
			Description:       sql.NullString{String: gofakeit.Sentence(8), Valid: true},
			MockupUrl:         gofakeit.ImageURL(1000, 1000),
			PrintifyProductID: sql.NullString{String: gofakeit.UUID(), Valid: true},
			Size:              size,
		})
		if err != nil {
			return db.Artwork{}, err
		}
	}

	return artwork, nil
}

func seedOrder(ctx context.Context, queries *db.Queries, artwork db.Artwork) error {
	productType := productTypes[rand.Intn(len(productTypes))]
	size := productSizes[rand.Intn(len(productSizes))]
	status := orderStatuses[rand.Intn(len(orderStatuses))]

	order, err := queries.CreateOrder(ctx, db.CreateOrderParams{
		ID:              ulid.Make().String(),
		ArtworkID:       artwork.ID,
		StripeSessionID: "cs_test_" + gofakeit.LetterN(24),
		ProductType:     productType,
		ProductSize:     size,
		PriceCents:      int64(gofakeit.Number(29, 149)) * 100,
		CustomerEmail:   artwork.CustomerEmail,
		CustomerName:    artwork.CustomerName,
		OrderStatus:     "pending",
	})
	if err != nil {
		return err
	}

	if status == "pending" {
		return nil
	}

	shipping, _ := json.Marshal(orders.ShippingDetails{
		Name:    artwork.CustomerName,
		Line1:   gofakeit.Street(),
		City:    gofakeit.City(),
		State:   gofakeit.StateAbr(),
		Zip:     gofakeit.Zip(),
		Country: "US",
	})
	_, err = queries.UpdateOrderAfterPayment(ctx, db.UpdateOrderAfterPaymentParams{
		StripePaymentIntentID: sql.NullString{String: "pi_" + gofakeit.LetterN(24), Valid: true},
		ShippingAddress:       sql.NullString{String: string(shipping), Valid: true},
		StripeSessionID:       order.StripeSessionID,
	})
	if err != nil {
		return err
	}

	err = queries.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		OrderStatus: status,
		ID:          order.ID,
	})
	if err != nil {
		return err
	}

	if status == "pending_review" {
		_, err := queries.CreateAdminReview(ctx, db.CreateAdminReviewParams{
			ID:            ulid.Make().String(),
			ArtworkID:     artwork.ID,
			ReviewType:    review.TypeHighresFile,
			ImageUrl:      gofakeit.ImageURL(2400, 3200),
			CustomerName:  artwork.CustomerName,
			CustomerEmail: artwork.CustomerEmail,
			PetName:       artwork.PetName,
		})
		if err != nil {
			return err
		}
	}

	return queries.CreateOrderStatusHistory(ctx, db.CreateOrderStatusHistoryParams{
		ID:      ulid.Make().String(),
		OrderID: order.ID,
		Status:  status,
		Notes:   sql.NullString{String: "Seeded", Valid: true},
	})
}
