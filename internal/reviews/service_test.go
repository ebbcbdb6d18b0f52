package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
)

type stubReviewRepo struct {
	reviews map[uuid.UUID]*models.Review
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{reviews: map[uuid.UUID]*models.Review{}}
}

func (s *stubReviewRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubReviewRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	s.reviews[review.ID] = review
	return review, nil
}

func (s *stubReviewRepo) Save(ctx context.Context, review *models.Review) error {
	s.reviews[review.ID] = review
	return nil
}

func (s *stubReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, ok := s.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return review, nil
}

func (s *stubReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.reviews, id)
	return nil
}

func (s *stubReviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, review := range s.reviews {
		if review.ProductID == productID {
			out = append(out, *review)
		}
	}
	return out, nil
}

type stubProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductFinder() *stubProductFinder {
	return &stubProductFinder{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

type reviewFixture struct {
	svc       Service
	reviews   *stubReviewRepo
	products  *stubProductFinder
	buyerID   uuid.UUID
	productID uuid.UUID
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	reviews := newStubReviewRepo()
	products := newStubProductFinder()
	svc, err := NewService(reviews, products)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	product := &models.Product{
		ID:     uuid.New(),
		Name:   "Raw Honey",
		Status: enums.ListingStatusPublished,
	}
	products.products[product.ID] = product

	return &reviewFixture{
		svc:       svc,
		reviews:   reviews,
		products:  products,
		buyerID:   uuid.New(),
		productID: product.ID,
	}
}

func TestAddReview(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	review, err := f.svc.AddReview(context.Background(), f.buyerID, f.productID, ReviewInput{
		Rating:  4,
		Comment: "  Great flavor, fast shipping.  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.Rating != 4 {
		t.Fatalf("rating = %d, want 4", review.Rating)
	}
	if review.Comment != "Great flavor, fast shipping." {
		t.Fatalf("comment = %q, want trimmed", review.Comment)
	}

	listed, err := f.svc.ListProductReviews(context.Background(), f.productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("got %d reviews, want 1", len(listed))
	}
}

func TestAddReviewRejectsInvalidRating(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.AddReview(context.Background(), f.buyerID, f.productID, ReviewInput{
			Rating:  rating,
			Comment: "out of range",
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: unexpected error: %v", rating, err)
		}
	}
}

func TestAddReviewRequiresComment(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	_, err := f.svc.AddReview(context.Background(), f.buyerID, f.productID, ReviewInput{
		Rating:  5,
		Comment: "   ",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddReviewDeletedProduct(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	f.products.products[f.productID].Status = enums.ListingStatusDeleted

	_, err := f.svc.AddReview(context.Background(), f.buyerID, f.productID, ReviewInput{
		Rating:  3,
		Comment: "gone already",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	review, err := f.svc.AddReview(context.Background(), f.buyerID, f.productID, ReviewInput{
		Rating:  2,
		Comment: "arrived bruised",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newRating := 4
	_, err = f.svc.UpdateReview(context.Background(), uuid.New(), review.ID, UpdateReviewInput{Rating: &newRating})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := f.svc.UpdateReview(context.Background(), f.buyerID, review.ID, UpdateReviewInput{Rating: &newRating})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Rating != 4 {
		t.Fatalf("rating = %d, want 4", updated.Rating)
	}
	if updated.Comment != "arrived bruised" {
		t.Fatalf("comment = %q, want unchanged", updated.Comment)
	}
}

func TestDeleteReview(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(t)
	review, err := f.svc.AddReview(context.Background(), f.buyerID, f.productID, ReviewInput{
		Rating:  1,
		Comment: "never arrived",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.DeleteReview(context.Background(), uuid.New(), review.ID); err == nil {
		t.Fatal("foreign buyer must not delete the review")
	}

	if err := f.svc.DeleteReview(context.Background(), f.buyerID, review.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listed, err := f.svc.ListProductReviews(context.Background(), f.productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("got %d reviews, want 0", len(listed))
	}
}
