package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
)

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes product review operations.
type Service interface {
	AddReview(ctx context.Context, buyerID, productID uuid.UUID, input ReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, buyerID, reviewID uuid.UUID, input UpdateReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, buyerID, reviewID uuid.UUID) error
	ListProductReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
}

type service struct {
	reviews  Repository
	products productFinder
}

// NewService builds a review service backed by the provided stack.
func NewService(reviews Repository, products productFinder) (Service, error) {
	if reviews == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{reviews: reviews, products: products}, nil
}

// ReviewInput captures the payload for a new review.
type ReviewInput struct {
	Rating  int
	Comment string
}

// UpdateReviewInput carries the optional review fields to mutate.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// AddReview records the buyer's rating against a live product.
func (s *service) AddReview(ctx context.Context, buyerID, productID uuid.UUID, input ReviewInput) (*models.Review, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment is required")
	}

	if _, err := s.loadLiveProduct(ctx, productID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID: productID,
		BuyerID:   buyerID,
		Rating:    input.Rating,
		Comment:   comment,
	}
	if _, err := s.reviews.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

func (s *service) UpdateReview(ctx context.Context, buyerID, reviewID uuid.UUID, input UpdateReviewInput) (*models.Review, error) {
	review, err := s.loadOwnedReview(ctx, buyerID, reviewID)
	if err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		comment := strings.TrimSpace(*input.Comment)
		if comment == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment cannot be empty")
		}
		review.Comment = comment
	}

	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save review")
	}
	return review, nil
}

func (s *service) DeleteReview(ctx context.Context, buyerID, reviewID uuid.UUID) error {
	review, err := s.loadOwnedReview(ctx, buyerID, reviewID)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

// ListProductReviews returns a product's reviews newest-first.
func (s *service) ListProductReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	if _, err := s.loadLiveProduct(ctx, productID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return reviews, nil
}

func (s *service) loadLiveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Status == enums.ListingStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) loadOwnedReview(ctx context.Context, buyerID, reviewID uuid.UUID) (*models.Review, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if review.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "review belongs to another buyer")
	}
	return review, nil
}
