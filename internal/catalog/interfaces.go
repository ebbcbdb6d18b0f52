package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/pagination"
)

// CategoryRepository is the persistence surface for product categories.
type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// ProductRepository is the persistence surface for products.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error)
	ListPublished(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error)
}

// VariationRepository is the persistence surface for product variations.
type VariationRepository interface {
	WithTx(tx *gorm.DB) VariationRepository
	Create(ctx context.Context, variation *models.Variation) (*models.Variation, error)
	Save(ctx context.Context, variation *models.Variation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Variation, error)
	FindByIDWithVendor(ctx context.Context, id uuid.UUID) (*models.Variation, error)
	MarkDeletedByProduct(ctx context.Context, productID uuid.UUID) error
}

// VariationImageRepository is the persistence surface for variation images.
type VariationImageRepository interface {
	WithTx(tx *gorm.DB) VariationImageRepository
	Create(ctx context.Context, image *models.VariationImage) (*models.VariationImage, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.VariationImage, error)
	ListByVariation(ctx context.Context, variationID uuid.UUID) ([]models.VariationImage, error)
	ClearMain(ctx context.Context, variationID uuid.UUID) error
	SetMain(ctx context.Context, imageID uuid.UUID, main bool) error
	Delete(ctx context.Context, imageID uuid.UUID) error
	CountByVariation(ctx context.Context, variationID uuid.UUID) (int64, error)
}
