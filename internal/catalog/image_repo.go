package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
)

type imageRepo struct {
	db *gorm.DB
}

// NewVariationImageRepository binds the repository to the provided DB handle.
func NewVariationImageRepository(db *gorm.DB) VariationImageRepository {
	return &imageRepo{db: db}
}

func (r *imageRepo) WithTx(tx *gorm.DB) VariationImageRepository {
	if tx == nil {
		return r
	}
	return &imageRepo{db: tx}
}

func (r *imageRepo) Create(ctx context.Context, image *models.VariationImage) (*models.VariationImage, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

func (r *imageRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.VariationImage, error) {
	var image models.VariationImage
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepo) ListByVariation(ctx context.Context, variationID uuid.UUID) ([]models.VariationImage, error) {
	var images []models.VariationImage
	err := r.db.WithContext(ctx).
		Where("variation_id = ?", variationID).
		Order("uploaded_at ASC").
		Find(&images).Error
	return images, err
}

func (r *imageRepo) ClearMain(ctx context.Context, variationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.VariationImage{}).
		Where("variation_id = ? AND is_main = ?", variationID, true).
		Update("is_main", false).Error
}

func (r *imageRepo) SetMain(ctx context.Context, imageID uuid.UUID, main bool) error {
	return r.db.WithContext(ctx).
		Model(&models.VariationImage{}).
		Where("id = ?", imageID).
		Update("is_main", main).Error
}

func (r *imageRepo) Delete(ctx context.Context, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", imageID).
		Delete(&models.VariationImage{}).Error
}

func (r *imageRepo) CountByVariation(ctx context.Context, variationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VariationImage{}).
		Where("variation_id = ?", variationID).
		Count(&count).Error
	return count, err
}
