package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
)

type repo struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	return &repo{db: db}
}

func (r *repo) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repo{db: tx}
}

func (r *repo) FindByBuyer(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		First(&cart, "buyer_id = ?", buyerID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repo) CreateForBuyer(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error) {
	cart := models.Cart{BuyerID: buyerID}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repo) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Variation").
		First(&item, "id = ? AND cart_id = ?", itemID, cartID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) FindItemByVariation(ctx context.Context, cartID, variationID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "cart_id = ? AND variation_id = ?", cartID, variationID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repo) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.CartItem{}).Error
}

func (r *repo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Variation").
		Preload("Variation.Product").
		Preload("Variation.Product.Vendor").
		Preload("Variation.Product.Vendor.Profile").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repo) ListItemsByVariationIDs(ctx context.Context, cartID uuid.UUID, variationIDs []uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Variation").
		Preload("Variation.Product").
		Preload("Variation.Product.Vendor").
		Preload("Variation.Product.Vendor.Profile").
		Where("cart_id = ? AND variation_id IN ?", cartID, variationIDs).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repo) DeleteItemsByIDs(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND id IN ?", cartID, itemIDs).
		Delete(&models.CartItem{}).Error
}
