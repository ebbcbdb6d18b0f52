package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	checkouthelpers "github.com/harvesthub-dev/harvesthub-backend/internal/checkout/helpers"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type variationLoader interface {
	FindByIDWithVendor(ctx context.Context, id uuid.UUID) (*models.Variation, error)
}

// Service exposes cart mutation and read operations.
type Service interface {
	AddItem(ctx context.Context, buyerID, variationID uuid.UUID, quantity int) (*models.CartItem, error)
	UpdateItem(ctx context.Context, buyerID, itemID uuid.UUID, input UpdateItemInput) (*models.CartItem, error)
	RemoveItem(ctx context.Context, buyerID, itemID uuid.UUID) error
	ListGroupedByVendor(ctx context.Context, buyerID uuid.UUID) ([]checkouthelpers.VendorGroup, error)
}

type service struct {
	repo       Repository
	variations variationLoader
	tx         txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, variations variationLoader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if variations == nil {
		return nil, fmt.Errorf("variation loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, variations: variations, tx: tx}, nil
}

// UpdateItemInput carries the optional cart item fields to mutate.
type UpdateItemInput struct {
	Quantity    *int
	VariationID *uuid.UUID
}

// AddItem puts the variation in the buyer's cart, merging into an existing
// line when the variation is already present.
func (s *service) AddItem(ctx context.Context, buyerID, variationID uuid.UUID, quantity int) (*models.CartItem, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.loadPurchasableVariation(ctx, variationID); err != nil {
		return nil, err
	}

	var result *models.CartItem
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByBuyer(ctx, buyerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart, err = repo.CreateForBuyer(ctx, buyerID)
		}
		if err != nil {
			return err
		}

		existing, err := repo.FindItemByVariation(ctx, cart.ID, variationID)
		switch {
		case err == nil:
			existing.Quantity += quantity
			if err := repo.SaveItem(ctx, existing); err != nil {
				return err
			}
			result = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := &models.CartItem{
				CartID:      cart.ID,
				VariationID: variationID,
				Quantity:    quantity,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return err
			}
			result = item
			return nil
		default:
			return err
		}
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}

	return result, nil
}

// UpdateItem changes quantity and/or variation. A variation change that
// collides with another line for the same variation merges the two lines.
func (s *service) UpdateItem(ctx context.Context, buyerID, itemID uuid.UUID, input UpdateItemInput) (*models.CartItem, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	if input.Quantity == nil && input.VariationID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if input.Quantity != nil && *input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if input.VariationID != nil {
		if _, err := s.loadPurchasableVariation(ctx, *input.VariationID); err != nil {
			return nil, err
		}
	}

	var result *models.CartItem
	var opErr error
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByBuyer(ctx, buyerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				opErr = pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
				return opErr
			}
			return err
		}

		item, err := repo.FindItem(ctx, cart.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				opErr = pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
				return opErr
			}
			return err
		}

		if input.Quantity != nil {
			item.Quantity = *input.Quantity
		}

		if input.VariationID != nil && *input.VariationID != item.VariationID {
			dest, err := repo.FindItemByVariation(ctx, cart.ID, *input.VariationID)
			switch {
			case err == nil:
				// merge: the destination absorbs the moved line
				dest.Quantity += item.Quantity
				if err := repo.SaveItem(ctx, dest); err != nil {
					return err
				}
				if err := repo.DeleteItem(ctx, item.ID); err != nil {
					return err
				}
				result = dest
				return nil
			case errors.Is(err, gorm.ErrRecordNotFound):
				item.VariationID = *input.VariationID
				item.Variation = nil
			default:
				return err
			}
		}

		if err := repo.SaveItem(ctx, item); err != nil {
			return err
		}
		result = item
		return nil
	}); err != nil {
		if opErr != nil {
			return nil, opErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}

	return result, nil
}

// RemoveItem deletes the line from the buyer's cart.
func (s *service) RemoveItem(ctx context.Context, buyerID, itemID uuid.UUID) error {
	if buyerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}

	cart, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if _, err := s.repo.FindItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return nil
}

// ListGroupedByVendor returns the buyer's cart partitioned by vendor.
func (s *service) ListGroupedByVendor(ctx context.Context, buyerID uuid.UUID) ([]checkouthelpers.VendorGroup, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}

	cart, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []checkouthelpers.VendorGroup{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	builder := checkouthelpers.NewGroupBuilder()
	for _, item := range items {
		if item.Variation == nil || item.Variation.Product == nil {
			continue
		}
		product := item.Variation.Product
		builder.Add(product.VendorID, checkouthelpers.VendorDisplayName(product.Vendor), item)
	}
	return builder.Groups(), nil
}

func (s *service) loadPurchasableVariation(ctx context.Context, variationID uuid.UUID) (*models.Variation, error) {
	variation, err := s.variations.FindByIDWithVendor(ctx, variationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variation")
	}
	switch variation.Status {
	case enums.ListingStatusDeleted, enums.ListingStatusHidden, enums.ListingStatusPendingApproval:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variation not found")
	}
	return variation, nil
}
