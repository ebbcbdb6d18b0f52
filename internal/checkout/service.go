package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/internal/cart"
	"github.com/harvesthub-dev/harvesthub-backend/internal/checkout/helpers"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
)

// LowStockThreshold is the remaining-stock level below which the order
// summary flags an item even when the requested quantity still fits.
const LowStockThreshold = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the checkout orchestration operations.
type Service interface {
	ConfirmCheckout(ctx context.Context, buyerID uuid.UUID, input CheckoutInput) ([]OrderEntry, error)
	OrderSummary(ctx context.Context, buyerID uuid.UUID, variationIDs []uuid.UUID) (*Summary, error)
}

type service struct {
	carts      cart.Repository
	variations VariationStore
	orders     OrderWriter
	tx         txRunner
	now        func() time.Time
}

// NewService builds a checkout service backed by the provided stack.
func NewService(carts cart.Repository, variations VariationStore, orders OrderWriter, tx txRunner) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if variations == nil {
		return nil, fmt.Errorf("variation store required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		carts:      carts,
		variations: variations,
		orders:     orders,
		tx:         tx,
		now:        time.Now,
	}, nil
}

// CheckoutInput is the confirmed checkout request.
type CheckoutInput struct {
	VariationIDs    []uuid.UUID
	ShippingAddress string
	PaymentMethod   string
	DeliveryMethod  *string
}

// OrderEntry is the per-vendor result of a successful checkout.
type OrderEntry struct {
	OrderID         uuid.UUID       `json:"order_id"`
	OrderIdentifier string          `json:"order_identifier"`
	VendorID        uuid.UUID       `json:"vendor_id"`
	VendorName      string          `json:"vendor_name"`
	OrderTotal      decimal.Decimal `json:"order_total"`
}

// ConfirmCheckout splits the selected cart items into one order per vendor,
// decrements stock, and records a market transaction per order, all inside
// a single transaction that fully rolls back on any failure.
func (s *service) ConfirmCheckout(ctx context.Context, buyerID uuid.UUID, input CheckoutInput) ([]OrderEntry, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	ids := dedupe(input.VariationIDs)
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variation ids are required")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}

	var entries []OrderEntry
	var opErr error
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		variations := s.variations.WithTx(tx)
		orders := s.orders.WithTx(tx)

		buyerCart, err := carts.FindByBuyer(ctx, buyerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				opErr = pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
				return opErr
			}
			return err
		}

		// Row locks serialize concurrent checkouts touching the same stock.
		locked, err := variations.LockByIDs(ctx, ids)
		if err != nil {
			return err
		}

		// Cart membership is read only after the locks are held: a concurrent
		// checkout for the same buyer commits and deletes these items while we
		// wait, and a pre-lock read would replay them into duplicate orders.
		items, err := carts.ListItemsByVariationIDs(ctx, buyerCart.ID, ids)
		if err != nil {
			return err
		}

		if missing := missingVariationIDs(ids, items); len(missing) > 0 {
			opErr = pkgerrors.New(pkgerrors.CodeValidation, "items not in cart").
				WithDetails(map[string]any{"variation_ids": missing})
			return opErr
		}
		stock := make(map[uuid.UUID]*models.Variation, len(locked))
		for i := range locked {
			stock[locked[i].ID] = &locked[i]
		}

		// Validate stock for every group before writing anything, so a late
		// failure never depends on rolling back earlier vendors' writes.
		for _, item := range items {
			variation, ok := stock[item.VariationID]
			if !ok {
				opErr = pkgerrors.New(pkgerrors.CodeNotFound, "variation not found")
				return opErr
			}
			if item.Quantity > variation.Stock {
				opErr = pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("insufficient stock for %q", variationName(item, variation))).
					WithDetails(map[string]any{
						"variation_id": variation.ID,
						"requested":    item.Quantity,
						"stock":        variation.Stock,
					})
				return opErr
			}
		}

		builder := helpers.NewGroupBuilder()
		for _, item := range items {
			if item.Variation == nil || item.Variation.Product == nil {
				return fmt.Errorf("cart item %s missing variation data", item.ID)
			}
			product := item.Variation.Product
			builder.Add(product.VendorID, helpers.VendorDisplayName(product.Vendor), item)
		}

		processedItemIDs := make([]uuid.UUID, 0, len(items))
		now := s.now()

		for _, group := range builder.Groups() {
			total := decimal.Zero
			orderItems := make([]models.OrderItem, 0, len(group.Items))

			for _, item := range group.Items {
				variation := stock[item.VariationID]
				qty := decimal.NewFromInt(int64(item.Quantity))
				total = total.Add(variation.UnitPrice.Mul(qty))

				orderItems = append(orderItems, models.OrderItem{
					VariationID: variation.ID,
					Quantity:    item.Quantity,
					UnitPrice:   variation.UnitPrice,
				})
			}

			identifier, err := helpers.NewOrderIdentifier(now)
			if err != nil {
				return err
			}

			order := &models.Order{
				OrderIdentifier: identifier,
				BuyerID:         buyerID,
				Status:          enums.OrderStatusPending,
				TotalPrice:      total,
				ShippingAddress: strings.TrimSpace(input.ShippingAddress),
				PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
				DeliveryMethod:  input.DeliveryMethod,
				Items:           orderItems,
				StatusHistory: []models.OrderStatusHistory{
					{Status: enums.OrderStatusPending},
				},
				Transaction: &models.MarketTransaction{
					BuyerID:       buyerID,
					SellerID:      group.VendorID,
					PaymentMethod: strings.TrimSpace(input.PaymentMethod),
					TotalAmount:   total,
					Status:        enums.TransactionStatusPending,
				},
			}

			if _, err := orders.Create(ctx, order); err != nil {
				return err
			}

			for _, item := range group.Items {
				variation := stock[item.VariationID]
				variation.Stock -= item.Quantity
				if variation.Stock <= 0 {
					variation.Status = enums.ListingStatusOutOfStock
					variation.IsAvailable = false
				}
				if err := variations.Save(ctx, variation); err != nil {
					return err
				}
				processedItemIDs = append(processedItemIDs, item.ID)
			}

			entries = append(entries, OrderEntry{
				OrderID:         order.ID,
				OrderIdentifier: order.OrderIdentifier,
				VendorID:        group.VendorID,
				VendorName:      group.VendorName,
				OrderTotal:      total,
			})
		}

		return carts.DeleteItemsByIDs(ctx, buyerCart.ID, processedItemIDs)
	}); err != nil {
		if opErr != nil {
			return nil, opErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm checkout")
	}

	return entries, nil
}

// Summary is the pre-checkout pricing breakdown.
type Summary struct {
	Vendors    []VendorSummary `json:"vendors"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// VendorSummary is one vendor's slice of the pre-checkout pricing.
type VendorSummary struct {
	VendorID   uuid.UUID       `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Items      []SummaryItem   `json:"items"`
}

// SummaryItem is one cart line inside a vendor summary.
type SummaryItem struct {
	ItemID      uuid.UUID       `json:"item_id"`
	VariationID uuid.UUID       `json:"variation_id"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// StockWarning flags a cart line whose variation cannot cover the request
// or is running low.
type StockWarning struct {
	VariationID uuid.UUID `json:"variation_id"`
	Name        string    `json:"name"`
	Requested   int       `json:"requested"`
	Stock       int       `json:"stock"`
	Reason      string    `json:"reason"`
}

// OrderSummary computes the same grouping and totals as checkout without
// mutating anything. Any stock warning is a hard stop for this endpoint:
// the warnings are returned as the error payload instead of totals.
func (s *service) OrderSummary(ctx context.Context, buyerID uuid.UUID, variationIDs []uuid.UUID) (*Summary, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	ids := dedupe(variationIDs)
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variation ids are required")
	}

	buyerCart, err := s.carts.FindByBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	items, err := s.carts.ListItemsByVariationIDs(ctx, buyerCart.ID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
	}

	if missing := missingVariationIDs(ids, items); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "items not in cart").
			WithDetails(map[string]any{"variation_ids": missing})
	}

	var warnings []StockWarning
	for _, item := range items {
		if item.Variation == nil {
			continue
		}
		variation := item.Variation
		switch {
		case item.Quantity > variation.Stock:
			warnings = append(warnings, StockWarning{
				VariationID: variation.ID,
				Name:        variation.Name,
				Requested:   item.Quantity,
				Stock:       variation.Stock,
				Reason:      "insufficient stock",
			})
		case variation.Stock < LowStockThreshold:
			warnings = append(warnings, StockWarning{
				VariationID: variation.ID,
				Name:        variation.Name,
				Requested:   item.Quantity,
				Stock:       variation.Stock,
				Reason:      "low stock",
			})
		}
	}
	if len(warnings) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "stock warnings present").
			WithDetails(map[string]any{"warnings": warnings})
	}

	builder := helpers.NewGroupBuilder()
	for _, item := range items {
		if item.Variation == nil || item.Variation.Product == nil {
			continue
		}
		product := item.Variation.Product
		builder.Add(product.VendorID, helpers.VendorDisplayName(product.Vendor), item)
	}

	summary := &Summary{GrandTotal: decimal.Zero}
	for _, group := range builder.Groups() {
		vendor := VendorSummary{
			VendorID:   group.VendorID,
			VendorName: group.VendorName,
			Subtotal:   decimal.Zero,
		}
		for _, item := range group.Items {
			lineTotal := item.Variation.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			vendor.Subtotal = vendor.Subtotal.Add(lineTotal)
			vendor.Items = append(vendor.Items, SummaryItem{
				ItemID:      item.ID,
				VariationID: item.VariationID,
				Name:        item.Variation.Name,
				Quantity:    item.Quantity,
				UnitPrice:   item.Variation.UnitPrice,
				Subtotal:    lineTotal,
			})
		}
		summary.GrandTotal = summary.GrandTotal.Add(vendor.Subtotal)
		summary.Vendors = append(summary.Vendors, vendor)
	}

	return summary, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingVariationIDs(requested []uuid.UUID, items []models.CartItem) []string {
	present := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		present[item.VariationID] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return missing
}

func variationName(item models.CartItem, locked *models.Variation) string {
	if item.Variation != nil && item.Variation.Name != "" {
		return item.Variation.Name
	}
	return locked.Name
}
