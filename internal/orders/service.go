package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	checkouthelpers "github.com/harvesthub-dev/harvesthub-backend/internal/checkout/helpers"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/pagination"
)

// Service exposes order history reads.
type Service interface {
	History(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*HistoryPage, error)
	GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*HistoryEntry, error)
}

type service struct {
	repo Repository
}

// NewService builds an order history service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

// HistoryItem is one line of a historical order, priced at checkout time.
type HistoryItem struct {
	ProductName   string          `json:"product_name"`
	VariationName string          `json:"variation_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// HistoryEntry is one order in the buyer's history.
type HistoryEntry struct {
	OrderID         uuid.UUID         `json:"order_id"`
	OrderIdentifier string            `json:"order_identifier"`
	Status          enums.OrderStatus `json:"status"`
	TotalPrice      decimal.Decimal   `json:"total_price"`
	VendorName      string            `json:"vendor_name"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []HistoryItem     `json:"items"`
}

// HistoryPage is one page of order history plus the cursor for the next.
type HistoryPage struct {
	Orders     []HistoryEntry `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// History returns the buyer's orders newest-first.
func (s *service) History(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*HistoryPage, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	orders, err := s.repo.ListByBuyer(ctx, buyerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &HistoryPage{Orders: make([]HistoryEntry, 0, len(orders))}
	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	for i := range orders {
		page.Orders = append(page.Orders, toHistoryEntry(&orders[i]))
	}

	if hasMore && len(orders) > 0 {
		last := orders[len(orders)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return page, nil
}

// GetOrder returns one of the buyer's orders with full detail.
func (s *service) GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*HistoryEntry, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}

	order, err := s.repo.FindByIDForBuyer(ctx, orderID, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	entry := toHistoryEntry(order)
	return &entry, nil
}

// toHistoryEntry shapes an order for history output. All items in one order
// share one vendor by construction, so the vendor lookup uses the first item.
func toHistoryEntry(order *models.Order) HistoryEntry {
	entry := HistoryEntry{
		OrderID:         order.ID,
		OrderIdentifier: order.OrderIdentifier,
		Status:          order.Status,
		TotalPrice:      order.TotalPrice,
		CreatedAt:       order.CreatedAt,
		Items:           make([]HistoryItem, 0, len(order.Items)),
	}

	for _, item := range order.Items {
		hi := HistoryItem{
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		}
		if item.Variation != nil {
			hi.VariationName = item.Variation.Name
			if item.Variation.Product != nil {
				hi.ProductName = item.Variation.Product.Name
			}
		}
		entry.Items = append(entry.Items, hi)
	}

	if len(order.Items) > 0 {
		if v := order.Items[0].Variation; v != nil && v.Product != nil {
			entry.VendorName = checkouthelpers.VendorDisplayName(v.Product.Vendor)
		}
	}

	return entry
}
