package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/pagination"
)

func seedOrders(n int) []models.Order {
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	vendorID := uuid.New()
	out := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		// Newest first, the way the repository returns them.
		createdAt := base.Add(-time.Duration(i) * time.Hour)
		out = append(out, models.Order{
			ID:              uuid.New(),
			OrderIdentifier: "260101ABCDEFGH",
			BuyerID:         uuid.New(),
			Status:          enums.OrderStatusPending,
			TotalPrice:      decimal.RequireFromString("5.00"),
			CreatedAt:       createdAt,
			Items: []models.OrderItem{
				{
					ID:        uuid.New(),
					Quantity:  2,
					UnitPrice: decimal.RequireFromString("2.50"),
					Variation: &models.Variation{
						Name: "Carrots 1kg",
						Product: &models.Product{
							Name:     "Carrots",
							VendorID: vendorID,
							Vendor:   &models.User{ID: vendorID, Username: "greenacres"},
						},
					},
				},
			},
		})
	}
	return out
}

func TestHistoryPaginatesWithCursor(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{orders: seedOrders(3)}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	page, err := svc.History(context.Background(), uuid.New(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page.Orders))
	}
	if page.NextCursor == "" {
		t.Fatal("expected a next cursor when more rows remain")
	}
	if !page.Orders[0].CreatedAt.After(page.Orders[1].CreatedAt) {
		t.Fatal("orders must come back newest first")
	}
	if page.Orders[0].VendorName != "greenacres" {
		t.Fatalf("vendor name = %q, want greenacres", page.Orders[0].VendorName)
	}
	if !page.Orders[0].Items[0].Subtotal.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("item subtotal = %s, want 5.00", page.Orders[0].Items[0].Subtotal)
	}
}

func TestHistoryLastPageHasNoCursor(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{orders: seedOrders(2)}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	page, err := svc.History(context.Background(), uuid.New(), pagination.Params{Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page.Orders))
	}
	if page.NextCursor != "" {
		t.Fatal("last page must not advertise a next cursor")
	}
}

func TestHistoryRejectsBadCursor(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubOrderRepo{})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	_, err = svc.History(context.Background(), uuid.New(), pagination.Params{Cursor: "garbage"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubOrderRepo{findErr: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	_, err = svc.GetOrder(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

type stubOrderRepo struct {
	orders  []models.Order
	findErr error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	out := s.orders
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubOrderRepo) FindByIDForBuyer(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if len(s.orders) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &s.orders[0], nil
}
