package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
)

func newCartTestService(t *testing.T, repo *memoryCartRepo, variations map[uuid.UUID]*models.Variation) Service {
	t.Helper()
	svc, err := NewService(repo, variationMap(variations), stubTxRunner{})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return svc
}

func publishedVariation() *models.Variation {
	return &models.Variation{
		ID:          uuid.New(),
		Name:        "Tomatoes 1kg",
		Stock:       10,
		IsAvailable: true,
		Status:      enums.ListingStatusPublished,
	}
}

func TestAddItemMergesRepeatAdds(t *testing.T) {
	t.Parallel()

	buyerID := uuid.New()
	variation := publishedVariation()
	repo := newMemoryCartRepo()
	svc := newCartTestService(t, repo, map[uuid.UUID]*models.Variation{variation.ID: variation})

	first, err := svc.AddItem(context.Background(), buyerID, variation.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.AddItem(context.Background(), buyerID, variation.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.ID != first.ID {
		t.Fatal("repeat add must merge into the existing line")
	}
	if second.Quantity != 4 {
		t.Fatalf("merged quantity = %d, want 4", second.Quantity)
	}
	if n := len(repo.itemsForBuyer(buyerID)); n != 1 {
		t.Fatalf("expected a single cart line, got %d", n)
	}
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	t.Parallel()

	variation := publishedVariation()
	repo := newMemoryCartRepo()
	svc := newCartTestService(t, repo, map[uuid.UUID]*models.Variation{variation.ID: variation})

	_, err := svc.AddItem(context.Background(), uuid.New(), variation.ID, 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddItemHiddenVariationLooksMissing(t *testing.T) {
	t.Parallel()

	variation := publishedVariation()
	variation.Status = enums.ListingStatusHidden
	repo := newMemoryCartRepo()
	svc := newCartTestService(t, repo, map[uuid.UUID]*models.Variation{variation.ID: variation})

	_, err := svc.AddItem(context.Background(), uuid.New(), variation.ID, 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateItemQuantity(t *testing.T) {
	t.Parallel()

	buyerID := uuid.New()
	variation := publishedVariation()
	repo := newMemoryCartRepo()
	svc := newCartTestService(t, repo, map[uuid.UUID]*models.Variation{variation.ID: variation})

	item, err := svc.AddItem(context.Background(), buyerID, variation.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	qty := 7
	updated, err := svc.UpdateItem(context.Background(), buyerID, item.ID, UpdateItemInput{Quantity: &qty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Quantity != 7 {
		t.Fatalf("quantity = %d, want 7", updated.Quantity)
	}

	zero := 0
	_, err = svc.UpdateItem(context.Background(), buyerID, item.ID, UpdateItemInput{Quantity: &zero})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("quantity below 1 must be rejected, got %v", err)
	}
}

func TestUpdateItemRequiresSomethingToUpdate(t *testing.T) {
	t.Parallel()

	variation := publishedVariation()
	repo := newMemoryCartRepo()
	svc := newCartTestService(t, repo, map[uuid.UUID]*models.Variation{variation.ID: variation})

	_, err := svc.UpdateItem(context.Background(), uuid.New(), uuid.New(), UpdateItemInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateItemVariationChangeMergesCollision(t *testing.T) {
	t.Parallel()

	buyerID := uuid.New()
	tomatoes := publishedVariation()
	peppers := publishedVariation()
	repo := newMemoryCartRepo()
	svc := newCartTestService(t, repo, map[uuid.UUID]*models.Variation{
		tomatoes.ID: tomatoes,
		peppers.ID:  peppers,
	})

	moved, err := svc.AddItem(context.Background(), buyerID, tomatoes.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dest, err := svc.AddItem(context.Background(), buyerID, peppers.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged, err := svc.UpdateItem(context.Background(), buyerID, moved.ID, UpdateItemInput{VariationID: &peppers.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.ID != dest.ID {
		t.Fatal("collision must merge into the destination line")
	}
	if merged.Quantity != 5 {
		t.Fatalf("merged quantity = %d, want 5", merged.Quantity)
	}
	if n := len(repo.itemsForBuyer(buyerID)); n != 1 {
		t.Fatalf("expected a single surviving line, got %d", n)
	}
}

func TestUpdateItemVariationChangeWithoutCollision(t *testing.T) {
	t.Parallel()

	buyerID := uuid.New()
	tomatoes := publishedVariation()
	peppers := publishedVariation()
	repo := newMemoryCartRepo()
	svc := newCartTestService(t, repo, map[uuid.UUID]*models.Variation{
		tomatoes.ID: tomatoes,
		peppers.ID:  peppers,
	})

	item, err := svc.AddItem(context.Background(), buyerID, tomatoes.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateItem(context.Background(), buyerID, item.ID, UpdateItemInput{VariationID: &peppers.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.VariationID != peppers.ID {
		t.Fatal("variation should be reassigned in place")
	}
	if updated.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", updated.Quantity)
	}
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	buyerID := uuid.New()
	variation := publishedVariation()
	repo := newMemoryCartRepo()
	svc := newCartTestService(t, repo, map[uuid.UUID]*models.Variation{variation.ID: variation})

	item, err := svc.AddItem(context.Background(), buyerID, variation.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RemoveItem(context.Background(), buyerID, item.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(repo.itemsForBuyer(buyerID)); n != 0 {
		t.Fatalf("expected empty cart, got %d lines", n)
	}

	err = svc.RemoveItem(context.Background(), buyerID, item.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("removing a gone item should 404, got %v", err)
	}
}

func TestListGroupedByVendorWithoutCart(t *testing.T) {
	t.Parallel()

	repo := newMemoryCartRepo()
	svc := newCartTestService(t, repo, map[uuid.UUID]*models.Variation{})

	groups, err := svc.ListGroupedByVendor(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected empty grouping, got %d", len(groups))
	}
}

// memoryCartRepo is an in-memory Repository for exercising merge semantics.
type memoryCartRepo struct {
	carts map[uuid.UUID]*models.Cart
	items map[uuid.UUID]*models.CartItem
}

func newMemoryCartRepo() *memoryCartRepo {
	return &memoryCartRepo{
		carts: map[uuid.UUID]*models.Cart{},
		items: map[uuid.UUID]*models.CartItem{},
	}
}

func (m *memoryCartRepo) itemsForBuyer(buyerID uuid.UUID) []*models.CartItem {
	cart, ok := m.carts[buyerID]
	if !ok {
		return nil
	}
	var out []*models.CartItem
	for _, item := range m.items {
		if item.CartID == cart.ID {
			out = append(out, item)
		}
	}
	return out
}

func (m *memoryCartRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memoryCartRepo) FindByBuyer(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error) {
	cart, ok := m.carts[buyerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cart, nil
}

func (m *memoryCartRepo) CreateForBuyer(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{ID: uuid.New(), BuyerID: buyerID}
	m.carts[buyerID] = cart
	return cart, nil
}

func (m *memoryCartRepo) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	item, ok := m.items[itemID]
	if !ok || item.CartID != cartID {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (m *memoryCartRepo) FindItemByVariation(ctx context.Context, cartID, variationID uuid.UUID) (*models.CartItem, error) {
	for _, item := range m.items {
		if item.CartID == cartID && item.VariationID == variationID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items[item.ID] = item
	return nil
}

func (m *memoryCartRepo) SaveItem(ctx context.Context, item *models.CartItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *memoryCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	delete(m.items, itemID)
	return nil
}

func (m *memoryCartRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range m.items {
		if item.CartID == cartID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *memoryCartRepo) ListItemsByVariationIDs(ctx context.Context, cartID uuid.UUID, variationIDs []uuid.UUID) ([]models.CartItem, error) {
	requested := make(map[uuid.UUID]struct{}, len(variationIDs))
	for _, id := range variationIDs {
		requested[id] = struct{}{}
	}
	var out []models.CartItem
	for _, item := range m.items {
		if item.CartID != cartID {
			continue
		}
		if _, ok := requested[item.VariationID]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *memoryCartRepo) DeleteItemsByIDs(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) error {
	for _, id := range itemIDs {
		delete(m.items, id)
	}
	return nil
}

// variationMap satisfies the variation lookup the service needs.
type variationMap map[uuid.UUID]*models.Variation

func (m variationMap) FindByIDWithVendor(ctx context.Context, id uuid.UUID) (*models.Variation, error) {
	variation, ok := m[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return variation, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
