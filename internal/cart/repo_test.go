package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  username TEXT NOT NULL,
  contact_no TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_approved INTEGER NOT NULL DEFAULT 1,
  is_rejected INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS user_profiles (
  user_id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL DEFAULT '',
  picture_url TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'published',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS variations (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  is_available INTEGER NOT NULL DEFAULT 1,
  is_default INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'published',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  variation_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, variation_id)
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type cartSeed struct {
	cart   models.Cart
	first  models.CartItem
	second models.CartItem
}

func seedCart(t *testing.T, db *gorm.DB) cartSeed {
	t.Helper()

	vendorID := uuid.New()
	require.NoError(t, db.Create(&models.User{
		ID:       vendorID,
		Email:    "vendor@example.com",
		Username: "greenacres",
		Role:     enums.UserRoleFarmer,
	}).Error)
	require.NoError(t, db.Create(&models.UserProfile{
		UserID:   vendorID,
		FullName: "Green Acres Farm",
	}).Error)

	product := models.Product{
		ID:         uuid.New(),
		VendorID:   vendorID,
		CategoryID: uuid.New(),
		Name:       "Carrots",
		Slug:       "carrots",
		Status:     enums.ListingStatusPublished,
	}
	require.NoError(t, db.Create(&product).Error)

	carrots := models.Variation{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Name:        "Carrots 1kg",
		UnitPrice:   decimal.RequireFromString("2.50"),
		Stock:       10,
		IsAvailable: true,
		Status:      enums.ListingStatusPublished,
	}
	apples := models.Variation{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Name:        "Apples 1kg",
		UnitPrice:   decimal.RequireFromString("1.25"),
		Stock:       8,
		IsAvailable: true,
		Status:      enums.ListingStatusPublished,
	}
	require.NoError(t, db.Create(&carrots).Error)
	require.NoError(t, db.Create(&apples).Error)

	cart := models.Cart{ID: uuid.New(), BuyerID: uuid.New()}
	require.NoError(t, db.Create(&cart).Error)

	first := models.CartItem{ID: uuid.New(), CartID: cart.ID, VariationID: carrots.ID, Quantity: 2}
	second := models.CartItem{ID: uuid.New(), CartID: cart.ID, VariationID: apples.ID, Quantity: 3}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	return cartSeed{cart: cart, first: first, second: second}
}

func TestRepoFindByBuyer(t *testing.T) {
	db := setupCartTestDB(t)
	seed := seedCart(t, db)
	repo := NewRepository(db)

	got, err := repo.FindByBuyer(context.Background(), seed.cart.BuyerID)
	require.NoError(t, err)
	assert.Equal(t, seed.cart.ID, got.ID)

	_, err = repo.FindByBuyer(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoFindItemByVariation(t *testing.T) {
	db := setupCartTestDB(t)
	seed := seedCart(t, db)
	repo := NewRepository(db)

	got, err := repo.FindItemByVariation(context.Background(), seed.cart.ID, seed.first.VariationID)
	require.NoError(t, err)
	assert.Equal(t, seed.first.ID, got.ID)

	_, err = repo.FindItemByVariation(context.Background(), seed.cart.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoListItemsByVariationIDsPreloads(t *testing.T) {
	db := setupCartTestDB(t)
	seed := seedCart(t, db)
	repo := NewRepository(db)

	items, err := repo.ListItemsByVariationIDs(context.Background(), seed.cart.ID, []uuid.UUID{seed.first.VariationID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Variation)
	require.NotNil(t, items[0].Variation.Product)
	require.NotNil(t, items[0].Variation.Product.Vendor)
	require.NotNil(t, items[0].Variation.Product.Vendor.Profile)
	assert.Equal(t, "Green Acres Farm", items[0].Variation.Product.Vendor.Profile.FullName)
}

func TestRepoDeleteItemsByIDsScopedToCart(t *testing.T) {
	db := setupCartTestDB(t)
	seed := seedCart(t, db)
	repo := NewRepository(db)

	// Deleting with a foreign cart id must not touch the rows.
	require.NoError(t, repo.DeleteItemsByIDs(context.Background(), uuid.New(), []uuid.UUID{seed.first.ID}))
	items, err := repo.ListItems(context.Background(), seed.cart.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, repo.DeleteItemsByIDs(context.Background(), seed.cart.ID, []uuid.UUID{seed.first.ID}))
	items, err = repo.ListItems(context.Background(), seed.cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, seed.second.ID, items[0].ID)

	// Empty id list is a no-op.
	require.NoError(t, repo.DeleteItemsByIDs(context.Background(), seed.cart.ID, nil))
}

func TestRepoSaveItemUpdatesQuantity(t *testing.T) {
	db := setupCartTestDB(t)
	seed := seedCart(t, db)
	repo := NewRepository(db)

	item, err := repo.FindItem(context.Background(), seed.cart.ID, seed.first.ID)
	require.NoError(t, err)

	item.Quantity = 9
	require.NoError(t, repo.SaveItem(context.Background(), item))

	reloaded, err := repo.FindItem(context.Background(), seed.cart.ID, seed.first.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, reloaded.Quantity)
}
