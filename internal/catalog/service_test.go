package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/pagination"
)

type stubCategoryRepo struct {
	categories map[uuid.UUID]*models.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: map[uuid.UUID]*models.Category{}}
}

func (s *stubCategoryRepo) WithTx(tx *gorm.DB) CategoryRepository { return s }

func (s *stubCategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, category := range s.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (s *stubCategoryRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, category := range s.categories {
		if category.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	listed   []models.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) ProductRepository { return s }

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) Save(ctx context.Context, product *models.Product) error {
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	for _, product := range s.products {
		if product.Slug == slug {
			return product, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := s.FindBySlug(ctx, slug)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *stubProductRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, product := range s.products {
		if product.VendorID == vendorID && product.Status != enums.ListingStatusDeleted {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (s *stubProductRepo) ListPublished(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	out := s.listed
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubVariationRepo struct {
	variations       map[uuid.UUID]*models.Variation
	deletedProductID uuid.UUID
}

func newStubVariationRepo() *stubVariationRepo {
	return &stubVariationRepo{variations: map[uuid.UUID]*models.Variation{}}
}

func (s *stubVariationRepo) WithTx(tx *gorm.DB) VariationRepository { return s }

func (s *stubVariationRepo) Create(ctx context.Context, variation *models.Variation) (*models.Variation, error) {
	if variation.ID == uuid.Nil {
		variation.ID = uuid.New()
	}
	s.variations[variation.ID] = variation
	return variation, nil
}

func (s *stubVariationRepo) Save(ctx context.Context, variation *models.Variation) error {
	s.variations[variation.ID] = variation
	return nil
}

func (s *stubVariationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Variation, error) {
	variation, ok := s.variations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return variation, nil
}

func (s *stubVariationRepo) FindByIDWithVendor(ctx context.Context, id uuid.UUID) (*models.Variation, error) {
	return s.FindByID(ctx, id)
}

func (s *stubVariationRepo) MarkDeletedByProduct(ctx context.Context, productID uuid.UUID) error {
	s.deletedProductID = productID
	for _, variation := range s.variations {
		if variation.ProductID == productID {
			variation.Status = enums.ListingStatusDeleted
			variation.IsAvailable = false
		}
	}
	return nil
}

type stubImageRepo struct {
	images   map[uuid.UUID]*models.VariationImage
	mainSets []uuid.UUID
}

func newStubImageRepo() *stubImageRepo {
	return &stubImageRepo{images: map[uuid.UUID]*models.VariationImage{}}
}

func (s *stubImageRepo) WithTx(tx *gorm.DB) VariationImageRepository { return s }

func (s *stubImageRepo) Create(ctx context.Context, image *models.VariationImage) (*models.VariationImage, error) {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	image.UploadedAt = time.Now()
	s.images[image.ID] = image
	return image, nil
}

func (s *stubImageRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.VariationImage, error) {
	image, ok := s.images[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return image, nil
}

func (s *stubImageRepo) ListByVariation(ctx context.Context, variationID uuid.UUID) ([]models.VariationImage, error) {
	var out []models.VariationImage
	for _, image := range s.images {
		if image.VariationID == variationID {
			out = append(out, *image)
		}
	}
	return out, nil
}

func (s *stubImageRepo) ClearMain(ctx context.Context, variationID uuid.UUID) error {
	for _, image := range s.images {
		if image.VariationID == variationID {
			image.IsMain = false
		}
	}
	return nil
}

func (s *stubImageRepo) SetMain(ctx context.Context, imageID uuid.UUID, main bool) error {
	image, ok := s.images[imageID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	image.IsMain = main
	s.mainSets = append(s.mainSets, imageID)
	return nil
}

func (s *stubImageRepo) Delete(ctx context.Context, imageID uuid.UUID) error {
	delete(s.images, imageID)
	return nil
}

func (s *stubImageRepo) CountByVariation(ctx context.Context, variationID uuid.UUID) (int64, error) {
	var count int64
	for _, image := range s.images {
		if image.VariationID == variationID {
			count++
		}
	}
	return count, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type catalogFixture struct {
	svc        Service
	categories *stubCategoryRepo
	products   *stubProductRepo
	variations *stubVariationRepo
	images     *stubImageRepo
	vendorID   uuid.UUID
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	categories := newStubCategoryRepo()
	products := newStubProductRepo()
	variations := newStubVariationRepo()
	images := newStubImageRepo()
	svc, err := NewService(categories, products, variations, images, stubTxRunner{})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return &catalogFixture{
		svc:        svc,
		categories: categories,
		products:   products,
		variations: variations,
		images:     images,
		vendorID:   uuid.New(),
	}
}

func (f *catalogFixture) seedProduct(t *testing.T) *models.Product {
	t.Helper()

	product, err := f.svc.CreateProduct(context.Background(), f.vendorID, CreateProductInput{
		CategoryID: uuid.New(),
		Name:       "Fresh Eggs",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return product
}

func (f *catalogFixture) seedVariation(t *testing.T, product *models.Product) *models.Variation {
	t.Helper()

	variation := &models.Variation{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Name:        "Tray of 12",
		Stock:       10,
		IsAvailable: true,
		Status:      enums.ListingStatusPublished,
		Product:     product,
	}
	f.variations.variations[variation.ID] = variation
	return variation
}

func TestCreateCategory(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	category, err := f.svc.CreateCategory(context.Background(), CreateCategoryInput{
		Name:        "  Dairy & Eggs  ",
		Description: "Dairy products and eggs",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category.Name != "Dairy & Eggs" {
		t.Fatalf("name = %q, want trimmed", category.Name)
	}
	if category.Slug != "dairy-eggs" {
		t.Fatalf("slug = %q, want dairy-eggs", category.Slug)
	}

	dup, err := f.svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Dairy & Eggs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup.Slug != "dairy-eggs-1" {
		t.Fatalf("slug = %q, want dairy-eggs-1", dup.Slug)
	}

	listed, err := f.svc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d categories, want 2", len(listed))
	}
}

func TestCreateCategoryRequiresName(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	_, err := f.svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateProductSlugCollision(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	first := f.seedProduct(t)
	if first.Slug != "fresh-eggs" {
		t.Fatalf("slug = %q, want fresh-eggs", first.Slug)
	}

	second, err := f.svc.CreateProduct(context.Background(), f.vendorID, CreateProductInput{
		CategoryID: uuid.New(),
		Name:       "Fresh Eggs",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Slug != "fresh-eggs-1" {
		t.Fatalf("slug = %q, want fresh-eggs-1", second.Slug)
	}
}

func TestDeleteProductCascadesToVariations(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	product := f.seedProduct(t)
	variation := f.seedVariation(t, product)

	if err := f.svc.DeleteProduct(context.Background(), f.vendorID, product.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Status != enums.ListingStatusDeleted {
		t.Fatalf("product status = %s, want deleted", product.Status)
	}
	if f.variations.deletedProductID != product.ID {
		t.Fatal("variations under the product must be marked deleted")
	}
	if variation.Status != enums.ListingStatusDeleted || variation.IsAvailable {
		t.Fatal("variation must be deleted and unavailable")
	}

	_, err := f.svc.GetProduct(context.Background(), product.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("deleted product must read as missing, got %v", err)
	}
}

func TestDeleteProductForeignVendor(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	product := f.seedProduct(t)

	err := f.svc.DeleteProduct(context.Background(), uuid.New(), product.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Status == enums.ListingStatusDeleted {
		t.Fatal("foreign vendor must not delete the product")
	}
}

func TestListPublishedProductsPaginates(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	now := time.Now()
	for i := 0; i < 3; i++ {
		f.products.listed = append(f.products.listed, models.Product{
			ID:        uuid.New(),
			Name:      "Listing",
			Status:    enums.ListingStatusPublished,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	page, err := f.svc.ListPublishedProducts(context.Background(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Products) != 2 {
		t.Fatalf("got %d products, want 2", len(page.Products))
	}
	if page.NextCursor == "" {
		t.Fatal("expected a cursor for the next page")
	}

	_, err = f.svc.ListPublishedProducts(context.Background(), pagination.Params{Cursor: "not-a-cursor"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddVariationImageFirstBecomesMain(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	product := f.seedProduct(t)
	variation := f.seedVariation(t, product)

	first, err := f.svc.AddVariationImage(context.Background(), f.vendorID, variation.ID, "https://img.example.com/a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.IsMain {
		t.Fatal("first image must become main")
	}

	second, err := f.svc.AddVariationImage(context.Background(), f.vendorID, variation.ID, "https://img.example.com/b.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.IsMain {
		t.Fatal("second image must not replace main")
	}
}

func TestRemoveMainImagePromotesRemaining(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	product := f.seedProduct(t)
	variation := f.seedVariation(t, product)

	main, err := f.svc.AddVariationImage(context.Background(), f.vendorID, variation.ID, "https://img.example.com/a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AddVariationImage(context.Background(), f.vendorID, variation.ID, "https://img.example.com/b.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.RemoveVariationImage(context.Background(), f.vendorID, main.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	remaining, err := f.images.ListByVariation(context.Background(), variation.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("got %d images, want 1", len(remaining))
	}
	if !remaining[0].IsMain {
		t.Fatal("surviving image must be promoted to main")
	}
}
