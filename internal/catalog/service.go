package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog management operations.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateProduct(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, vendorID, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error)
	ListPublishedProducts(ctx context.Context, params pagination.Params) (*ProductPage, error)

	AddVariation(ctx context.Context, vendorID, productID uuid.UUID, input VariationInput) (*models.Variation, error)
	UpdateVariation(ctx context.Context, vendorID, variationID uuid.UUID, input UpdateVariationInput) (*models.Variation, error)
	DeleteVariation(ctx context.Context, vendorID, variationID uuid.UUID) error

	AddVariationImage(ctx context.Context, vendorID, variationID uuid.UUID, imageURL string) (*models.VariationImage, error)
	SetMainImage(ctx context.Context, vendorID, imageID uuid.UUID) error
	RemoveVariationImage(ctx context.Context, vendorID, imageID uuid.UUID) error
}

type service struct {
	categories CategoryRepository
	products   ProductRepository
	variations VariationRepository
	images     VariationImageRepository
	tx         txRunner
}

// NewService builds a catalog service backed by the provided stack.
func NewService(categories CategoryRepository, products ProductRepository, variations VariationRepository, images VariationImageRepository, tx txRunner) (Service, error) {
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if variations == nil {
		return nil, fmt.Errorf("variation repository required")
	}
	if images == nil {
		return nil, fmt.Errorf("image repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{categories: categories, products: products, variations: variations, images: images, tx: tx}, nil
}

// CreateCategoryInput captures the payload for a new category.
type CreateCategoryInput struct {
	Name        string
	Description string
}

// CreateCategory registers a browsing category; its slug derives from the name.
func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	slug, err := uniqueSlug(ctx, s.categories, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive slug")
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
	}
	if _, err := s.categories.Create(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

// ListCategories returns every category ordered by name.
func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

// CreateProductInput captures the payload for a new product listing.
type CreateProductInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description string
	Status      enums.ListingStatus
}

// UpdateProductInput carries the optional product fields to mutate.
type UpdateProductInput struct {
	Name        *string
	Description *string
	CategoryID  *uuid.UUID
	Status      *enums.ListingStatus
}

// VariationInput captures the payload for a new variation.
type VariationInput struct {
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
	IsDefault bool
	Status    enums.ListingStatus
}

// UpdateVariationInput carries the optional variation fields to mutate.
type UpdateVariationInput struct {
	Name        *string
	UnitPrice   *decimal.Decimal
	Stock       *int
	IsAvailable *bool
	IsDefault   *bool
	Status      *enums.ListingStatus
}

func (s *service) CreateProduct(ctx context.Context, vendorID uuid.UUID, input CreateProductInput) (*models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	status := input.Status
	if status == "" {
		status = enums.ListingStatusPublished
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
	}

	slug, err := uniqueSlug(ctx, s.products, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive slug")
	}

	product := &models.Product{
		VendorID:    vendorID,
		CategoryID:  input.CategoryID,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
	}

	if _, err := s.products.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.loadOwnedProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.CategoryID != nil {
		if *input.CategoryID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
		}
		product.Status = *input.Status
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	return product, nil
}

// DeleteProduct soft-deletes the listing and every variation under it so the
// product stops resolving in cart and checkout lookups.
func (s *service) DeleteProduct(ctx context.Context, vendorID, productID uuid.UUID) error {
	product, err := s.loadOwnedProduct(ctx, vendorID, productID)
	if err != nil {
		return err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		product.Status = enums.ListingStatusDeleted
		if err := s.products.WithTx(tx).Save(ctx, product); err != nil {
			return err
		}
		return s.variations.WithTx(tx).MarkDeletedByProduct(ctx, product.ID)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Status == enums.ListingStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.products.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Status == enums.ListingStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	products, err := s.products.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// ProductPage is one page of published products plus the cursor for the next.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ListPublishedProducts returns published listings newest-first.
func (s *service) ListPublishedProducts(ctx context.Context, params pagination.Params) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	products, err := s.products.ListPublished(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &ProductPage{Products: products}
	if len(products) > limit {
		page.Products = products[:limit]
		last := page.Products[len(page.Products)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) AddVariation(ctx context.Context, vendorID, productID uuid.UUID, input VariationInput) (*models.Variation, error) {
	product, err := s.loadOwnedProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variation name is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	status := input.Status
	if status == "" {
		status = enums.ListingStatusPublished
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid variation status")
	}

	variation := &models.Variation{
		ProductID:   product.ID,
		Name:        name,
		UnitPrice:   input.UnitPrice,
		Stock:       input.Stock,
		IsAvailable: input.Stock > 0,
		IsDefault:   input.IsDefault,
		Status:      status,
	}

	if _, err := s.variations.Create(ctx, variation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variation")
	}
	return variation, nil
}

func (s *service) UpdateVariation(ctx context.Context, vendorID, variationID uuid.UUID, input UpdateVariationInput) (*models.Variation, error) {
	variation, err := s.loadOwnedVariation(ctx, vendorID, variationID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variation name cannot be empty")
		}
		variation.Name = name
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		variation.UnitPrice = *input.UnitPrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		variation.Stock = *input.Stock
		// manual restock brings the listing back
		if variation.Stock > 0 && variation.Status == enums.ListingStatusOutOfStock {
			variation.Status = enums.ListingStatusPublished
			variation.IsAvailable = true
		}
	}
	if input.IsAvailable != nil {
		variation.IsAvailable = *input.IsAvailable
	}
	if input.IsDefault != nil {
		variation.IsDefault = *input.IsDefault
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid variation status")
		}
		variation.Status = *input.Status
	}

	if err := s.variations.Save(ctx, variation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save variation")
	}
	return variation, nil
}

func (s *service) DeleteVariation(ctx context.Context, vendorID, variationID uuid.UUID) error {
	variation, err := s.loadOwnedVariation(ctx, vendorID, variationID)
	if err != nil {
		return err
	}
	variation.Status = enums.ListingStatusDeleted
	variation.IsAvailable = false
	if err := s.variations.Save(ctx, variation); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variation")
	}
	return nil
}

// AddVariationImage stores the image; the first image of a variation becomes main.
func (s *service) AddVariationImage(ctx context.Context, vendorID, variationID uuid.UUID, imageURL string) (*models.VariationImage, error) {
	if _, err := s.loadOwnedVariation(ctx, vendorID, variationID); err != nil {
		return nil, err
	}
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}

	var image *models.VariationImage
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.images.WithTx(tx)
		count, err := repo.CountByVariation(ctx, variationID)
		if err != nil {
			return err
		}
		image = &models.VariationImage{
			VariationID: variationID,
			ImageURL:    imageURL,
			IsMain:      count == 0,
		}
		_, err = repo.Create(ctx, image)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image")
	}
	return image, nil
}

// SetMainImage flips the main flag to the given image, clearing any sibling.
func (s *service) SetMainImage(ctx context.Context, vendorID, imageID uuid.UUID) error {
	image, err := s.loadOwnedImage(ctx, vendorID, imageID)
	if err != nil {
		return err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.images.WithTx(tx)
		if err := repo.ClearMain(ctx, image.VariationID); err != nil {
			return err
		}
		return repo.SetMain(ctx, image.ID, true)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set main image")
	}
	return nil
}

// RemoveVariationImage deletes the image; if it was main, the oldest remaining
// image is promoted so a variation with images always has exactly one main.
func (s *service) RemoveVariationImage(ctx context.Context, vendorID, imageID uuid.UUID) error {
	image, err := s.loadOwnedImage(ctx, vendorID, imageID)
	if err != nil {
		return err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.images.WithTx(tx)
		if err := repo.Delete(ctx, image.ID); err != nil {
			return err
		}
		if !image.IsMain {
			return nil
		}
		remaining, err := repo.ListByVariation(ctx, image.VariationID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		return repo.SetMain(ctx, remaining[0].ID, true)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove image")
	}
	return nil
}

func (s *service) loadOwnedProduct(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}
	return product, nil
}

func (s *service) loadOwnedVariation(ctx context.Context, vendorID, variationID uuid.UUID) (*models.Variation, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	variation, err := s.variations.FindByIDWithVendor(ctx, variationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variation")
	}
	if variation.Product == nil || variation.Product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "variation belongs to another vendor")
	}
	return variation, nil
}

func (s *service) loadOwnedImage(ctx context.Context, vendorID, imageID uuid.UUID) (*models.VariationImage, error) {
	image, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load image")
	}
	if _, err := s.loadOwnedVariation(ctx, vendorID, image.VariationID); err != nil {
		return nil, err
	}
	return image, nil
}
