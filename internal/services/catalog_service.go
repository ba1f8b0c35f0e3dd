package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"boutique/internal/models"
	"boutique/internal/repositories"
)

// PageSize is the storefront page size.
const PageSize = 30

const relatedLimit = 4

// ProductPage is one page of the active catalog.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	HasNext    bool             `json:"has_next"`
	HasPrev    bool             `json:"has_prev"`
}

// ProductInput carries the fields a product write may supply. Pointers
// distinguish "absent" from "zero" so updates stay partial.
type ProductInput struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Details     *string  `json:"details"`
	Size        *string  `json:"size"`
	Color       *string  `json:"color"`
}

// CatalogService handles product listing and admin product CRUD.
type CatalogService struct {
	products repositories.ProductRepository
	log      *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products repositories.ProductRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, log: log}
}

// ListActive returns one storefront page of Active products.
func (s *CatalogService) ListActive(page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.products.CountActive()
	if err != nil {
		return nil, err
	}
	totalPages := int((total + PageSize - 1) / PageSize)
	products, err := s.products.ListActive((page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Products:   products,
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && totalPages > 0,
	}, nil
}

// Get returns a product and up to four Active products sharing its
// category label.
func (s *CatalogService) Get(id uint) (*models.Product, []models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("%w: product", ErrNotFound)
	}
	related, err := s.products.ListRelated(product.Category, product.ID, relatedLimit)
	if err != nil {
		s.log.Warn("failed to load related products", zap.Uint("product_id", id), zap.Error(err))
		related = nil
	}
	return product, related, nil
}

// ListByCategory returns Active products with an exactly matching label.
func (s *CatalogService) ListByCategory(category string) ([]models.Product, error) {
	return s.products.ListByCategory(category)
}

// ListAll returns every product regardless of status, for the back office.
func (s *CatalogService) ListAll() ([]models.Product, error) {
	return s.products.ListAll()
}

// Create validates required fields, derives the status from stock, and
// persists the product.
func (s *CatalogService) Create(input ProductInput) (*models.Product, error) {
	var missing []string
	if input.Name == nil || *input.Name == "" {
		missing = append(missing, "name")
	}
	if input.Category == nil || *input.Category == "" {
		missing = append(missing, "category")
	}
	if input.Price == nil {
		missing = append(missing, "price")
	}
	if input.Stock == nil {
		missing = append(missing, "stock")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %v", ErrValidation, missing)
	}
	if *input.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if *input.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}

	product := &models.Product{
		Name:     *input.Name,
		Category: *input.Category,
		Price:    *input.Price,
		Stock:    *input.Stock,
		Status:   models.DeriveStatus(*input.Stock),
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Details != nil {
		product.Details = *input.Details
	}
	if input.Size != nil {
		product.Size = *input.Size
	}
	if input.Color != nil {
		product.Color = *input.Color
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies a partial update: only supplied fields change, and a
// touched stock re-derives the status.
func (s *CatalogService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product", ErrNotFound)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
		}
		product.Price = *input.Price
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Details != nil {
		product.Details = *input.Details
	}
	if input.Size != nil {
		product.Size = *input.Size
	}
	if input.Color != nil {
		product.Color = *input.Color
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
		}
		product.Stock = *input.Stock
		product.Status = models.DeriveStatus(*input.Stock)
	}

	if err := s.products.Update(product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

// Delete removes a product from the catalog.
func (s *CatalogService) Delete(id uint) error {
	if err := s.products.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product", ErrNotFound)
		}
		return err
	}
	return nil
}
