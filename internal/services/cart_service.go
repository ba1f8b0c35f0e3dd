package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"boutique/internal/models"
	"boutique/internal/repositories"
)

// CartLine is one row of a rendered cart.
type CartLine struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
	Subtotal  float64 `json:"subtotal"`
}

// CartView is the full cart with its computed total.
type CartView struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

// CartService handles cart mutations with stock-aware reconciliation.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	log      *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, log *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

// AddItem adds qty of a product to the user's cart, merging into the
// existing (user, product) row when there is one. Stock is enforced via a
// guarded increment, and the unique index turns a concurrent duplicate
// insert into a retry of the increment path. Returns the cart count.
func (s *CartService) AddItem(userID, productID uint, qty int) (int64, error) {
	if qty < 1 {
		return 0, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	product, err := s.products.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, fmt.Errorf("%w: product", ErrNotFound)
	}

	existing, err := s.carts.GetByUserAndProduct(userID, productID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		if err := s.increment(existing.ID, qty, product.Stock); err != nil {
			return 0, err
		}
		return s.carts.CountByUser(userID)
	}

	if qty > product.Stock {
		return 0, ErrInsufficientStock
	}
	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	if err := s.carts.Create(item); err != nil {
		// A concurrent add won the insert; fall back to incrementing it.
		raced, lookupErr := s.carts.GetByUserAndProduct(userID, productID)
		if lookupErr != nil || raced == nil {
			return 0, err
		}
		if err := s.increment(raced.ID, qty, product.Stock); err != nil {
			return 0, err
		}
	}
	return s.carts.CountByUser(userID)
}

func (s *CartService) increment(itemID uint, delta, stock int) error {
	ok, err := s.carts.IncrementQuantity(itemID, delta, stock)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientStock
	}
	return nil
}

// UpdateItem overwrites a cart row's quantity. A non-positive quantity
// removes the row. An item the user does not own is reported as not found.
func (s *CartService) UpdateItem(userID, itemID uint, qty int) (int64, error) {
	if qty <= 0 {
		return s.RemoveItem(userID, itemID)
	}
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return 0, err
	}
	product, err := s.products.GetByID(item.ProductID)
	if err != nil {
		return 0, err
	}
	if product != nil && qty > product.Stock {
		return 0, ErrInsufficientStock
	}
	if err := s.carts.SetQuantity(item.ID, qty); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: cart item", ErrNotFound)
		}
		return 0, err
	}
	return s.carts.CountByUser(userID)
}

// RemoveItem deletes an owned cart row and returns the new cart count.
func (s *CartService) RemoveItem(userID, itemID uint) (int64, error) {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return 0, err
	}
	if err := s.carts.Delete(item.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	return s.carts.CountByUser(userID)
}

// ClearCart deletes every cart row for the user.
func (s *CartService) ClearCart(userID uint) error {
	return s.carts.DeleteByUser(userID)
}

// Count returns the number of rows in the user's cart.
func (s *CartService) Count(userID uint) (int64, error) {
	return s.carts.CountByUser(userID)
}

// ViewCart renders the cart with per-line subtotals and the total. Rows
// whose product no longer exists are deleted during the view rather than
// reported.
func (s *CartService) ViewCart(userID uint) (*CartView, error) {
	items, err := s.carts.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: []CartLine{}}
	for _, item := range items {
		if item.Product.ID == 0 {
			// Lazy cleanup of orphaned rows.
			if err := s.carts.Delete(item.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Warn("failed to remove orphaned cart row",
					zap.Uint("item_id", item.ID), zap.Error(err))
			}
			continue
		}
		subtotal := item.Product.Price * float64(item.Quantity)
		view.Items = append(view.Items, CartLine{
			ID:        item.ID,
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			Image:     item.Product.Image,
			Subtotal:  subtotal,
		})
		view.Total += subtotal
	}
	return view, nil
}

func (s *CartService) ownedItem(userID, itemID uint) (*models.CartItem, error) {
	item, err := s.carts.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.UserID != userID {
		return nil, fmt.Errorf("%w: cart item", ErrNotFound)
	}
	return item, nil
}
