package services

import (
	"errors"
	"fmt"

	"github.com/prasetyadi/surya-api/models"
	"gorm.io/gorm"
)

// CartService owns every cart mutation and enforces the quantity/stock
// invariants on each of them.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

type CartSummary struct {
	Items     []models.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

// AddItem creates a cart line for (user, product) or accumulates quantity on
// an existing one. Accumulation is a single conditional UPDATE with the stock
// ceiling in the statement, so two devices adding at once cannot lose an
// update.
func (s *CartService) AddItem(userID, productID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidOperation)
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.Stock < quantity {
		return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
	}

	var item models.CartItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	switch {
	case err == nil:
		result := s.db.Model(&models.CartItem{}).
			Where("id = ?", item.ID).
			Where("quantity + ? <= (?)", quantity, s.db.Model(&models.Product{}).
				Select("stock").
				Where("products.id = cart_items.product_id")).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
		return s.findOwnedItem(userID, int(item.ID))
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	item.Product = product
	return &item, nil
}

// SetQuantity replaces the quantity of a line owned by the user.
func (s *CartService) SetQuantity(userID, itemID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidOperation)
	}

	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Product.Stock < quantity {
		return nil, &InsufficientStockError{ProductName: item.Product.Name, Available: item.Product.Stock}
	}

	if err := s.db.Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// IncrementQuantity bumps a line by one in a single conditional UPDATE so two
// devices incrementing at once cannot lose an update. The stock ceiling is
// part of the statement.
func (s *CartService) IncrementQuantity(userID, itemID int) (*models.CartItem, error) {
	result := s.db.Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Where("quantity < (?)", s.db.Model(&models.Product{}).
			Select("stock").
			Where("products.id = cart_items.product_id")).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", 1))

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the line is missing or the ceiling was hit.
		item, err := s.findOwnedItem(userID, itemID)
		if err != nil {
			return nil, err
		}
		return nil, &InsufficientStockError{ProductName: item.Product.Name, Available: item.Product.Stock}
	}

	return s.findOwnedItem(userID, itemID)
}

// DecrementQuantity drops a line by one but never below 1; callers must use
// RemoveItem to take a line out of the cart.
func (s *CartService) DecrementQuantity(userID, itemID int) (*models.CartItem, error) {
	result := s.db.Model(&models.CartItem{}).
		Where("id = ? AND user_id = ? AND quantity > 1", itemID, userID).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", 1))

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := s.findOwnedItem(userID, itemID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: quantity cannot go below 1, remove the item instead", ErrInvalidOperation)
	}

	return s.findOwnedItem(userID, itemID)
}

// RemoveItem deletes one line owned by the user.
func (s *CartService) RemoveItem(userID, itemID int) error {
	result := s.db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear deletes every line of the user's cart and reports how many went.
func (s *CartService) Clear(userID int) (int64, error) {
	result := s.db.Where("user_id = ?", userID).Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListWithTotal returns the cart joined with product data plus the running
// total and item count.
func (s *CartService) ListWithTotal(userID int) (*CartSummary, error) {
	var items []models.CartItem
	if err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	summary := &CartSummary{Items: items}
	for _, item := range items {
		summary.Total += item.Product.Price * float64(item.Quantity)
		summary.ItemCount += item.Quantity
	}
	return summary, nil
}

func (s *CartService) findOwnedItem(userID, itemID int) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.Preload("Product").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}
