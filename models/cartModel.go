package models

import "gorm.io/gorm"

type CartItem struct {
	gorm.Model
	UserID    int     `json:"userId" gorm:"uniqueIndex:idx_cart_user_product"`
	ProductID int     `json:"productId" gorm:"uniqueIndex:idx_cart_user_product"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}
