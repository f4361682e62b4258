package models

import "gorm.io/gorm"

// Order lifecycle statuses. Payment status moves on its own axis.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type Order struct {
	gorm.Model
	UserID          int         `json:"userId"`
	OrderNumber     string      `json:"orderNumber" gorm:"uniqueIndex"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          string      `json:"status"`
	PaymentType     string      `json:"paymentType"`
	PaymentStatus   string      `json:"paymentStatus"`
	SnapToken       string      `json:"snapToken"`
	ShippingAddress string      `json:"shippingAddress"`
	Phone           string      `json:"phone"`
	OrderItems      []OrderItem `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots name and price at purchase time so later product
// edits never change historical orders.
type OrderItem struct {
	gorm.Model
	OrderID   int     `json:"orderId"`
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
