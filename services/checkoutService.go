package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prasetyadi/surya-api/models"
	"github.com/prasetyadi/surya-api/utils"
	"gorm.io/gorm"
)

// Customer is the authenticated identity a checkout runs on behalf of. It is
// taken from the verified token claims and trusted as-is.
type Customer struct {
	ID    int
	Name  string
	Email string
}

type CheckoutInput struct {
	ShippingAddress string
	Phone           string
}

type CheckoutResult struct {
	Order     models.Order `json:"order"`
	SnapToken string       `json:"snapToken"`
}

// PaymentNotification is the webhook payload Midtrans posts after the payer
// acts on the Snap session.
type PaymentNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	SignatureKey      string `json:"signature_key"`
}

// CheckoutService converts carts into orders inside one transaction and
// reconciles asynchronous payment callbacks against order state.
type CheckoutService struct {
	db      *gorm.DB
	gateway *MidtransClient
}

func NewCheckoutService(db *gorm.DB, gateway *MidtransClient) *CheckoutService {
	return &CheckoutService{db: db, gateway: gateway}
}

func generateOrderNumber() (string, error) {
	code, err := utils.GenerateCode(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), strings.ToUpper(code)), nil
}

// Checkout turns the customer's cart into an order. Order, items, stock
// decrements, the gateway call and the cart clearing run as one unit: any
// failure rolls everything back and surfaces as a CheckoutError.
func (s *CheckoutService) Checkout(customer Customer, input CheckoutInput) (*CheckoutResult, error) {
	var cartItems []models.CartItem
	if err := s.db.Preload("Product").
		Where("user_id = ?", customer.ID).
		Find(&cartItems).Error; err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	// Stock may have moved since the items were added; re-check before
	// starting the unit. The decrement below re-validates atomically.
	for _, item := range cartItems {
		if item.Product.Stock < item.Quantity {
			return nil, &InsufficientStockError{
				ProductName: item.Product.Name,
				Available:   item.Product.Stock,
			}
		}
	}

	var totalAmount float64
	for _, item := range cartItems {
		totalAmount += item.Product.Price * float64(item.Quantity)
	}

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, &CheckoutError{Err: err}
	}

	order := models.Order{
		UserID:          customer.ID,
		OrderNumber:     orderNumber,
		TotalAmount:     totalAmount,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: input.ShippingAddress,
		Phone:           input.Phone,
	}

	var snapToken string
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range cartItems {
			orderItem := models.OrderItem{
				OrderID:   int(order.ID),
				ProductID: item.ProductID,
				Name:      item.Product.Name,
				Price:     item.Product.Price,
				Quantity:  item.Quantity,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			// Conditional decrement closes the check-then-act race: a
			// concurrent checkout that drained the stock makes this touch
			// zero rows and aborts the whole unit.
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var product models.Product
				if err := tx.First(&product, item.ProductID).Error; err != nil {
					return err
				}
				return &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
			}
		}

		request := SnapTransactionRequest{
			TransactionDetails: TransactionDetails{
				OrderID:     order.OrderNumber,
				GrossAmount: int64(totalAmount),
			},
			CustomerDetails: CustomerDetails{
				FirstName: customer.Name,
				Email:     customer.Email,
				Phone:     input.Phone,
			},
		}
		for _, item := range cartItems {
			request.ItemDetails = append(request.ItemDetails, ItemDetails{
				ID:       strconv.Itoa(item.ProductID),
				Price:    int64(item.Product.Price),
				Quantity: item.Quantity,
				Name:     item.Product.Name,
			})
		}

		token, err := s.gateway.CreateSnapToken(request)
		if err != nil {
			return err
		}
		snapToken = token

		if err := tx.Model(&order).UpdateColumn("snap_token", token).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", customer.ID).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		return nil, &CheckoutError{Err: txErr}
	}

	var created models.Order
	if err := s.db.Preload("OrderItems").First(&created, order.ID).Error; err != nil {
		return nil, err
	}

	return &CheckoutResult{Order: created, SnapToken: snapToken}, nil
}

// HandlePaymentNotification validates and applies one gateway callback.
// Replays are safe: each transition sets the same target state again.
// Unrecognized transaction statuses are acknowledged without touching the
// order.
func (s *CheckoutService) HandlePaymentNotification(notification PaymentNotification) (*models.Order, error) {
	if !s.gateway.VerifySignature(
		notification.OrderID,
		notification.StatusCode,
		notification.GrossAmount,
		notification.SignatureKey,
	) {
		return nil, ErrInvalidSignature
	}

	var order models.Order
	err := s.db.Where("order_number = ?", notification.OrderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	var updates map[string]any
	switch notification.TransactionStatus {
	case "capture":
		if notification.FraudStatus == "accept" {
			updates = map[string]any{
				"payment_status": models.PaymentStatusPaid,
				"status":         models.OrderStatusProcessing,
				"payment_type":   notification.PaymentType,
			}
		}
	case "settlement":
		updates = map[string]any{
			"payment_status": models.PaymentStatusPaid,
			"status":         models.OrderStatusProcessing,
			"payment_type":   notification.PaymentType,
		}
	case "pending":
		updates = map[string]any{
			"payment_status": models.PaymentStatusPending,
			"payment_type":   notification.PaymentType,
		}
	case "deny", "expire", "cancel":
		updates = map[string]any{
			"payment_status": models.PaymentStatusFailed,
			"status":         models.OrderStatusCancelled,
		}
	}

	if updates != nil {
		if err := s.db.Model(&order).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &order, nil
}

// orderStatusTransitions is the fulfillment lifecycle admins can drive.
var orderStatusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusCompleted},
}

// AdvanceOrderStatus moves an order along its lifecycle, refusing jumps the
// state machine does not allow.
func (s *CheckoutService) AdvanceOrderStatus(orderID int, status string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	allowed := false
	for _, next := range orderStatusTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidOperation, order.Status, status)
	}

	if err := s.db.Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
