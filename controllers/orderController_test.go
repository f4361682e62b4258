package controllers

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prasetyadi/surya-api/initializers"
	"github.com/prasetyadi/surya-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const webhookTestServerKey = "SB-Mid-server-testkey"

func setupWebhookRouter(t *testing.T) *gin.Engine {
	t.Setenv("MIDTRANS_SERVER_KEY", webhookTestServerKey)

	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	initializers.DB = db

	server := gin.New()
	server.POST("/payment/webhook", PaymentWebhook)
	return server
}

func webhookSignature(orderNumber, statusCode, grossAmount string) string {
	hash := sha512.Sum512([]byte(orderNumber + statusCode + grossAmount + webhookTestServerKey))
	return hex.EncodeToString(hash[:])
}

func TestPaymentWebhookSettlement(t *testing.T) {
	server := setupWebhookRouter(t)

	order := models.Order{
		UserID:        1,
		OrderNumber:   "ORD-20250101-AB12CD34",
		TotalAmount:   250,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	if err := initializers.DB.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	body := fmt.Sprintf(`{
		"order_id": "ORD-20250101-AB12CD34",
		"status_code": "200",
		"gross_amount": "250.00",
		"transaction_status": "settlement",
		"payment_type": "gopay",
		"signature_key": %q
	}`, webhookSignature("ORD-20250101-AB12CD34", "200", "250.00"))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var updated models.Order
	initializers.DB.Where("order_number = ?", "ORD-20250101-AB12CD34").First(&updated)
	if updated.PaymentStatus != models.PaymentStatusPaid || updated.Status != models.OrderStatusProcessing {
		t.Fatalf("expected paid/processing, got %s/%s", updated.PaymentStatus, updated.Status)
	}
}

func TestPaymentWebhookRejectsForgedSignature(t *testing.T) {
	server := setupWebhookRouter(t)

	order := models.Order{
		UserID:        1,
		OrderNumber:   "ORD-FORGED",
		TotalAmount:   250,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	if err := initializers.DB.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	body := `{
		"order_id": "ORD-FORGED",
		"status_code": "200",
		"gross_amount": "250.00",
		"transaction_status": "settlement",
		"signature_key": "not-the-real-signature"
	}`

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}

	var untouched models.Order
	initializers.DB.Where("order_number = ?", "ORD-FORGED").First(&untouched)
	if untouched.PaymentStatus != models.PaymentStatusPending || untouched.Status != models.OrderStatusPending {
		t.Fatalf("forged callback must not mutate state, got %s/%s", untouched.PaymentStatus, untouched.Status)
	}
}

func TestPaymentWebhookUnknownOrder(t *testing.T) {
	server := setupWebhookRouter(t)

	body := fmt.Sprintf(`{
		"order_id": "ORD-MISSING",
		"status_code": "200",
		"gross_amount": "250.00",
		"transaction_status": "settlement",
		"signature_key": %q
	}`, webhookSignature("ORD-MISSING", "200", "250.00"))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}
