package services

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	midtransSandboxBaseURL    = "https://app.sandbox.midtrans.com"
	midtransProductionBaseURL = "https://app.midtrans.com"
)

// MidtransConfig is injected into the checkout service instead of living in
// process-wide state. BaseURL overrides the environment-derived default when
// set (tests use this).
type MidtransConfig struct {
	ServerKey    string
	IsProduction bool
	BaseURL      string
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type ItemDetails struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type SnapTransactionRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	ItemDetails        []ItemDetails      `json:"item_details"`
}

type MidtransClient struct {
	config  MidtransConfig
	client  *resty.Client
	baseURL string
}

func NewMidtransClient(config MidtransConfig) *MidtransClient {
	baseURL := config.BaseURL
	if baseURL == "" {
		if config.IsProduction {
			baseURL = midtransProductionBaseURL
		} else {
			baseURL = midtransSandboxBaseURL
		}
	}
	return &MidtransClient{
		config:  config,
		client:  resty.New().SetTimeout(30 * time.Second),
		baseURL: baseURL,
	}
}

// CreateSnapToken asks Snap for a payment session token for the order.
func (c *MidtransClient) CreateSnapToken(request SnapTransactionRequest) (string, error) {
	var result struct {
		Token       string `json:"token"`
		RedirectURL string `json:"redirect_url"`
	}

	resp, err := c.client.R().
		SetBasicAuth(c.config.ServerKey, "").
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(request).
		SetResult(&result).
		Post(c.baseURL + "/snap/v1/transactions")

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return "", fmt.Errorf("%w: status %d: %s", ErrPaymentGateway, resp.StatusCode(), resp.Body())
	}
	if result.Token == "" {
		return "", fmt.Errorf("%w: token missing in response", ErrPaymentGateway)
	}

	return result.Token, nil
}

// VerifySignature checks the webhook signature key against
// sha512(orderNumber + statusCode + grossAmount + serverKey).
func (c *MidtransClient) VerifySignature(orderNumber, statusCode, grossAmount, signatureKey string) bool {
	hash := sha512.Sum512([]byte(orderNumber + statusCode + grossAmount + c.config.ServerKey))
	expected := hex.EncodeToString(hash[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signatureKey)) == 1
}
