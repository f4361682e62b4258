package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prasetyadi/surya-api/initializers"
	"github.com/prasetyadi/surya-api/services"
)

// currentUser reads the authenticated identity the auth middleware stored in
// the context.
func currentUser(ctx *gin.Context) (services.Customer, bool) {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return services.Customer{}, false
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return services.Customer{}, false
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return services.Customer{}, false
	}
	name, _ := claims["fullname"].(string)
	email, _ := claims["email"].(string)

	return services.Customer{ID: int(userID), Name: name, Email: email}, true
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
func handleServiceError(ctx *gin.Context, err error) {
	var stockErr *services.InsufficientStockError
	var checkoutErr *services.CheckoutError

	switch {
	case errors.As(err, &stockErr):
		sendErrorResponse(ctx, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrCalculationNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidOperation):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidSignature):
		sendErrorResponse(ctx, http.StatusForbidden, err.Error())
	case errors.As(err, &checkoutErr):
		sendErrorResponse(ctx, http.StatusInternalServerError, checkoutErr.Error())
	default:
		log.Println("Unexpected service error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
	}
}

func cartService() *services.CartService {
	return services.NewCartService(initializers.DB)
}

func AddCartItem(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var body struct {
		ProductID int `json:"productId" binding:"required"`
		Quantity  int `json:"quantity" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	item, err := cartService().AddItem(user.ID, body.ProductID, body.Quantity)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": item.Product.Name + " added to cart",
		"item":    item,
	})
}

func GetCart(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	summary, err := cartService().ListWithTotal(user.ID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": summary})
}

func UpdateCartItem(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse cart item id")
		return
	}

	var body struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	item, err := cartService().SetQuantity(user.ID, itemID, body.Quantity)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart updated", "item": item})
}

func IncrementCartItem(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse cart item id")
		return
	}

	item, err := cartService().IncrementQuantity(user.ID, itemID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart updated", "item": item})
}

func DecrementCartItem(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse cart item id")
		return
	}

	item, err := cartService().DecrementQuantity(user.ID, itemID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart updated", "item": item})
}

func RemoveCartItem(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse cart item id")
		return
	}

	if err := cartService().RemoveItem(user.ID, itemID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
}

func ClearCart(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	deleted, err := cartService().Clear(user.ID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Cart cleared",
		"deleted": deleted,
	})
}
