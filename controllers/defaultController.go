package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Surya API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account
- POST "/auth/verify-email/:activationToken" - Activate user account
- POST "/auth/forgot-password" - Request password reset
- POST "/auth/reset-password/:resetToken" - Reset user password

PRODUCT
- GET "/products" - List active products
- GET "/products/:id" - Get product by ID
- POST "/products" - Create product (admin)
- PATCH "/products/:id" - Update product (admin)
- DELETE "/products/:id" - Delete product (admin)

SOLAR CALCULATIONS
- POST "/solar-calculations" - Run and store an estimation
- GET "/solar-calculations" - List own estimations
- GET "/solar-calculations/:id" - Get one estimation
- PATCH "/solar-calculations/:id" - Update and recompute
- DELETE "/solar-calculations/:id" - Delete an estimation
- GET "/solar-calculations/:id/financial" - Financial metrics only

CART
- GET "/cart" - View cart with total
- POST "/cart" - Add product to cart
- PUT "/cart/:id" - Set line quantity
- PATCH "/cart/:id/increment" - Bump quantity by one
- PATCH "/cart/:id/decrement" - Drop quantity by one
- DELETE "/cart/:id" - Remove a line
- DELETE "/cart" - Clear the cart

ORDER
- POST "/orders/checkout" - Convert cart to order and get a payment token
- GET "/orders" - List own orders
- GET "/orders/:orderId" - Get own order by ID
- POST "/payment/webhook" - Payment gateway notifications

DASHBOARD
- GET "/dashboard/home"
- GET "/dashboard/statistics"
- GET "/dashboard/recent-calculations"`

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
