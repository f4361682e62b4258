package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prasetyadi/surya-api/controllers"
	"github.com/prasetyadi/surya-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.RequireAuth())
	{
		orders.POST("/checkout", controllers.Checkout)
		orders.GET("", controllers.GetMyOrders)
		orders.GET("/:orderId", controllers.GetMyOrderById)
	}

	admin := server.Group("/admin/orders", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("", controllers.GetOrders)
		admin.GET("/undelivered", controllers.GetUndeliveredOrders)
		admin.PATCH("/:orderId", controllers.UpdateOrderStatus)
	}

	// The gateway authenticates itself through the signature key, not a JWT.
	server.POST("/payment/webhook", controllers.PaymentWebhook)
}
