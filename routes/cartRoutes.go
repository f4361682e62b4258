package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prasetyadi/surya-api/controllers"
	"github.com/prasetyadi/surya-api/middlewares"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.AddCartItem)
		cart.PUT("/:id", controllers.UpdateCartItem)
		cart.PATCH("/:id/increment", controllers.IncrementCartItem)
		cart.PATCH("/:id/decrement", controllers.DecrementCartItem)
		cart.DELETE("/:id", controllers.RemoveCartItem)
		cart.DELETE("", controllers.ClearCart)
	}
}
