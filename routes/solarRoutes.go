package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prasetyadi/surya-api/controllers"
	"github.com/prasetyadi/surya-api/middlewares"
)

func SolarRoutes(server *gin.Engine) {
	calculations := server.Group("/solar-calculations", middlewares.RequireAuth())
	{
		calculations.POST("", controllers.CreateSolarCalculation)
		calculations.GET("", controllers.GetSolarCalculations)
		calculations.GET("/:id", controllers.GetSolarCalculation)
		calculations.PATCH("/:id", controllers.UpdateSolarCalculation)
		calculations.DELETE("/:id", controllers.DeleteSolarCalculation)
		calculations.GET("/:id/financial", controllers.GetFinancialMetrics)
	}
}
