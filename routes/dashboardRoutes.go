package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prasetyadi/surya-api/controllers"
	"github.com/prasetyadi/surya-api/middlewares"
)

func DashboardRoutes(server *gin.Engine) {
	dashboard := server.Group("/dashboard", middlewares.RequireAuth())
	{
		dashboard.GET("/home", controllers.DashboardHome)
		dashboard.GET("/statistics", controllers.DashboardStatistics)
		dashboard.GET("/recent-calculations", controllers.RecentCalculations)
	}
}
