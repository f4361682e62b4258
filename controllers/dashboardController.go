package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prasetyadi/surya-api/initializers"
	"github.com/prasetyadi/surya-api/models"
)

// DashboardHome returns the user's latest calculation, a handful of active
// products and headline statistics in one call.
func DashboardHome(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var lastCheck gin.H
	var lastCalculation models.SolarCalculation
	err := initializers.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").
		First(&lastCalculation).Error
	if err == nil {
		financialMetrics := solarSvc.CalculateFinancialMetrics(
			lastCalculation.MaxPowerCapacity,
			lastCalculation.YearlyEnergyProduction,
		)
		lastCheck = gin.H{
			"calculation":      lastCalculation,
			"financialMetrics": financialMetrics,
			"checkedAt":        lastCalculation.CreatedAt,
		}
	}

	var products []models.Product
	if err := initializers.DB.Where("is_active = ?", true).
		Order("created_at desc").
		Limit(6).
		Find(&products).Error; err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	var totalCalculations, totalProductsAvailable int64
	initializers.DB.Model(&models.SolarCalculation{}).Where("user_id = ?", user.ID).Count(&totalCalculations)
	initializers.DB.Model(&models.Product{}).Where("is_active = ? AND stock > 0", true).Count(&totalProductsAvailable)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"lastCheck": lastCheck,
		"products":  products,
		"statistics": gin.H{
			"totalCalculations":      totalCalculations,
			"totalProductsAvailable": totalProductsAvailable,
		},
		"user": gin.H{
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// DashboardStatistics aggregates the user's calculation history.
func DashboardStatistics(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var totalCalculations int64
	initializers.DB.Model(&models.SolarCalculation{}).
		Where("user_id = ?", user.ID).
		Count(&totalCalculations)

	var totals struct {
		TotalEnergyPotential float64
		AveragePowerCapacity float64
	}
	initializers.DB.Model(&models.SolarCalculation{}).
		Where("user_id = ?", user.ID).
		Select("COALESCE(SUM(yearly_energy_production), 0) as total_energy_potential, COALESCE(AVG(max_power_capacity), 0) as average_power_capacity").
		Scan(&totals)

	var lastCalculation models.SolarCalculation
	stats := gin.H{
		"totalCalculations":    totalCalculations,
		"totalEnergyPotential": totals.TotalEnergyPotential,
		"averagePowerCapacity": totals.AveragePowerCapacity,
	}
	if err := initializers.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").
		First(&lastCalculation).Error; err == nil {
		stats["lastCalculationDate"] = lastCalculation.CreatedAt
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"statistics": stats})
}

// RecentCalculations returns the user's latest calculations for the history
// panel.
func RecentCalculations(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}

	var calculations []models.SolarCalculation
	if err := initializers.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(limit).
		Find(&calculations).Error; err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch calculations")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"calculations": calculations})
}
