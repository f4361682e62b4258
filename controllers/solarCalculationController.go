package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prasetyadi/surya-api/initializers"
	"github.com/prasetyadi/surya-api/models"
	"github.com/prasetyadi/surya-api/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	solarSvc    = services.NewSolarService()
	externalSvc = services.NewExternalAPIService()
)

type solarCalculationInput struct {
	Address         string   `json:"address" binding:"required,max=500"`
	LandArea        float64  `json:"landArea" binding:"required,gt=0"`
	Latitude        *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	SolarIrradiance *float64 `json:"solarIrradiance" binding:"omitempty,gte=0"`
	PanelEfficiency *float64 `json:"panelEfficiency" binding:"omitempty,gt=0,lte=100"`
	SystemLosses    *float64 `json:"systemLosses" binding:"omitempty,gte=0,lte=100"`
}

type solarCalculationUpdate struct {
	Address         *string  `json:"address" binding:"omitempty,max=500"`
	LandArea        *float64 `json:"landArea" binding:"omitempty,gt=0"`
	Latitude        *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	SolarIrradiance *float64 `json:"solarIrradiance" binding:"omitempty,gte=0"`
	PanelEfficiency *float64 `json:"panelEfficiency" binding:"omitempty,gt=0,lte=100"`
	SystemLosses    *float64 `json:"systemLosses" binding:"omitempty,gte=0,lte=100"`
}

func marshalIrradianceData(data *services.IrradianceData) datatypes.JSON {
	if data == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		log.Println("Failed to marshal irradiance data:", err)
		return nil
	}
	return datatypes.JSON(raw)
}

func findOwnedCalculation(ctx *gin.Context, userID int) (*models.SolarCalculation, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse calculation id")
		return nil, false
	}

	var calculation models.SolarCalculation
	result := initializers.DB.Where("id = ? AND user_id = ?", id, userID).First(&calculation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Calculation not found")
		} else {
			log.Println("Database error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return nil, false
	}
	return &calculation, true
}

// CreateSolarCalculation resolves location and irradiance, sizes the system
// and persists the full input/output snapshot.
func CreateSolarCalculation(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var input solarCalculationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	// Explicit coordinates win; otherwise geocode the address.
	var latitude, longitude float64
	if input.Latitude != nil && input.Longitude != nil {
		latitude = *input.Latitude
		longitude = *input.Longitude
	} else {
		coordinates, err := externalSvc.GeocodeAddress(input.Address)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest,
				"Failed to resolve coordinates from the address. Check the address or provide coordinates manually.")
			return
		}
		latitude = coordinates.Latitude
		longitude = coordinates.Longitude
	}

	var solarIrradiance float64
	var irradianceData *services.IrradianceData
	if input.SolarIrradiance != nil {
		solarIrradiance = *input.SolarIrradiance
		irradianceData = &services.IrradianceData{
			AverageIrradiance: solarIrradiance,
			Source:            services.IrradianceSourceUser,
		}
	} else {
		irradianceData = externalSvc.ResolveIrradiance(latitude, longitude)
		solarIrradiance = irradianceData.AverageIrradiance
	}

	panelEfficiency := services.DefaultPanelEfficiency
	if input.PanelEfficiency != nil {
		panelEfficiency = *input.PanelEfficiency
	}
	systemLosses := services.DefaultSystemLosses
	if input.SystemLosses != nil {
		systemLosses = *input.SystemLosses
	}

	details := solarSvc.CalculateSolarCapacity(input.LandArea, solarIrradiance, panelEfficiency, systemLosses)

	calculation := models.SolarCalculation{
		UserID:                  user.ID,
		Address:                 input.Address,
		Latitude:                latitude,
		Longitude:               longitude,
		LandArea:                input.LandArea,
		SolarIrradiance:         solarIrradiance,
		PanelEfficiency:         panelEfficiency,
		SystemLosses:            systemLosses,
		MaxPowerCapacity:        details.MaxPowerCapacity,
		DailyEnergyProduction:   details.DailyEnergyProduction,
		MonthlyEnergyProduction: details.MonthlyEnergyProduction,
		YearlyEnergyProduction:  details.YearlyEnergyProduction,
		NasaData:                marshalIrradianceData(irradianceData),
	}

	if err := initializers.DB.Create(&calculation).Error; err != nil {
		log.Println("Calculation creation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	financialMetrics := solarSvc.CalculateFinancialMetrics(details.MaxPowerCapacity, details.YearlyEnergyProduction)

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":          "Calculation created successfully",
		"calculation":      calculation,
		"details":          details,
		"financialMetrics": financialMetrics,
	})
}

func GetSolarCalculations(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	offset := (page - 1) * limit

	var calculations []models.SolarCalculation
	result := initializers.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&calculations)
	if result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch calculations")
		return
	}

	var count int64
	initializers.DB.Model(&models.SolarCalculation{}).Where("user_id = ?", user.ID).Count(&count)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"calculations": calculations,
		"metadata": gin.H{
			"total": count,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetSolarCalculation(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	calculation, ok := findOwnedCalculation(ctx, user.ID)
	if !ok {
		return
	}

	financialMetrics := solarSvc.CalculateFinancialMetrics(
		calculation.MaxPowerCapacity,
		calculation.YearlyEnergyProduction,
	)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"calculation":      calculation,
		"financialMetrics": financialMetrics,
	})
}

// UpdateSolarCalculation merges the provided fields into the snapshot and
// recomputes. Coordinates are re-geocoded only when the address changed
// without explicit coordinates; irradiance is re-resolved only when the
// coordinates changed without an explicit value.
func UpdateSolarCalculation(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	calculation, ok := findOwnedCalculation(ctx, user.ID)
	if !ok {
		return
	}

	var input solarCalculationUpdate
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	address := calculation.Address
	latitude := calculation.Latitude
	longitude := calculation.Longitude

	if input.Address != nil && *input.Address != calculation.Address {
		address = *input.Address
		if input.Latitude == nil || input.Longitude == nil {
			if coordinates, err := externalSvc.GeocodeAddress(address); err == nil {
				latitude = coordinates.Latitude
				longitude = coordinates.Longitude
			}
		}
	}
	if input.Latitude != nil {
		latitude = *input.Latitude
	}
	if input.Longitude != nil {
		longitude = *input.Longitude
	}

	solarIrradiance := calculation.SolarIrradiance
	nasaData := calculation.NasaData

	if input.SolarIrradiance != nil {
		solarIrradiance = *input.SolarIrradiance
		nasaData = marshalIrradianceData(&services.IrradianceData{
			AverageIrradiance: solarIrradiance,
			Source:            services.IrradianceSourceUser,
		})
	} else if latitude != calculation.Latitude || longitude != calculation.Longitude {
		irradianceData := externalSvc.ResolveIrradiance(latitude, longitude)
		solarIrradiance = irradianceData.AverageIrradiance
		nasaData = marshalIrradianceData(irradianceData)
	}

	landArea := calculation.LandArea
	if input.LandArea != nil {
		landArea = *input.LandArea
	}
	panelEfficiency := calculation.PanelEfficiency
	if input.PanelEfficiency != nil {
		panelEfficiency = *input.PanelEfficiency
	}
	systemLosses := calculation.SystemLosses
	if input.SystemLosses != nil {
		systemLosses = *input.SystemLosses
	}

	details := solarSvc.CalculateSolarCapacity(landArea, solarIrradiance, panelEfficiency, systemLosses)

	updates := map[string]any{
		"address":                   address,
		"latitude":                  latitude,
		"longitude":                 longitude,
		"land_area":                 landArea,
		"solar_irradiance":          solarIrradiance,
		"panel_efficiency":          panelEfficiency,
		"system_losses":             systemLosses,
		"max_power_capacity":        details.MaxPowerCapacity,
		"daily_energy_production":   details.DailyEnergyProduction,
		"monthly_energy_production": details.MonthlyEnergyProduction,
		"yearly_energy_production":  details.YearlyEnergyProduction,
		"nasa_data":                 nasaData,
	}
	if err := initializers.DB.Model(calculation).Updates(updates).Error; err != nil {
		log.Println("Calculation update error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	financialMetrics := solarSvc.CalculateFinancialMetrics(details.MaxPowerCapacity, details.YearlyEnergyProduction)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message":          "Calculation updated successfully",
		"calculation":      calculation,
		"details":          details,
		"financialMetrics": financialMetrics,
	})
}

func DeleteSolarCalculation(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	calculation, ok := findOwnedCalculation(ctx, user.ID)
	if !ok {
		return
	}

	if err := initializers.DB.Delete(calculation).Error; err != nil {
		log.Println("Calculation delete error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Calculation deleted successfully"})
}

// GetFinancialMetrics recomputes the ROI figures for a stored calculation.
func GetFinancialMetrics(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	calculation, ok := findOwnedCalculation(ctx, user.ID)
	if !ok {
		return
	}

	financialMetrics := solarSvc.CalculateFinancialMetrics(
		calculation.MaxPowerCapacity,
		calculation.YearlyEnergyProduction,
	)

	sendJSONResponse(ctx, http.StatusOK, gin.H{"financialMetrics": financialMetrics})
}
