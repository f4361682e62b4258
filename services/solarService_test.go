package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSolarCapacity(t *testing.T) {
	svc := NewSolarService()

	result := svc.CalculateSolarCapacity(100, 5.0, DefaultPanelEfficiency, DefaultSystemLosses)

	assert.Equal(t, 75.0, result.UsableArea)
	assert.Equal(t, 15.0, result.MaxPowerCapacity)
	assert.Equal(t, 86.0, result.PerformanceRatio)
	assert.Equal(t, 64.5, result.DailyEnergyProduction)
	assert.Equal(t, 1935.0, result.MonthlyEnergyProduction)
	assert.Equal(t, 23542.5, result.YearlyEnergyProduction)
	assert.Equal(t, 20.0, result.PanelEfficiency)
	assert.Equal(t, 14.0, result.SystemLosses)
}

func TestCalculateSolarCapacityProductionRatios(t *testing.T) {
	svc := NewSolarService()

	result := svc.CalculateSolarCapacity(230, 4.37, 18.5, 11)

	assert.InDelta(t, result.DailyEnergyProduction*30, result.MonthlyEnergyProduction, 0.01)
	assert.InDelta(t, result.DailyEnergyProduction*365, result.YearlyEnergyProduction, 0.05)
}

func TestCalculateSolarCapacityZeroIrradiance(t *testing.T) {
	svc := NewSolarService()

	result := svc.CalculateSolarCapacity(100, 0, DefaultPanelEfficiency, DefaultSystemLosses)

	assert.Equal(t, 15.0, result.MaxPowerCapacity)
	assert.Equal(t, 0.0, result.DailyEnergyProduction)
	assert.Equal(t, 0.0, result.YearlyEnergyProduction)
}

func TestCalculateFinancialMetrics(t *testing.T) {
	svc := NewSolarService()

	metrics := svc.CalculateFinancialMetrics(15.0, 23542.5)

	assert.Equal(t, 225000000.0, metrics.InstallationCost)
	assert.InDelta(t, 34011849.75, metrics.YearlySavings, 0.01)
	require.NotNil(t, metrics.PaybackPeriodYears)
	assert.InDelta(t, 6.62, *metrics.PaybackPeriodYears, 0.01)
	require.NotNil(t, metrics.ROI25Years)
	assert.InDelta(t, 277.91, *metrics.ROI25Years, 0.05)
}

func TestCalculateFinancialMetricsCustomPricing(t *testing.T) {
	svc := &SolarService{InstallationCostPerKW: 10000000, ElectricityTariff: 2000}

	metrics := svc.CalculateFinancialMetrics(10.0, 15000)

	assert.Equal(t, 100000000.0, metrics.InstallationCost)
	assert.Equal(t, 30000000.0, metrics.YearlySavings)
	require.NotNil(t, metrics.PaybackPeriodYears)
	assert.InDelta(t, 3.33, *metrics.PaybackPeriodYears, 0.01)
	require.NotNil(t, metrics.ROI25Years)
	assert.Equal(t, 650.0, *metrics.ROI25Years)
}

func TestCalculateFinancialMetricsZeroSavings(t *testing.T) {
	svc := NewSolarService()

	metrics := svc.CalculateFinancialMetrics(15.0, 0)

	assert.Equal(t, 225000000.0, metrics.InstallationCost)
	assert.Equal(t, 0.0, metrics.YearlySavings)
	assert.Nil(t, metrics.PaybackPeriodYears, "payback is not applicable when nothing is saved")
	require.NotNil(t, metrics.ROI25Years)
	assert.Equal(t, -100.0, *metrics.ROI25Years)
}
