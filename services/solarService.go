package services

import "math"

const (
	// 75% of the land can actually hold panels.
	panelAreaRatio = 0.75
	// Standard test condition, 1 kW/m².
	standardTestCondition = 1.0

	DefaultPanelEfficiency = 20.0
	DefaultSystemLosses    = 14.0

	// Rp per installed kW and Rp per kWh (PLN residential tariff).
	DefaultInstallationCostPerKW = 15000000.0
	DefaultElectricityTariff     = 1444.70
)

// SolarCapacity holds the sizing outputs of one estimation run. Peak sun
// hours are treated as numerically equal to the average irradiance.
type SolarCapacity struct {
	UsableArea              float64 `json:"usableArea"`
	MaxPowerCapacity        float64 `json:"maxPowerCapacity"`
	DailyEnergyProduction   float64 `json:"dailyEnergyProduction"`
	MonthlyEnergyProduction float64 `json:"monthlyEnergyProduction"`
	YearlyEnergyProduction  float64 `json:"yearlyEnergyProduction"`
	PanelEfficiency         float64 `json:"panelEfficiency"`
	SystemLosses            float64 `json:"systemLosses"`
	PerformanceRatio        float64 `json:"performanceRatio"`
}

type FinancialMetrics struct {
	InstallationCost float64 `json:"installationCost"`
	YearlySavings    float64 `json:"yearlySavings"`
	// Nil when yearly savings are zero: the installation never pays back.
	PaybackPeriodYears *float64 `json:"paybackPeriodYears"`
	ROI25Years         *float64 `json:"roi25Years"`
}

// SolarService carries the pricing inputs of the financial formulas.
// NewSolarService fills them with the national defaults; callers with local
// tariffs set their own.
type SolarService struct {
	InstallationCostPerKW float64
	ElectricityTariff     float64
}

func NewSolarService() *SolarService {
	return &SolarService{
		InstallationCostPerKW: DefaultInstallationCostPerKW,
		ElectricityTariff:     DefaultElectricityTariff,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateSolarCapacity sizes a system for landArea m² of land receiving
// solarIrradiance kWh/m²/day. panelEfficiency and systemLosses are percentages;
// callers fall back to DefaultPanelEfficiency / DefaultSystemLosses.
func (s *SolarService) CalculateSolarCapacity(landArea, solarIrradiance, panelEfficiency, systemLosses float64) SolarCapacity {
	usableArea := landArea * panelAreaRatio
	maxPowerCapacity := usableArea * (panelEfficiency / 100) * standardTestCondition
	performanceRatio := 1 - systemLosses/100
	daily := maxPowerCapacity * solarIrradiance * performanceRatio

	return SolarCapacity{
		UsableArea:              round2(usableArea),
		MaxPowerCapacity:        round2(maxPowerCapacity),
		DailyEnergyProduction:   round2(daily),
		MonthlyEnergyProduction: round2(daily * 30),
		YearlyEnergyProduction:  round2(daily * 365),
		PanelEfficiency:         panelEfficiency,
		SystemLosses:            systemLosses,
		PerformanceRatio:        round2(performanceRatio * 100),
	}
}

// CalculateFinancialMetrics derives cost, savings and payback figures from a
// sized system.
func (s *SolarService) CalculateFinancialMetrics(maxPowerCapacity, yearlyEnergyProduction float64) FinancialMetrics {
	installationCost := maxPowerCapacity * s.InstallationCostPerKW
	yearlySavings := yearlyEnergyProduction * s.ElectricityTariff

	metrics := FinancialMetrics{
		InstallationCost: round2(installationCost),
		YearlySavings:    round2(yearlySavings),
	}

	if yearlySavings > 0 {
		payback := round2(installationCost / yearlySavings)
		metrics.PaybackPeriodYears = &payback
	}
	if installationCost > 0 {
		roi := round2((yearlySavings*25 - installationCost) / installationCost * 100)
		metrics.ROI25Years = &roi
	}

	return metrics
}
