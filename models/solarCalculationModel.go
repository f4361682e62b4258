package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SolarCalculation is an immutable snapshot of the inputs and derived outputs
// of one estimation run. NasaData keeps the raw irradiance payload (or the
// fallback record) verbatim for audit.
type SolarCalculation struct {
	gorm.Model
	UserID                  int            `json:"userId"`
	Address                 string         `json:"address"`
	Latitude                float64        `json:"latitude"`
	Longitude               float64        `json:"longitude"`
	LandArea                float64        `json:"landArea"`
	SolarIrradiance         float64        `json:"solarIrradiance"`
	PanelEfficiency         float64        `json:"panelEfficiency"`
	SystemLosses            float64        `json:"systemLosses"`
	MaxPowerCapacity        float64        `json:"maxPowerCapacity"`
	DailyEnergyProduction   float64        `json:"dailyEnergyProduction"`
	MonthlyEnergyProduction float64        `json:"monthlyEnergyProduction"`
	YearlyEnergyProduction  float64        `json:"yearlyEnergyProduction"`
	NasaData                datatypes.JSON `json:"nasaData"`
}
