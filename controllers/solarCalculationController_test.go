package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prasetyadi/surya-api/initializers"
	"github.com/prasetyadi/surya-api/models"
	"github.com/prasetyadi/surya-api/services"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCalculationRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.SolarCalculation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	initializers.DB = db

	server := gin.New()
	server.Use(func(ctx *gin.Context) {
		ctx.Set("user", jwt.MapClaims{
			"user_id":  float64(1),
			"fullname": "Budi Santoso",
			"email":    "budi@example.com",
		})
	})
	server.PATCH("/solar-calculations/:id", UpdateSolarCalculation)
	return server
}

// stubExternalAPIs points the resolver at local servers and counts how often
// each upstream is hit.
func stubExternalAPIs(t *testing.T, nominatimHits, nasaHits *int) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*nominatimHits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"lat":"-6.9","lon":"107.6","display_name":"Bandung, Jawa Barat, Indonesia"}]`)
	}))
	nasa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*nasaHits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"properties":{"parameter":{"ALLSKY_SFC_SW_DWN":{"202501":5.5}}}}`)
	}))
	t.Cleanup(nominatim.Close)
	t.Cleanup(nasa.Close)

	original := externalSvc
	stub := services.NewExternalAPIService()
	stub.NominatimBaseURL = nominatim.URL
	stub.NASAPowerBaseURL = nasa.URL
	externalSvc = stub
	t.Cleanup(func() { externalSvc = original })
}

func seedCalculation(t *testing.T) models.SolarCalculation {
	calculation := models.SolarCalculation{
		UserID:                  1,
		Address:                 "Jakarta, Indonesia",
		Latitude:                -6.2,
		Longitude:               106.8,
		LandArea:                100,
		SolarIrradiance:         5.0,
		PanelEfficiency:         20,
		SystemLosses:            14,
		MaxPowerCapacity:        15,
		DailyEnergyProduction:   64.5,
		MonthlyEnergyProduction: 1935,
		YearlyEnergyProduction:  23542.5,
		NasaData:                datatypes.JSON(`{"average_irradiance":5,"source":"NASA POWER API"}`),
	}
	if err := initializers.DB.Create(&calculation).Error; err != nil {
		t.Fatalf("seed calculation: %v", err)
	}
	return calculation
}

func patchCalculation(server *gin.Engine, id uint, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPatch,
		fmt.Sprintf("/solar-calculations/%d", id), strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	server.ServeHTTP(recorder, request)
	return recorder
}

func storedIrradianceSource(t *testing.T, id uint) (models.SolarCalculation, string) {
	var stored models.SolarCalculation
	if err := initializers.DB.First(&stored, id).Error; err != nil {
		t.Fatalf("reload calculation: %v", err)
	}
	var data services.IrradianceData
	if err := json.Unmarshal(stored.NasaData, &data); err != nil {
		t.Fatalf("unmarshal nasa data: %v", err)
	}
	return stored, data.Source
}

func TestUpdateCalculationKeepsIrradianceWhenCoordinatesUnchanged(t *testing.T) {
	server := setupCalculationRouter(t)
	var nominatimHits, nasaHits int
	stubExternalAPIs(t, &nominatimHits, &nasaHits)
	calculation := seedCalculation(t)

	recorder := patchCalculation(server, calculation.ID, `{"landArea": 200}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if nominatimHits != 0 || nasaHits != 0 {
		t.Fatalf("expected no upstream calls, got nominatim=%d nasa=%d", nominatimHits, nasaHits)
	}

	stored, source := storedIrradianceSource(t, calculation.ID)
	if stored.SolarIrradiance != 5.0 {
		t.Fatalf("irradiance must be untouched, got %v", stored.SolarIrradiance)
	}
	if source != services.IrradianceSourceNASA {
		t.Fatalf("stored irradiance record must be untouched, got source %q", source)
	}
	// The sizing still recomputes from the new land area.
	if stored.LandArea != 200 || stored.MaxPowerCapacity != 30 {
		t.Fatalf("expected land 200 / capacity 30, got %v/%v", stored.LandArea, stored.MaxPowerCapacity)
	}
}

func TestUpdateCalculationCoordinateChangeReresolvesIrradiance(t *testing.T) {
	server := setupCalculationRouter(t)
	var nominatimHits, nasaHits int
	stubExternalAPIs(t, &nominatimHits, &nasaHits)
	calculation := seedCalculation(t)

	recorder := patchCalculation(server, calculation.ID, `{"latitude": -7.5, "longitude": 110.4}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if nasaHits != 1 {
		t.Fatalf("expected one irradiance lookup, got %d", nasaHits)
	}
	if nominatimHits != 0 {
		t.Fatalf("explicit coordinates must not geocode, got %d calls", nominatimHits)
	}

	stored, source := storedIrradianceSource(t, calculation.ID)
	if stored.Latitude != -7.5 || stored.Longitude != 110.4 {
		t.Fatalf("expected new coordinates, got %v/%v", stored.Latitude, stored.Longitude)
	}
	if stored.SolarIrradiance != 5.5 {
		t.Fatalf("expected re-resolved irradiance 5.5, got %v", stored.SolarIrradiance)
	}
	if source != services.IrradianceSourceNASA {
		t.Fatalf("expected rewritten irradiance record, got source %q", source)
	}
}

func TestUpdateCalculationExplicitIrradianceWins(t *testing.T) {
	server := setupCalculationRouter(t)
	var nominatimHits, nasaHits int
	stubExternalAPIs(t, &nominatimHits, &nasaHits)
	calculation := seedCalculation(t)

	recorder := patchCalculation(server, calculation.ID,
		`{"latitude": -7.5, "longitude": 110.4, "solarIrradiance": 6.1}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if nominatimHits != 0 || nasaHits != 0 {
		t.Fatalf("expected no upstream calls, got nominatim=%d nasa=%d", nominatimHits, nasaHits)
	}

	stored, source := storedIrradianceSource(t, calculation.ID)
	if stored.SolarIrradiance != 6.1 {
		t.Fatalf("expected explicit irradiance 6.1, got %v", stored.SolarIrradiance)
	}
	if source != services.IrradianceSourceUser {
		t.Fatalf("expected user-provided provenance, got %q", source)
	}
}

func TestUpdateCalculationAddressChangeRegeocodes(t *testing.T) {
	server := setupCalculationRouter(t)
	var nominatimHits, nasaHits int
	stubExternalAPIs(t, &nominatimHits, &nasaHits)
	calculation := seedCalculation(t)

	recorder := patchCalculation(server, calculation.ID, `{"address": "Bandung, Indonesia"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if nominatimHits != 1 {
		t.Fatalf("expected one geocode call, got %d", nominatimHits)
	}
	// New coordinates also trigger a fresh irradiance lookup.
	if nasaHits != 1 {
		t.Fatalf("expected one irradiance lookup, got %d", nasaHits)
	}

	stored, _ := storedIrradianceSource(t, calculation.ID)
	if stored.Address != "Bandung, Indonesia" {
		t.Fatalf("expected new address, got %q", stored.Address)
	}
	if stored.Latitude != -6.9 || stored.Longitude != 107.6 {
		t.Fatalf("expected geocoded coordinates, got %v/%v", stored.Latitude, stored.Longitude)
	}
	if stored.SolarIrradiance != 5.5 {
		t.Fatalf("expected re-resolved irradiance 5.5, got %v", stored.SolarIrradiance)
	}
}
