package services

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"
	defaultNASAPowerBaseURL = "https://power.larc.nasa.gov"

	// Provenance values stored alongside every resolved irradiance.
	IrradianceSourceNASA      = "NASA POWER API"
	IrradianceSourceEstimated = "Estimated based on latitude"
	IrradianceSourceUser      = "User provided"
)

type Coordinates struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// IrradianceData is persisted verbatim on the calculation as its nasa_data
// audit record.
type IrradianceData struct {
	AverageIrradiance float64            `json:"average_irradiance"`
	MonthlyData       map[string]float64 `json:"monthly_data,omitempty"`
	Unit              string             `json:"unit,omitempty"`
	Source            string             `json:"source"`
}

// ExternalAPIService talks to Nominatim and NASA POWER. The base URLs are
// fields so tests can point the client at a local server.
type ExternalAPIService struct {
	client           *resty.Client
	NominatimBaseURL string
	NASAPowerBaseURL string
}

func NewExternalAPIService() *ExternalAPIService {
	return &ExternalAPIService{
		client:           resty.New().SetTimeout(30 * time.Second),
		NominatimBaseURL: defaultNominatimBaseURL,
		NASAPowerBaseURL: defaultNASAPowerBaseURL,
	}
}

// GeocodeAddress resolves a free-text address through Nominatim and returns
// the first match, or ErrGeocodeFailed when there is none.
func (s *ExternalAPIService) GeocodeAddress(address string) (*Coordinates, error) {
	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}

	resp, err := s.client.R().
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		SetHeader("User-Agent", "SolarPanelCalculator/1.0").
		SetResult(&results).
		Get(s.NominatimBaseURL + "/search")

	if err != nil {
		log.Println("Geocoding API error:", err)
		return nil, ErrGeocodeFailed
	}
	if resp.StatusCode() != 200 || len(results) == 0 {
		return nil, ErrGeocodeFailed
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, ErrGeocodeFailed
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, ErrGeocodeFailed
	}

	return &Coordinates{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: results[0].DisplayName,
	}, nil
}

// SolarIrradianceFromNASA fetches this year's monthly ALLSKY_SFC_SW_DWN
// series for the coordinate and averages it. Returns nil when the API fails
// or has no data; the caller falls back to EstimatedSolarIrradiance.
func (s *ExternalAPIService) SolarIrradianceFromNASA(latitude, longitude float64) *IrradianceData {
	var result struct {
		Properties struct {
			Parameter map[string]map[string]float64 `json:"parameter"`
		} `json:"properties"`
	}

	year := time.Now().Year()
	resp, err := s.client.R().
		SetQueryParams(map[string]string{
			"parameters": "ALLSKY_SFC_SW_DWN",
			"community":  "RE",
			"longitude":  strconv.FormatFloat(longitude, 'f', -1, 64),
			"latitude":   strconv.FormatFloat(latitude, 'f', -1, 64),
			"format":     "JSON",
			"start":      fmt.Sprintf("%d01", year),
			"end":        fmt.Sprintf("%d12", year),
		}).
		SetResult(&result).
		Get(s.NASAPowerBaseURL + "/api/temporal/monthly/point")

	if err != nil {
		log.Println("NASA POWER API error:", err)
		return nil
	}
	if resp.StatusCode() != 200 {
		return nil
	}

	monthly := result.Properties.Parameter["ALLSKY_SFC_SW_DWN"]
	if len(monthly) == 0 {
		return nil
	}

	var sum float64
	for _, v := range monthly {
		sum += v
	}
	average := sum / float64(len(monthly))

	return &IrradianceData{
		AverageIrradiance: math.Round(average*100) / 100,
		MonthlyData:       monthly,
		Unit:              "kWh/m²/day",
		Source:            IrradianceSourceNASA,
	}
}

// EstimatedSolarIrradiance gives a latitude-banded estimate in kWh/m²/day,
// used when the NASA lookup is unavailable.
func (s *ExternalAPIService) EstimatedSolarIrradiance(latitude float64) float64 {
	absLatitude := math.Abs(latitude)
	switch {
	case absLatitude < 10:
		return 5.0
	case absLatitude < 30:
		return 4.5
	case absLatitude < 50:
		return 4.0
	default:
		return 3.0
	}
}

// ResolveIrradiance applies the lookup order: NASA POWER first, then the
// latitude estimate. The returned record always names its source.
func (s *ExternalAPIService) ResolveIrradiance(latitude, longitude float64) *IrradianceData {
	if data := s.SolarIrradianceFromNASA(latitude, longitude); data != nil {
		return data
	}
	return &IrradianceData{
		AverageIrradiance: s.EstimatedSolarIrradiance(latitude),
		Source:            IrradianceSourceEstimated,
	}
}
