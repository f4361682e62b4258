package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestExternalService(nominatimURL, nasaURL string) *ExternalAPIService {
	svc := NewExternalAPIService()
	if nominatimURL != "" {
		svc.NominatimBaseURL = nominatimURL
	}
	if nasaURL != "" {
		svc.NASAPowerBaseURL = nasaURL
	}
	return svc
}

func TestGeocodeAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Errorf("expected q query parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"lat":"-6.2088","lon":"106.8456","display_name":"Jakarta Pusat, DKI Jakarta, Indonesia"}]`)
	}))
	defer server.Close()

	svc := newTestExternalService(server.URL, "")
	coords, err := svc.GeocodeAddress("Jakarta Pusat")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if coords.Latitude != -6.2088 || coords.Longitude != 106.8456 {
		t.Fatalf("unexpected coordinates: %+v", coords)
	}
	if coords.DisplayName != "Jakarta Pusat, DKI Jakarta, Indonesia" {
		t.Fatalf("unexpected display name: %s", coords.DisplayName)
	}
}

func TestGeocodeAddressNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	svc := newTestExternalService(server.URL, "")
	if _, err := svc.GeocodeAddress("nowhere at all"); err != ErrGeocodeFailed {
		t.Fatalf("expected ErrGeocodeFailed, got %v", err)
	}
}

func TestSolarIrradianceFromNASA(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("parameters") != "ALLSKY_SFC_SW_DWN" {
			t.Errorf("unexpected parameters query: %s", r.URL.Query().Get("parameters"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"properties":{"parameter":{"ALLSKY_SFC_SW_DWN":{
			"202501":5.1,"202502":5.3,"202503":5.0,"202504":4.8,
			"202505":4.6,"202506":4.5,"202507":4.7,"202508":5.0,
			"202509":5.2,"202510":5.1,"202511":4.9,"202512":4.8}}}}`)
	}))
	defer server.Close()

	svc := newTestExternalService("", server.URL)
	data := svc.SolarIrradianceFromNASA(-6.2, 106.8)
	if data == nil {
		t.Fatal("expected irradiance data")
	}
	// (5.1+5.3+5.0+4.8+4.6+4.5+4.7+5.0+5.2+5.1+4.9+4.8)/12 = 4.92
	if data.AverageIrradiance != 4.92 {
		t.Fatalf("expected average 4.92, got %v", data.AverageIrradiance)
	}
	if data.Source != IrradianceSourceNASA {
		t.Fatalf("unexpected source: %s", data.Source)
	}
	if len(data.MonthlyData) != 12 {
		t.Fatalf("expected 12 monthly values, got %d", len(data.MonthlyData))
	}
}

func TestSolarIrradianceFromNASAUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newTestExternalService("", server.URL)
	if data := svc.SolarIrradianceFromNASA(-6.2, 106.8); data != nil {
		t.Fatalf("expected nil on upstream failure, got %+v", data)
	}
}

func TestEstimatedSolarIrradianceBands(t *testing.T) {
	svc := NewExternalAPIService()

	cases := []struct {
		latitude float64
		want     float64
	}{
		{-6.2, 5.0},
		{9.99, 5.0},
		{25.0, 4.5},
		{-45.0, 4.0},
		{50.0, 3.0},
		{-60.0, 3.0},
	}
	for _, tc := range cases {
		if got := svc.EstimatedSolarIrradiance(tc.latitude); got != tc.want {
			t.Errorf("latitude %v: expected %v, got %v", tc.latitude, tc.want, got)
		}
	}
}

func TestResolveIrradianceFallsBackToEstimate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := newTestExternalService("", server.URL)
	data := svc.ResolveIrradiance(-6.2, 106.8)
	if data.AverageIrradiance != 5.0 {
		t.Fatalf("expected fallback irradiance 5.0, got %v", data.AverageIrradiance)
	}
	if data.Source != IrradianceSourceEstimated {
		t.Fatalf("expected estimated provenance, got %s", data.Source)
	}
}
