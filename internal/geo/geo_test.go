package geo

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookdroplist/internal/services"
)

func TestFuzzIsDeterministicPerSeed(t *testing.T) {
	lat1, lng1 := Fuzz(52.52, 13.405, "list-1")
	lat2, lng2 := Fuzz(52.52, 13.405, "list-1")
	if lat1 != lat2 || lng1 != lng2 {
		t.Error("same seed must fuzz to the same public point")
	}

	lat3, lng3 := Fuzz(52.52, 13.405, "list-2")
	if lat1 == lat3 && lng1 == lng3 {
		t.Error("different seeds should move the point")
	}
}

func TestFuzzStaysWithinRadius(t *testing.T) {
	seeds := []string{"a", "b", "c", "d", "e"}
	for _, seed := range seeds {
		lat, lng := Fuzz(52.52, 13.405, seed)
		latDelta := math.Abs(lat - 52.52)
		if latDelta > fuzzRadiusDegrees {
			t.Errorf("seed %s: lat offset %f exceeds radius", seed, latDelta)
		}
		// Longitude is stretched by 1/cos(lat); at 52.5 degrees that is ~1.64x.
		scale := math.Cos(52.52 * math.Pi / 180)
		lngDelta := math.Abs(lng-13.405) * scale
		if lngDelta > fuzzRadiusDegrees+1e-9 {
			t.Errorf("seed %s: scaled lng offset %f exceeds radius", seed, lngDelta)
		}
	}
}

const forwardPayload = `{
  "status": "OK",
  "results": [
    {
      "formatted_address": "Bergmannstr. 1, 10961 Berlin, Germany",
      "geometry": {"location": {"lat": 52.4889, "lng": 13.4083}},
      "address_components": [
        {"long_name": "Berlin", "types": ["locality", "political"]},
        {"long_name": "Germany", "types": ["country", "political"]}
      ]
    }
  ]
}`

func TestForward(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("address") != "Bergmannstr. 1, Berlin" {
			t.Errorf("address = %q", r.URL.Query().Get("address"))
		}
		if r.URL.Query().Get("key") != "geo-key" {
			t.Errorf("key missing")
		}
		_, _ = w.Write([]byte(forwardPayload))
	}))
	defer server.Close()

	client, err := New("geo-key", server.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	location, err := client.Forward(context.Background(), "Bergmannstr. 1, Berlin")
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if location.ExactLatitude != 52.4889 || location.City != "Berlin" || location.Country != "Germany" {
		t.Errorf("location = %+v", location)
	}
}

func TestReverseKeepsCallerCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(forwardPayload))
	}))
	defer server.Close()

	client, err := New("geo-key", server.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	location, err := client.Reverse(context.Background(), 52.4890, 13.4085)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if location.ExactLatitude != 52.4890 || location.ExactLongitude != 13.4085 {
		t.Errorf("reverse must keep the caller's point, got %+v", location)
	}
	if location.City != "Berlin" {
		t.Errorf("city = %q", location.City)
	}
}

func TestGeocodeMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client, err := New("geo-key", server.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Forward(context.Background(), "nowhere at all")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUnconfiguredClient(t *testing.T) {
	client, err := New("", "https://geo.example", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Forward(context.Background(), "somewhere")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
