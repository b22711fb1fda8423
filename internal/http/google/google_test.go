package googlemaps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ccloudinthesky/journee/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key")
	c.BaseURL, _ = url.Parse(srv.URL + "/")
	c.HTTPClient = srv.Client()
	c.Clock = func() time.Time { return time.Date(2025, 12, 3, 12, 0, 0, 0, time.UTC) } // Wednesday
	return c
}

func TestCategory(t *testing.T) {
	testCases := []struct {
		types []string
		want  model.PlaceType
	}{
		{[]string{"restaurant", "food", "point_of_interest"}, model.PlaceRestaurant},
		{[]string{"meal_takeaway"}, model.PlaceRestaurant},
		{[]string{"bakery", "store"}, model.PlaceCafe},
		{[]string{"cafe"}, model.PlaceCafe},
		{[]string{"lodging", "point_of_interest"}, model.PlaceAccommodation},
		{[]string{"hostel"}, model.PlaceAccommodation},
		{[]string{"museum"}, model.PlaceAttraction},
		{[]string{"point_of_interest", "establishment"}, model.PlaceAttraction},
		{[]string{"bar", "restaurant"}, model.PlaceRestaurant},
		{[]string{"point_of_interest", "restaurant"}, model.PlaceRestaurant},
		{nil, model.PlaceAttraction},
	}

	for _, tc := range testCases {
		t.Run(strings.Join(tc.types, "+"), func(t *testing.T) {
			if got := Category(tc.types); got != tc.want {
				t.Errorf("Category(%v) = %s; want %s", tc.types, got, tc.want)
			}
		})
	}
}

func TestPhotoURL(t *testing.T) {
	c := NewClient("k")
	got := c.PhotoURL("abc")
	want := "https://maps.googleapis.com/maps/api/place/photo?key=k&maxwidth=400&photoreference=abc"
	if got != want {
		t.Errorf("PhotoURL = %s; want %s", got, want)
	}
}

func TestTextSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/place/textsearch/json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "test-key" || q.Get("query") != "eiffel tower" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("location") != "48.85,2.35" || q.Get("radius") != "50000" {
			t.Errorf("location bias = %s radius = %s; want 48.85,2.35 and 50000", q.Get("location"), q.Get("radius"))
		}
		w.Write([]byte(`{"status":"OK","results":[{
			"place_id":"p1","name":"Eiffel Tower","formatted_address":"Champ de Mars, Paris",
			"geometry":{"location":{"lat":48.8584,"lng":2.2945}},
			"types":["tourist_attraction","point_of_interest"],"rating":4.7,
			"photos":[{"photo_reference":"ref1"}],"opening_hours":{"open_now":true}
		}]}`))
	})

	places, err := c.TextSearch(context.Background(), TextSearchQuery{Query: "eiffel tower", Location: LatLngParam(48.85, 2.35)})
	if err != nil {
		t.Fatalf("TextSearch returned error %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("len(places) = %d; want 1", len(places))
	}
	p := places[0]
	if p.PlaceID != "p1" || p.Type != model.PlaceAttraction || p.Coordinates.Lat != 48.8584 {
		t.Errorf("unexpected place %+v", p)
	}
	if p.Rating == nil || *p.Rating != 4.7 {
		t.Errorf("rating = %v; want 4.7", p.Rating)
	}
	if p.PhotoURL == nil || !strings.Contains(*p.PhotoURL, "photoreference=ref1") {
		t.Errorf("photo URL = %v", p.PhotoURL)
	}
	if p.OpeningHours == nil || *p.OpeningHours != "Open now" {
		t.Errorf("opening hours = %v; want Open now", p.OpeningHours)
	}
}

func TestSearchZeroResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("radius") != "1000" {
			t.Errorf("radius = %s; want default 1000", r.URL.Query().Get("radius"))
		}
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	places, err := c.NearbySearch(context.Background(), NearbyQuery{Location: "1,2"})
	if err != nil {
		t.Fatalf("NearbySearch returned error %v", err)
	}
	if len(places) != 0 {
		t.Errorf("len(places) = %d; want 0", len(places))
	}
}

func TestSearchAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
	})

	_, err := c.TextSearch(context.Background(), TextSearchQuery{Query: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != "REQUEST_DENIED" {
		t.Fatalf("error = %v; want APIError REQUEST_DENIED", err)
	}
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("")
	if _, err := c.Geocode(context.Background(), "Paris"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v; want ErrMissingAPIKey", err)
	}
}

func TestPlaceDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("place_id") != "p1" {
			t.Errorf("place_id = %s", q.Get("place_id"))
		}
		if !strings.Contains(q.Get("fields"), "opening_hours,formatted_phone_number") {
			t.Errorf("fields = %s", q.Get("fields"))
		}
		w.Write([]byte(`{"status":"OK","result":{
			"place_id":"p1","name":"Café de Flore","formatted_address":"172 Bd Saint-Germain",
			"geometry":{"location":{"lat":48.854,"lng":2.333}},"types":["cafe","food"],
			"formatted_phone_number":"01 45 48 55 26",
			"opening_hours":{"weekday_text":["Monday: 7:30 AM – 1:30 AM","Tuesday: 7:30 AM – 1:30 AM","Wednesday: 8:00 AM – 1:00 AM","Thursday: 7:30 AM – 1:30 AM","Friday: 7:30 AM – 1:30 AM","Saturday: 7:30 AM – 1:30 AM","Sunday: 7:30 AM – 1:30 AM"]}
		}}`))
	})

	p, err := c.PlaceDetails(context.Background(), "p1")
	if err != nil {
		t.Fatalf("PlaceDetails returned error %v", err)
	}
	if p.Type != model.PlaceCafe {
		t.Errorf("type = %s; want cafe", p.Type)
	}
	if p.OpeningHours == nil || *p.OpeningHours != "Wednesday: 8:00 AM – 1:00 AM" {
		t.Errorf("opening hours = %v; want the Wednesday line", p.OpeningHours)
	}
	if p.PhoneNumber == nil || *p.PhoneNumber != "01 45 48 55 26" {
		t.Errorf("phone = %v", p.PhoneNumber)
	}
}

func TestPlaceDetailsWithoutHours(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{"place_id":"p2","name":"Square","types":["park"]}}`))
	})

	p, err := c.PlaceDetails(context.Background(), "p2")
	if err != nil {
		t.Fatalf("PlaceDetails returned error %v", err)
	}
	if p.OpeningHours == nil || *p.OpeningHours != "Hours not available" {
		t.Errorf("opening hours = %v; want Hours not available", p.OpeningHours)
	}
}

func TestPlaceDetailsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"NOT_FOUND"}`))
	})

	if _, err := c.PlaceDetails(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v; want ErrNotFound", err)
	}
}

func TestGeocodeAndReverse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("address") == "Louvre":
		case q.Get("latlng") == "48.8606,2.3376":
		default:
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Rue de Rivoli, Paris","geometry":{"location":{"lat":48.8606,"lng":2.3376}}}]}`))
	})

	got, err := c.Geocode(context.Background(), "Louvre")
	if err != nil {
		t.Fatalf("Geocode returned error %v", err)
	}
	if got.Lat != 48.8606 || got.Lng != 2.3376 || got.FormattedAddress != "Rue de Rivoli, Paris" {
		t.Errorf("Geocode = %+v", got)
	}

	rev, err := c.ReverseGeocode(context.Background(), 48.8606, 2.3376)
	if err != nil {
		t.Fatalf("ReverseGeocode returned error %v", err)
	}
	if rev.FormattedAddress != "Rue de Rivoli, Paris" {
		t.Errorf("ReverseGeocode = %+v", rev)
	}
}

func TestGeocodeZeroResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	if _, err := c.Geocode(context.Background(), "nowhere"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v; want ErrNotFound", err)
	}
}

func TestDirections(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("origin") != "place_id:a" || q.Get("destination") != "place_id:c" || q.Get("waypoints") != "place_id:b" {
			t.Errorf("unexpected stops %v", q)
		}
		if q.Get("mode") != "walking" {
			t.Errorf("mode = %s; want walking", q.Get("mode"))
		}
		w.Write([]byte(`{"status":"OK","routes":[{"overview_polyline":{"points":"_p~iF~ps|U_ulLnnqC"},
			"legs":[{"distance":{"value":1200},"duration":{"value":900}},{"distance":{"value":800},"duration":{"value":600}}]}]}`))
	})

	route, err := c.Directions(context.Background(), []string{"place_id:a", "place_id:b", "place_id:c"}, "walking")
	if err != nil {
		t.Fatalf("Directions returned error %v", err)
	}
	if route.Polyline != "_p~iF~ps|U_ulLnnqC" || len(route.Legs) != 2 {
		t.Errorf("route = %+v", route)
	}
	if route.Legs[0].DistanceMeters != 1200 || route.Legs[1].DurationSeconds != 600 {
		t.Errorf("legs = %+v", route.Legs)
	}
}

func TestDirectionsValidation(t *testing.T) {
	c := NewClient("k")
	if _, err := c.Directions(context.Background(), []string{"a"}, "driving"); err == nil {
		t.Error("expected an error for a single stop")
	}
	if _, err := c.Directions(context.Background(), []string{"a", "b"}, "teleport"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
