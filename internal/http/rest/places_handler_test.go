package rest

import (
	"context"
	"net/http"
	"testing"

	googlemaps "github.com/ccloudinthesky/journee/internal/http/google"
	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/google/uuid"
)

type fakePlaces struct {
	textQuery   googlemaps.TextSearchQuery
	nearbyQuery googlemaps.NearbyQuery
	stops       []string
	mode        string

	places []model.Place
	route  googlemaps.Route
	err    error
}

func (f *fakePlaces) TextSearch(_ context.Context, q googlemaps.TextSearchQuery) ([]model.Place, error) {
	f.textQuery = q
	return f.places, f.err
}

func (f *fakePlaces) NearbySearch(_ context.Context, q googlemaps.NearbyQuery) ([]model.Place, error) {
	f.nearbyQuery = q
	return f.places, f.err
}

func (f *fakePlaces) PlaceDetails(_ context.Context, placeID string) (model.Place, error) {
	if f.err != nil {
		return model.Place{}, f.err
	}
	return model.Place{PlaceID: placeID, Name: "Detail", Type: model.PlaceCafe}, nil
}

func (f *fakePlaces) Geocode(_ context.Context, address string) (model.GeocodeResult, error) {
	return model.GeocodeResult{Lat: 1, Lng: 2, FormattedAddress: address}, f.err
}

func (f *fakePlaces) ReverseGeocode(_ context.Context, lat, lng float64) (model.GeocodeResult, error) {
	return model.GeocodeResult{Lat: lat, Lng: lng, FormattedAddress: "somewhere"}, f.err
}

func (f *fakePlaces) Directions(_ context.Context, stops []string, mode string) (googlemaps.Route, error) {
	f.stops, f.mode = stops, mode
	return f.route, f.err
}

func TestPlacesRequireLogin(t *testing.T) {
	h := newTestAPI(t, &fakePlaces{}).setUpServerHandler()

	rec, _ := doRequest(t, h, http.MethodGet, "/api/google-maps/search?query=ramen", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
}

func TestSearchPlaces(t *testing.T) {
	fake := &fakePlaces{places: []model.Place{{PlaceID: "p1", Name: "Ichiran", Type: model.PlaceRestaurant}}}
	a := newTestAPI(t, fake)
	h := a.setUpServerHandler()
	token := tokenFor(t, a, uuid.New())

	rec, env := doRequest(t, h, http.MethodGet, "/api/google-maps/search?query=ramen&lat=35.6&lng=139.7", token, nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("search = %d %+v", rec.Code, env)
	}
	if fake.textQuery.Query != "ramen" || fake.textQuery.Location != "35.6,139.7" || fake.textQuery.Radius != 50000 {
		t.Errorf("query = %+v", fake.textQuery)
	}

	var places []model.Place
	decodeData(t, env, &places)
	if len(places) != 1 || places[0].PlaceID != "p1" {
		t.Errorf("places = %+v", places)
	}

	doRequest(t, h, http.MethodGet, "/api/google-maps/search?query=ramen", token, nil)
	if fake.textQuery.Location != "" || fake.textQuery.Radius != 0 {
		t.Errorf("unbiased search sent location %q radius %d", fake.textQuery.Location, fake.textQuery.Radius)
	}
}

func TestSearchPlacesBadInput(t *testing.T) {
	a := newTestAPI(t, &fakePlaces{})
	h := a.setUpServerHandler()
	token := tokenFor(t, a, uuid.New())

	for _, path := range []string{
		"/api/google-maps/search",
		"/api/google-maps/search?query=%20",
		"/api/google-maps/search?query=x&lat=10",
		"/api/google-maps/search?query=x&lat=100&lng=0",
		"/api/google-maps/search?query=x&lat=1&lng=1&radius=0",
		"/api/google-maps/search?query=x&lat=1&lng=1&radius=60000",
		"/api/google-maps/nearby",
		"/api/google-maps/geocode",
		"/api/google-maps/reverse-geocode?lat=1",
	} {
		rec, env := doRequest(t, h, http.MethodGet, path, token, nil)
		if rec.Code != http.StatusBadRequest || env.Error != "bad_request" {
			t.Errorf("%s = %d %+v; want 400", path, rec.Code, env)
		}
	}
}

func TestNearbyPlacesDefaults(t *testing.T) {
	fake := &fakePlaces{}
	a := newTestAPI(t, fake)
	h := a.setUpServerHandler()
	token := tokenFor(t, a, uuid.New())

	rec, env := doRequest(t, h, http.MethodGet, "/api/google-maps/nearby?lat=48.85&lng=2.35&type=cafe", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("nearby = %d %+v", rec.Code, env)
	}
	if fake.nearbyQuery.Radius != 1000 || fake.nearbyQuery.Type != "cafe" || fake.nearbyQuery.Location != "48.85,2.35" {
		t.Errorf("query = %+v", fake.nearbyQuery)
	}
}

func TestPlaceProviderErrors(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
		kind string
	}{
		{"not found", googlemaps.ErrNotFound, http.StatusNotFound, "not_found"},
		{"no api key", googlemaps.ErrMissingAPIKey, http.StatusServiceUnavailable, "unavailable"},
		{"provider status", &googlemaps.APIError{Status: "OVER_QUERY_LIMIT"}, http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAPI(t, &fakePlaces{err: tc.err})
			h := a.setUpServerHandler()
			token := tokenFor(t, a, uuid.New())

			rec, env := doRequest(t, h, http.MethodGet, "/api/google-maps/details/abc", token, nil)
			if rec.Code != tc.want || env.Error != tc.kind {
				t.Errorf("details = %d %+v; want %d %s", rec.Code, env, tc.want, tc.kind)
			}
		})
	}
}

func TestGeocodeHandlers(t *testing.T) {
	a := newTestAPI(t, &fakePlaces{})
	h := a.setUpServerHandler()
	token := tokenFor(t, a, uuid.New())

	_, env := doRequest(t, h, http.MethodGet, "/api/google-maps/geocode?address=Louvre", token, nil)
	var geo model.GeocodeResult
	decodeData(t, env, &geo)
	if geo.FormattedAddress != "Louvre" {
		t.Errorf("geocode = %+v", geo)
	}

	_, env = doRequest(t, h, http.MethodGet, "/api/google-maps/reverse-geocode?lat=48.86&lng=2.33", token, nil)
	decodeData(t, env, &geo)
	if geo.Lat != 48.86 || geo.Lng != 2.33 {
		t.Errorf("reverse geocode = %+v", geo)
	}

	_, env = doRequest(t, h, http.MethodGet, "/api/google-maps/details/ChIJ123", token, nil)
	var place model.Place
	decodeData(t, env, &place)
	if place.PlaceID != "ChIJ123" {
		t.Errorf("details = %+v", place)
	}
}
