package rest

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	googlemaps "github.com/ccloudinthesky/journee/internal/http/google"
	"github.com/ccloudinthesky/journee/util"
	"github.com/ccloudinthesky/journee/util/tracing"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/go-chi/chi/v5"
)

const maxSearchRadius = 50000

func (api *API) PlacesRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)

		// ?query=...&lat=...&lng=...&radius=...
		r.Method(http.MethodGet, "/search", Handler(api.SearchPlacesHandler))
		// ?lat=...&lng=...&radius=...&type=...
		r.Method(http.MethodGet, "/nearby", Handler(api.NearbyPlacesHandler))
		r.Method(http.MethodGet, "/details/{placeId}", Handler(api.PlaceDetailsHandler))
		// ?address=...
		r.Method(http.MethodGet, "/geocode", Handler(api.GeocodeHandler))
		// ?lat=...&lng=...
		r.Method(http.MethodGet, "/reverse-geocode", Handler(api.ReverseGeocodeHandler))
	})
	return mux
}

func (api *API) SearchPlacesHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	queryParams := r.URL.Query()
	text := strings.TrimSpace(queryParams.Get("query"))
	if text == "" {
		return respondWithError(nil, "Missing or empty 'query' query parameter", values.BadRequestBody, &tc)
	}

	q := googlemaps.TextSearchQuery{Query: text, Language: queryParams.Get("language")}
	lat, lng, ok, err := coordinateParams(queryParams)
	if err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}
	if ok {
		q.Location = googlemaps.LatLngParam(lat, lng)
		if q.Radius, err = radiusParam(queryParams, googlemaps.DefaultSearchRadius); err != nil {
			return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
		}
	}

	places, err := api.Places.TextSearch(r.Context(), q)
	if err != nil {
		status, message := classify(err, "Failed to search places")
		return respondWithError(err, message, status, &tc)
	}
	return respond(places, values.Success, "Places retrieved successfully")
}

func (api *API) NearbyPlacesHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	queryParams := r.URL.Query()
	lat, lng, ok, err := coordinateParams(queryParams)
	if err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}
	if !ok {
		return respondWithError(nil, "'lat' and 'lng' query parameters are required", values.BadRequestBody, &tc)
	}
	radius, err := radiusParam(queryParams, googlemaps.DefaultNearbyRadius)
	if err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}

	places, err := api.Places.NearbySearch(r.Context(), googlemaps.NearbyQuery{
		Location: googlemaps.LatLngParam(lat, lng),
		Radius:   radius,
		Type:     queryParams.Get("type"),
		Language: queryParams.Get("language"),
	})
	if err != nil {
		status, message := classify(err, "Failed to search nearby places")
		return respondWithError(err, message, status, &tc)
	}
	return respond(places, values.Success, "Nearby places retrieved successfully")
}

func (api *API) PlaceDetailsHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	placeID := strings.TrimSpace(chi.URLParam(r, "placeId"))
	if placeID == "" {
		return respondWithError(nil, "Missing place id", values.BadRequestBody, &tc)
	}

	place, err := api.Places.PlaceDetails(r.Context(), placeID)
	if err != nil {
		status, message := classify(err, "Failed to get place details")
		return respondWithError(err, message, status, &tc)
	}
	return respond(place, values.Success, "Place details retrieved successfully")
}

func (api *API) GeocodeHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		return respondWithError(nil, "Missing or empty 'address' query parameter", values.BadRequestBody, &tc)
	}

	result, err := api.Places.Geocode(r.Context(), address)
	if err != nil {
		status, message := classify(err, "Failed to geocode address")
		return respondWithError(err, message, status, &tc)
	}
	return respond(result, values.Success, "Address geocoded successfully")
}

func (api *API) ReverseGeocodeHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	lat, lng, ok, err := coordinateParams(r.URL.Query())
	if err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}
	if !ok {
		return respondWithError(nil, "'lat' and 'lng' query parameters are required", values.BadRequestBody, &tc)
	}

	result, err := api.Places.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		status, message := classify(err, "Failed to reverse geocode")
		return respondWithError(err, message, status, &tc)
	}
	return respond(result, values.Success, "Location reverse geocoded successfully")
}

var errCoordinates = errors.New("'lat' must be within -90..90 and 'lng' within -180..180")

// coordinateParams reads an optional lat/lng pair. ok is false when neither is given.
func coordinateParams(q url.Values) (float64, float64, bool, error) {
	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if latStr == "" && lngStr == "" {
		return 0, 0, false, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false, errCoordinates
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, false, errCoordinates
	}
	return lat, lng, true, nil
}

func radiusParam(q url.Values, def int) (int, error) {
	radius, err := util.PositiveIntParam(q.Get("radius"), def)
	if err != nil || radius > maxSearchRadius {
		return 0, errInvalidParam("radius")
	}
	return radius, nil
}
