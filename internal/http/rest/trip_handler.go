package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	googlemaps "github.com/ccloudinthesky/journee/internal/http/google"
	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/ccloudinthesky/journee/util"
	"github.com/ccloudinthesky/journee/util/tracing"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) TripRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Route("/", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/", Handler(api.ListTrips))
		r.Method(http.MethodPost, "/", Handler(api.CreateTrip))
		r.Method(http.MethodGet, "/{tripId}", Handler(api.GetTrip))
		r.Method(http.MethodPut, "/{tripId}", Handler(api.UpdateTrip))
		r.Method(http.MethodDelete, "/{tripId}", Handler(api.DeleteTrip))
		r.Method(http.MethodPost, "/{tripId}/cover", Handler(api.UploadTripCover))

		r.Route("/{tripId}/days/{dayNumber}", func(r chi.Router) {
			r.Method(http.MethodPost, "/locations", Handler(api.AddLocationToDay))
			r.Method(http.MethodPut, "/locations/reorder", Handler(api.ReorderDay))
			r.Method(http.MethodDelete, "/locations/{locationId}", Handler(api.RemoveLocationFromDay))
			r.Method(http.MethodGet, "/route", Handler(api.GetDayRoute))
		})
	})

	return mux
}

func (api *API) ListTrips(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	trips, status, message, err := api.ListTripsHelper(r.Context(), userID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(trips, status, message)
}

func (api *API) CreateTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.CreateTripRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	trip, status, message, err := api.CreateTripHelper(r.Context(), userID, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(trip, status, message)
}

func (api *API) GetTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	trip, status, message, err := api.GetTripHelper(r.Context(), userID, tripID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(trip, status, message)
}

func (api *API) UpdateTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	var req model.UpdateTripRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	trip, status, message, err := api.UpdateTripHelper(r.Context(), userID, tripID, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(trip, status, message)
}

func (api *API) DeleteTrip(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	status, message, err := api.DeleteTripHelper(r.Context(), userID, tripID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(nil, status, message)
}

func (api *API) UploadTripCover(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return respondWithError(err, "cover image must be a multipart upload of at most 10MB", values.BadRequestBody, &tc)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return respondWithError(err, "missing file field", values.BadRequestBody, &tc)
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return respondWithError(nil, "cover must be an image", values.BadRequestBody, &tc)
	}

	trip, status, message, err := api.UploadTripCoverHelper(r.Context(), userID, tripID, file)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(trip, status, "Cover image uploaded successfully")
}

func (api *API) AddLocationToDay(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}
	day, err := dayParam(r)
	if err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}

	var req model.LocationRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	trip, status, message, err := api.AddLocationToDayHelper(r.Context(), userID, tripID, day, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(trip, status, message)
}

func (api *API) RemoveLocationFromDay(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}
	day, err := dayParam(r)
	if err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}
	locationID, err := uuidParam(r, "locationId")
	if err != nil {
		return respondWithError(err, "invalid location id", values.BadRequestBody, &tc)
	}

	purge, _ := strconv.ParseBool(r.URL.Query().Get("purge"))

	trip, status, message, err := api.RemoveLocationFromDayHelper(r.Context(), userID, tripID, day, locationID, purge)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(trip, status, message)
}

func (api *API) ReorderDay(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}
	day, err := dayParam(r)
	if err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}

	var req model.ReorderRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	trip, status, message, err := api.ReorderDayHelper(r.Context(), userID, tripID, day, req.LocationIDs)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(trip, status, message)
}

func (api *API) GetDayRoute(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	tripID, err := uuidParam(r, "tripId")
	if err != nil {
		return respondWithError(err, "invalid trip id", values.BadRequestBody, &tc)
	}
	day, err := dayParam(r)
	if err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}

	mode := r.URL.Query().Get("mode")
	if mode != "" && !googlemaps.ValidMode(mode) {
		return respondWithError(nil, "mode must be driving, walking, bicycling or transit", values.BadRequestBody, &tc)
	}

	route, status, message, err := api.DayRouteHelper(r.Context(), userID, tripID, day, mode)
	if err != nil || status != values.Success {
		return respondWithError(err, message, status, &tc)
	}
	return respond(route, status, message)
}

var errInvalidDay = errors.New("day number must be a positive integer")

func dayParam(r *http.Request) (int, error) {
	day, err := strconv.Atoi(chi.URLParam(r, "dayNumber"))
	if err != nil || day < 1 {
		return 0, errInvalidDay
	}
	return day, nil
}
