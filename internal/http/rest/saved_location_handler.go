package rest

import (
	"net/http"
	"time"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/ccloudinthesky/journee/util"
	"github.com/ccloudinthesky/journee/util/tracing"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (api *API) SavedLocationRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Route("/", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/", Handler(api.ListSavedLocations))
		r.Method(http.MethodPost, "/", Handler(api.CreateSavedLocation))
		r.Method(http.MethodDelete, "/", Handler(api.BulkDeleteSavedLocations))
		r.Method(http.MethodGet, "/{id}", Handler(api.GetSavedLocation))
		r.Method(http.MethodGet, "/{id}/hours", Handler(api.GetSavedLocationHours))
		r.Method(http.MethodPut, "/{id}", Handler(api.UpdateSavedLocation))
		r.Method(http.MethodDelete, "/{id}", Handler(api.DeleteSavedLocation))
	})

	return mux
}

func (api *API) CreateSavedLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.LocationRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	location, status, message, err := api.CreateSavedLocationHelper(r.Context(), userID, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(location, status, message)
}

func (api *API) ListSavedLocations(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	filter, err := locationFilter(r)
	if err != nil {
		return respondWithError(err, err.Error(), values.BadRequestBody, &tc)
	}

	page, status, message, err := api.ListSavedLocationsHelper(r.Context(), userID, filter)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(page, status, message)
}

func (api *API) GetSavedLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		return respondWithError(err, "invalid location id", values.BadRequestBody, &tc)
	}

	location, status, message, err := api.GetSavedLocationHelper(r.Context(), userID, id)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(location, status, message)
}

func (api *API) GetSavedLocationHours(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		return respondWithError(err, "invalid location id", values.BadRequestBody, &tc)
	}

	result, status, message, err := api.SavedLocationHoursHelper(r.Context(), userID, id, time.Now())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(result, status, message)
}

func (api *API) UpdateSavedLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		return respondWithError(err, "invalid location id", values.BadRequestBody, &tc)
	}

	var req model.UpdateLocationRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	location, status, message, err := api.UpdateSavedLocationHelper(r.Context(), userID, id, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(location, status, message)
}

func (api *API) DeleteSavedLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		return respondWithError(err, "invalid location id", values.BadRequestBody, &tc)
	}

	status, message, err := api.DeleteSavedLocationHelper(r.Context(), userID, id)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(nil, status, message)
}

func (api *API) BulkDeleteSavedLocations(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.BulkDeleteRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	deleted, status, message, err := api.BulkDeleteSavedLocationsHelper(r.Context(), userID, req.IDs)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(map[string]int64{"deleted": deleted}, status, message)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	return util.StringToUUID(chi.URLParam(r, name))
}

func locationFilter(r *http.Request) (model.LocationFilter, error) {
	q := r.URL.Query()
	filter := model.LocationFilter{Search: q.Get("search")}

	if t := q.Get("type"); t != "" {
		if err := util.ValidateVar(t, "place_type"); err != nil {
			return filter, errInvalidParam("type")
		}
		filter.Type = model.PlaceType(t)
	}

	tripParam := q.Get("trip_id")
	if tripParam == "" {
		tripParam = q.Get("tripId")
	}
	if tripParam != "" {
		tripID, err := util.StringToUUID(tripParam)
		if err != nil {
			return filter, errInvalidParam("trip_id")
		}
		filter.TripID = &tripID
	}

	page, err := util.PositiveIntParam(q.Get("page"), 1)
	if err != nil {
		return filter, errInvalidParam("page")
	}
	limit, err := util.PositiveIntParam(q.Get("limit"), defaultPageLimit)
	if err != nil {
		return filter, errInvalidParam("limit")
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	filter.Page, filter.Limit = page, limit
	return filter, nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string { return "invalid " + string(e) + " parameter" }
