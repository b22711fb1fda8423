package rest

import (
	"net/http"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/ccloudinthesky/journee/util"
	"github.com/ccloudinthesky/journee/util/tracing"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) AuthRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RateLimitAuth)
		r.Method(http.MethodPost, "/register", Handler(api.Register))
		r.Method(http.MethodPost, "/login", Handler(api.Login))
		r.Method(http.MethodPost, "/google", Handler(api.LoginWithGoogle))
	})
	mux.Method(http.MethodPost, "/logout", Handler(api.Logout))
	mux.With(api.RequireLogin).Method(http.MethodGet, "/profile", Handler(api.GetProfile))
	return mux
}

func (api *API) Register(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	var req model.RegisterRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.RegisterHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(resp, status, message)
}

func (api *API) Login(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	var req model.LoginRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.LoginHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(resp, status, message)
}

func (api *API) LoginWithGoogle(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	var req model.GoogleLoginRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.GoogleLoginHelper(r.Context(), req)
	if err != nil || status != values.Success {
		return respondWithError(err, message, status, &tc)
	}
	return respond(resp, status, message)
}

// Logout only acknowledges; tokens are stateless and expire on their own.
func (api *API) Logout(_ http.ResponseWriter, _ *http.Request) *ServerResponse {
	return respond(nil, values.Success, "Logged out successfully")
}

func (api *API) GetProfile(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	user, status, message, err := api.ProfileHelper(r.Context(), userID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	return respond(user, status, message)
}
