package rest

import (
	"net/http"

	"github.com/ccloudinthesky/journee/util/tracing"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) HealthRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Method(http.MethodGet, "/", Handler(api.Liveness))
	mux.Method(http.MethodGet, "/ready", Handler(api.Readiness))
	return mux
}

func (api *API) Liveness(_ http.ResponseWriter, _ *http.Request) *ServerResponse {
	return respond(map[string]string{"status": "ok"}, values.Success, "")
}

// Readiness reports whether the database answers.
func (api *API) Readiness(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	if api.Deps == nil || api.Deps.DB == nil {
		return respondWithError(nil, "database is not configured", values.Unavailable, &tc)
	}
	if err := api.Deps.DB.Ping(r.Context()); err != nil {
		return respondWithError(err, "database is unreachable", values.Unavailable, &tc)
	}
	return respond(map[string]string{"status": "ready"}, values.Success, "")
}
