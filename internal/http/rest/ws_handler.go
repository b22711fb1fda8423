package rest

import (
	"net/http"

	"github.com/ccloudinthesky/journee/util"
	"github.com/ccloudinthesky/journee/util/tracing"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (api *API) WebSocketRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.With(api.RequireLogin).Method(http.MethodGet, "/", Handler(api.ServeWebSocket))
	return mux
}

// ServeWebSocket upgrades the connection and subscribes it to the caller's
// trip events. The response is written by the upgrader.
func (api *API) ServeWebSocket(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracing.FromContext(r.Context())

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	if api.Deps == nil || api.Deps.WebSocket == nil {
		return respondWithError(nil, "realtime updates are unavailable", values.Unavailable, &tc)
	}

	if err := api.Deps.WebSocket.Serve(w, r, userID.String()); err != nil {
		loggerFrom(r.Context()).Warn("websocket upgrade failed", zap.Error(err))
	}
	return nil
}
