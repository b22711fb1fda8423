package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ccloudinthesky/journee/config"
	deps "github.com/ccloudinthesky/journee/internal/debs"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultShutdownPeriod = 30 * time.Second
	maxUploadSize         = 10 << 20
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	if resp == nil {
		// the handler already wrote the response (websocket upgrades)
		return
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	resp.Success = resp.StatusCode < http.StatusBadRequest
	if resp.err != nil {
		loggerFrom(r.Context()).Warn("request failed",
			zap.String("status", resp.Error),
			zap.String("message", resp.Message),
			zap.Error(resp.err),
		)
	}

	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server *http.Server
	Config *config.Config
	Deps   *deps.Dependencies
	Places PlacesService
	Logger *zap.Logger

	authLimiter *RateLimiter
	fetchGoogle func(ctx context.Context, accessToken string) (googleProfile, error)
}

// Init wires the pieces that depend on configuration.
func (api *API) Init() {
	if api.Logger == nil {
		api.Logger = zap.NewNop()
	}
	if api.Places == nil && api.Deps != nil && api.Deps.Places != nil {
		api.Places = api.Deps.Places
	}
	perMinute := api.Config.AuthRateLimit
	if perMinute <= 0 {
		perMinute = 20
	}
	api.authLimiter = NewRateLimiter(float64(perMinute)/60, perMinute)
	if api.fetchGoogle == nil {
		api.fetchGoogle = fetchGoogleProfile
	}
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(RequestTracing)
	mux.Use(api.RequestLogger)

	mux.Mount("/health", api.HealthRoutes())

	mux.Route("/api", func(r chi.Router) {
		r.Mount("/auth", api.AuthRoutes())
		r.Mount("/users", api.UserRoutes())
		r.Mount("/trips", api.TripRoutes())
		r.Mount("/saved-locations", api.SavedLocationRoutes())
		r.Mount("/google-maps", api.PlacesRoutes())
		r.Mount("/ws", api.WebSocketRoutes())
	})

	mux.NotFound(Handler(func(_ http.ResponseWriter, r *http.Request) *ServerResponse {
		return respondWithError(nil, "route not found", values.NotFound, nil)
	}).ServeHTTP)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{api.Config.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", values.HeaderRequestID, values.HeaderRequestSource},
		ExposedHeaders:   []string{values.HeaderRequestID},
		AllowCredentials: true,
	})
	return c.Handler(mux)
}

func (api *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	return api.Server.Shutdown(ctx)
}
