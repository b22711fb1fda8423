package deps

import (
	"github.com/ccloudinthesky/journee/config"
	"github.com/ccloudinthesky/journee/internal/db"
	googlemaps "github.com/ccloudinthesky/journee/internal/http/google"
	"github.com/ccloudinthesky/journee/util/storage"
	"github.com/ccloudinthesky/journee/util/websockets"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Dependencies struct {
	DB         *db.DB
	Places     *googlemaps.Client
	Cloudinary *storage.Cloudinary
	WebSocket  *websockets.WebSocketManager
}

func New(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	database, err := db.New(cfg.Dsn, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}

	cloudinary, err := storage.NewCloudinary(cfg)
	if err != nil {
		database.Close()
		return nil, err
	}
	if cloudinary == nil {
		logger.Warn("cloudinary credentials missing, cover uploads disabled")
	}

	if cfg.GoogleMapsAPIKey == "" {
		logger.Warn("google maps API key is empty, place lookups will fail")
	}

	deps := Dependencies{
		DB:         database,
		Places:     googlemaps.NewClient(cfg.GoogleMapsAPIKey),
		Cloudinary: cloudinary,
		WebSocket:  websockets.NewWebSocketManager(logger, cfg.FrontendURL),
	}
	return &deps, nil
}

func (d *Dependencies) Close() {
	d.DB.Close()
}
