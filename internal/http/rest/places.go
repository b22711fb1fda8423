package rest

import (
	"context"

	googlemaps "github.com/ccloudinthesky/journee/internal/http/google"
	"github.com/ccloudinthesky/journee/internal/model"
)

// PlacesService is the maps provider the handlers talk to. *googlemaps.Client
// satisfies it.
type PlacesService interface {
	TextSearch(ctx context.Context, q googlemaps.TextSearchQuery) ([]model.Place, error)
	NearbySearch(ctx context.Context, q googlemaps.NearbyQuery) ([]model.Place, error)
	PlaceDetails(ctx context.Context, placeID string) (model.Place, error)
	Geocode(ctx context.Context, address string) (model.GeocodeResult, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (model.GeocodeResult, error)
	Directions(ctx context.Context, stops []string, mode string) (googlemaps.Route, error)
}

var _ PlacesService = (*googlemaps.Client)(nil)
