package rest

import (
	"context"
	"strings"
	"time"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/ccloudinthesky/journee/util"
	"github.com/ccloudinthesky/journee/util/hours"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/google/uuid"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// LocationHours is today's opening status of a saved location.
type LocationHours struct {
	LocationID   uuid.UUID     `json:"locationId"`
	OpeningHours *string       `json:"openingHours"`
	Today        *hours.Status `json:"today"`
}

func (api *API) CreateSavedLocationHelper(ctx context.Context, userID uuid.UUID, req model.LocationRequest) (model.LocationResponse, string, string, error) {
	if req.TripID != nil {
		if _, err := api.getTripRepo(ctx, api.Deps.DB.Pool(), userID, *req.TripID, false); err != nil {
			status, message := classify(err, "error checking trip")
			return model.LocationResponse{}, status, message, err
		}
	}

	location := req.SavedLocation(userID)
	location.ID = util.GenerateUUID()

	if err := api.insertSavedLocationRepo(ctx, api.Deps.DB.Pool(), &location); err != nil {
		status, message := classify(err, "error saving location")
		return model.LocationResponse{}, status, message, err
	}
	return location.Response(), values.Created, "Location saved successfully", nil
}

func (api *API) ListSavedLocationsHelper(ctx context.Context, userID uuid.UUID, filter model.LocationFilter) (model.LocationPage, string, string, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	locations, total, err := api.listSavedLocationsRepo(ctx, userID, filter)
	if err != nil {
		return model.LocationPage{}, values.Error, "error fetching saved locations", err
	}

	items := make([]model.LocationResponse, 0, len(locations))
	for _, l := range locations {
		items = append(items, l.Response())
	}

	page := model.LocationPage{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: util.TotalPages(total, filter.Limit),
	}
	return page, values.Success, "Saved locations retrieved successfully", nil
}

func (api *API) GetSavedLocationHelper(ctx context.Context, userID, id uuid.UUID) (model.LocationResponse, string, string, error) {
	location, err := api.getSavedLocationRepo(ctx, api.Deps.DB.Pool(), userID, id)
	if err != nil {
		status, message := classify(err, "error fetching saved location")
		return model.LocationResponse{}, status, message, err
	}
	return location.Response(), values.Success, "Saved location retrieved successfully", nil
}

func (api *API) SavedLocationHoursHelper(ctx context.Context, userID, id uuid.UUID, now time.Time) (LocationHours, string, string, error) {
	location, err := api.getSavedLocationRepo(ctx, api.Deps.DB.Pool(), userID, id)
	if err != nil {
		status, message := classify(err, "error fetching saved location")
		return LocationHours{}, status, message, err
	}

	result := LocationHours{LocationID: location.ID, OpeningHours: location.OpeningHours}
	if location.OpeningHours != nil {
		result.Today = hours.Evaluate(*location.OpeningHours, now)
	}
	return result, values.Success, "Opening hours retrieved successfully", nil
}

func (api *API) UpdateSavedLocationHelper(ctx context.Context, userID, id uuid.UUID, req model.UpdateLocationRequest) (model.LocationResponse, string, string, error) {
	if req.Empty() {
		return model.LocationResponse{}, values.BadRequestBody, ErrEmptyUpdate.Error(), ErrEmptyUpdate
	}

	location, err := api.updateSavedLocationRepo(ctx, userID, id, req)
	if err != nil {
		status, message := classify(err, "error updating saved location")
		return model.LocationResponse{}, status, message, err
	}
	return location.Response(), values.Success, "Saved location updated successfully", nil
}

func (api *API) DeleteSavedLocationHelper(ctx context.Context, userID, id uuid.UUID) (string, string, error) {
	if err := api.deleteSavedLocationRepo(ctx, api.Deps.DB.Pool(), userID, id); err != nil {
		status, message := classify(err, "error deleting saved location")
		return status, message, err
	}
	return values.Success, "Saved location deleted successfully", nil
}

func (api *API) BulkDeleteSavedLocationsHelper(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, string, string, error) {
	deleted, err := api.bulkDeleteSavedLocationsRepo(ctx, userID, ids)
	if err != nil {
		return 0, values.Error, "error deleting saved locations", err
	}
	return deleted, values.Success, "Saved locations deleted successfully", nil
}
