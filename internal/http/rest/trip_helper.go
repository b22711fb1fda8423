package rest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/ccloudinthesky/journee/internal/schedule"
	"github.com/ccloudinthesky/journee/util"
	"github.com/ccloudinthesky/journee/util/storage"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/ccloudinthesky/journee/util/websockets"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const defaultTravelMode = "driving"

// loadTrip reads a trip and materializes its days.
func (api *API) loadTrip(ctx context.Context, q querier, userID, tripID uuid.UUID) (model.TripResponse, error) {
	trip, err := api.getTripRepo(ctx, q, userID, tripID, false)
	if err != nil {
		return model.TripResponse{}, err
	}
	placements, err := api.placementsRepo(ctx, q, []uuid.UUID{trip.ID})
	if err != nil {
		return model.TripResponse{}, err
	}
	return schedule.Response(trip, placements[trip.ID]), nil
}

// lockDay locks the trip and checks that day belongs to it.
func (api *API) lockDay(ctx context.Context, tx pgx.Tx, userID, tripID uuid.UUID, day int) (model.Trip, error) {
	trip, err := api.getTripRepo(ctx, tx, userID, tripID, true)
	if err != nil {
		return model.Trip{}, err
	}
	total, err := schedule.DayCount(trip.StartDate, trip.EndDate)
	if err != nil {
		return model.Trip{}, err
	}
	if !schedule.ValidDay(day, total) {
		return model.Trip{}, ErrInvalidDayNumber
	}
	return trip, nil
}

func (api *API) notify(userID uuid.UUID, eventType string, tripID uuid.UUID, day int) {
	if api.Deps == nil {
		return
	}
	api.Deps.WebSocket.Notify(userID.String(), websockets.Event{
		Type:   eventType,
		TripID: tripID.String(),
		Day:    day,
	})
}

func (api *API) ListTripsHelper(ctx context.Context, userID uuid.UUID) ([]model.TripResponse, string, string, error) {
	trips, err := api.listTripsRepo(ctx, userID)
	if err != nil {
		return nil, values.Error, "error fetching trips", err
	}

	ids := make([]uuid.UUID, 0, len(trips))
	for _, t := range trips {
		ids = append(ids, t.ID)
	}
	placements, err := api.placementsRepo(ctx, api.Deps.DB.Pool(), ids)
	if err != nil {
		return nil, values.Error, "error fetching trips", err
	}

	responses := make([]model.TripResponse, 0, len(trips))
	for _, t := range trips {
		responses = append(responses, schedule.Response(t, placements[t.ID]))
	}
	return responses, values.Success, "Trips retrieved successfully", nil
}

func (api *API) CreateTripHelper(ctx context.Context, userID uuid.UUID, req model.CreateTripRequest) (model.TripResponse, string, string, error) {
	start, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		return model.TripResponse{}, values.BadRequestBody, "invalid start date", err
	}
	end, err := schedule.ParseDate(req.EndDate)
	if err != nil {
		return model.TripResponse{}, values.BadRequestBody, "invalid end date", err
	}
	if _, err := schedule.CheckRange(start, end); err != nil {
		return model.TripResponse{}, values.BadRequestBody, err.Error(), err
	}

	trip := model.Trip{
		ID:         util.GenerateUUID(),
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		StartDate:  start,
		EndDate:    end,
		CoverImage: req.CoverImage,
	}
	if trip.CoverImage == "" {
		trip.CoverImage = model.DefaultCoverImage
	}

	if err := api.insertTripRepo(ctx, &trip); err != nil {
		return model.TripResponse{}, values.Error, "error creating trip", err
	}

	api.notify(userID, websockets.EventTripCreated, trip.ID, 0)
	return schedule.Response(trip, nil), values.Created, "Trip created successfully", nil
}

func (api *API) GetTripHelper(ctx context.Context, userID, tripID uuid.UUID) (model.TripResponse, string, string, error) {
	trip, err := api.loadTrip(ctx, api.Deps.DB.Pool(), userID, tripID)
	if err != nil {
		status, message := classify(err, "error fetching trip")
		return model.TripResponse{}, status, message, err
	}
	return trip, values.Success, "Trip retrieved successfully", nil
}

// UpdateTripHelper applies a partial update. When the date range shrinks, the
// entries of the dropped days are deleted in the same transaction.
func (api *API) UpdateTripHelper(ctx context.Context, userID, tripID uuid.UUID, req model.UpdateTripRequest) (model.TripResponse, string, string, error) {
	if req.Empty() {
		return model.TripResponse{}, values.BadRequestBody, ErrEmptyUpdate.Error(), ErrEmptyUpdate
	}

	var trimmed int64
	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		trip, err := api.getTripRepo(ctx, tx, userID, tripID, true)
		if err != nil {
			return err
		}

		if req.Name != nil {
			trip.Name = strings.TrimSpace(*req.Name)
		}
		if req.StartDate != nil {
			if trip.StartDate, err = schedule.ParseDate(*req.StartDate); err != nil {
				return err
			}
		}
		if req.EndDate != nil {
			if trip.EndDate, err = schedule.ParseDate(*req.EndDate); err != nil {
				return err
			}
		}
		if req.CoverImage != nil {
			trip.CoverImage = *req.CoverImage
			if trip.CoverImage == "" {
				trip.CoverImage = model.DefaultCoverImage
			}
		}

		total, err := schedule.CheckRange(trip.StartDate, trip.EndDate)
		if err != nil {
			return err
		}
		if err := api.updateTripRepo(ctx, tx, &trip); err != nil {
			return err
		}
		trimmed, err = api.trimScheduleRepo(ctx, tx, trip.ID, total)
		return err
	})
	if err != nil {
		status, message := classify(err, "error updating trip")
		return model.TripResponse{}, status, message, err
	}
	if trimmed > 0 {
		loggerFrom(ctx).Info("trimmed schedule after date change",
			zap.String("trip_id", tripID.String()), zap.Int64("entries", trimmed))
	}

	trip, err := api.loadTrip(ctx, api.Deps.DB.Pool(), userID, tripID)
	if err != nil {
		status, message := classify(err, "error fetching trip")
		return model.TripResponse{}, status, message, err
	}

	api.notify(userID, websockets.EventTripUpdated, tripID, 0)
	return trip, values.Success, "Trip updated successfully", nil
}

func (api *API) DeleteTripHelper(ctx context.Context, userID, tripID uuid.UUID) (string, string, error) {
	if err := api.softDeleteTripRepo(ctx, userID, tripID); err != nil {
		status, message := classify(err, "error deleting trip")
		return status, message, err
	}

	api.notify(userID, websockets.EventTripDeleted, tripID, 0)
	return values.Success, "Trip deleted successfully", nil
}

func (api *API) UploadTripCoverHelper(ctx context.Context, userID, tripID uuid.UUID, file io.Reader) (model.TripResponse, string, string, error) {
	if _, err := api.getTripRepo(ctx, api.Deps.DB.Pool(), userID, tripID, false); err != nil {
		status, message := classify(err, "error fetching trip")
		return model.TripResponse{}, status, message, err
	}

	url, err := api.Deps.Cloudinary.UploadImage(ctx, file, storage.CoverFolder)
	if err != nil {
		status, message := classify(err, "error uploading cover image")
		return model.TripResponse{}, status, message, err
	}

	return api.UpdateTripHelper(ctx, userID, tripID, model.UpdateTripRequest{CoverImage: &url})
}

// AddLocationToDayHelper reuses the caller's saved location for the place when
// there is one, creates it otherwise, and appends it to the day.
func (api *API) AddLocationToDayHelper(ctx context.Context, userID, tripID uuid.UUID, day int, req model.LocationRequest) (model.TripResponse, string, string, error) {
	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		if _, err := api.lockDay(ctx, tx, userID, tripID, day); err != nil {
			return err
		}

		location, found, err := api.savedLocationByPlaceRepo(ctx, tx, userID, req.PlaceID)
		if err != nil {
			return err
		}
		if !found {
			location = req.SavedLocation(userID)
			location.ID = util.GenerateUUID()
			location.TripID = &tripID

			created, err := api.insertSavedLocationIfAbsentRepo(ctx, tx, &location)
			if err != nil {
				return err
			}
			if !created {
				if location, _, err = api.savedLocationByPlaceRepo(ctx, tx, userID, req.PlaceID); err != nil {
					return err
				}
			}
		}

		entries, err := api.dayEntriesRepo(ctx, tx, tripID, day)
		if err != nil {
			return err
		}
		positions := make([]int, 0, len(entries))
		for _, e := range entries {
			if e.SavedLocationID == location.ID {
				return ErrLocationAlreadyScheduled
			}
			positions = append(positions, e.Position)
		}

		entry := model.DayScheduleEntry{
			ID:              util.GenerateUUID(),
			TripID:          tripID,
			DayNumber:       day,
			Position:        schedule.NextPosition(positions),
			SavedLocationID: location.ID,
		}
		if err := api.insertEntryRepo(ctx, tx, &entry); err != nil {
			return err
		}
		return api.touchTripRepo(ctx, tx, tripID)
	})
	if err != nil {
		status, message := classify(err, "error adding location to day")
		return model.TripResponse{}, status, message, err
	}

	return api.scheduleChanged(ctx, userID, tripID, day, values.Created, "Location added to day successfully")
}

// RemoveLocationFromDayHelper removes the day entry. With purge the saved
// location itself is deleted too, which also drops it from every other day.
func (api *API) RemoveLocationFromDayHelper(ctx context.Context, userID, tripID uuid.UUID, day int, locationID uuid.UUID, purge bool) (model.TripResponse, string, string, error) {
	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		if _, err := api.lockDay(ctx, tx, userID, tripID, day); err != nil {
			return err
		}
		if err := api.deleteEntryRepo(ctx, tx, tripID, day, locationID); err != nil {
			return err
		}
		if purge {
			if err := api.deleteSavedLocationRepo(ctx, tx, userID, locationID); err != nil {
				return err
			}
		}
		return api.touchTripRepo(ctx, tx, tripID)
	})
	if err != nil {
		status, message := classify(err, "error removing location from day")
		return model.TripResponse{}, status, message, err
	}

	return api.scheduleChanged(ctx, userID, tripID, day, values.Success, "Location removed from day successfully")
}

// ReorderDayHelper renumbers the day 1..n in the requested order. The request
// must list every location of the day exactly once.
func (api *API) ReorderDayHelper(ctx context.Context, userID, tripID uuid.UUID, day int, ordered []uuid.UUID) (model.TripResponse, string, string, error) {
	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		if _, err := api.lockDay(ctx, tx, userID, tripID, day); err != nil {
			return err
		}

		entries, err := api.dayEntriesRepo(ctx, tx, tripID, day)
		if err != nil {
			return err
		}
		current := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			current = append(current, e.SavedLocationID)
		}

		plan, err := schedule.ReorderPlan(current, ordered)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if plan[e.SavedLocationID] == e.Position {
				continue
			}
			if err := api.setEntryPositionRepo(ctx, tx, e.ID, plan[e.SavedLocationID]); err != nil {
				return err
			}
		}
		return api.touchTripRepo(ctx, tx, tripID)
	})
	if err != nil {
		status, message := classify(err, "error reordering day")
		return model.TripResponse{}, status, message, err
	}

	return api.scheduleChanged(ctx, userID, tripID, day, values.Success, "Day reordered successfully")
}

func (api *API) scheduleChanged(ctx context.Context, userID, tripID uuid.UUID, day int, status, message string) (model.TripResponse, string, string, error) {
	trip, err := api.loadTrip(ctx, api.Deps.DB.Pool(), userID, tripID)
	if err != nil {
		failStatus, msg := classify(err, "error fetching trip")
		return model.TripResponse{}, failStatus, msg, err
	}

	api.notify(userID, websockets.EventScheduleMoved, tripID, day)
	return trip, status, message, nil
}

// DayRouteHelper asks the maps provider for a route through the day's stops
// in schedule order.
func (api *API) DayRouteHelper(ctx context.Context, userID, tripID uuid.UUID, day int, mode string) (model.DayRoute, string, string, error) {
	if mode == "" {
		mode = defaultTravelMode
	}

	trip, err := api.loadTrip(ctx, api.Deps.DB.Pool(), userID, tripID)
	if err != nil {
		status, message := classify(err, "error fetching trip")
		return model.DayRoute{}, status, message, err
	}
	if day < 1 || day > len(trip.Days) {
		return model.DayRoute{}, values.BadRequestBody, ErrInvalidDayNumber.Error(), ErrInvalidDayNumber
	}

	locations := trip.Days[day-1].Locations
	if len(locations) < 2 {
		return model.DayRoute{}, values.BadRequestBody, "a route needs at least two locations on the day", nil
	}

	stops := make([]string, 0, len(locations))
	for _, l := range locations {
		stops = append(stops, "place_id:"+l.PlaceID)
	}

	route, err := api.Places.Directions(ctx, stops, mode)
	if err != nil {
		status, message := classify(err, "error fetching route")
		return model.DayRoute{}, status, message, err
	}

	result := model.DayRoute{Day: day, Mode: mode, Legs: []model.RouteLeg{}, Path: []model.Coordinates{}}
	for i, leg := range route.Legs {
		if i+1 >= len(locations) {
			break
		}
		result.Legs = append(result.Legs, model.RouteLeg{
			From:            locations[i].ID,
			To:              locations[i+1].ID,
			DistanceMeters:  leg.DistanceMeters,
			DurationSeconds: leg.DurationSeconds,
		})
		result.DistanceMeters += leg.DistanceMeters
		result.DurationSeconds += leg.DurationSeconds
	}

	if route.Polyline != "" {
		coords, err := util.DecodePolyLine(route.Polyline)
		if err != nil {
			return model.DayRoute{}, values.Error, "error decoding route", fmt.Errorf("decode polyline: %w", err)
		}
		for _, c := range coords {
			result.Path = append(result.Path, model.Coordinates{Lat: c[0], Lng: c[1]})
		}
	}
	return result, values.Success, "Route retrieved successfully", nil
}
