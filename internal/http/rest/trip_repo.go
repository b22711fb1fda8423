package rest

import (
	"context"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const tripColumns = `id, user_id, name, start_date, end_date, cover_image, is_deleted, created_at, updated_at`

func scanTrip(row pgx.Row) (model.Trip, error) {
	var t model.Trip
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.StartDate,
		&t.EndDate,
		&t.CoverImage,
		&t.Deleted,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (api *API) insertTripRepo(ctx context.Context, t *model.Trip) error {
	stmt := `
		INSERT INTO trips (id, user_id, name, start_date, end_date, cover_image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := api.Deps.DB.Pool().QueryRow(ctx, stmt,
		t.ID,
		t.UserID,
		t.Name,
		t.StartDate,
		t.EndDate,
		t.CoverImage,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "inserting trip")
	}
	return nil
}

// getTripRepo returns a live trip of the user. lock takes a row lock so
// concurrent schedule edits on the same trip run one after another.
func (api *API) getTripRepo(ctx context.Context, q querier, userID, tripID uuid.UUID, lock bool) (model.Trip, error) {
	stmt := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`
	if lock {
		stmt += ` FOR UPDATE`
	}

	t, err := scanTrip(q.QueryRow(ctx, stmt, tripID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Trip{}, ErrTripNotFound
		}
		return model.Trip{}, errors.Wrap(err, "getting trip")
	}
	return t, nil
}

func (api *API) listTripsRepo(ctx context.Context, userID uuid.UUID) ([]model.Trip, error) {
	stmt := `SELECT ` + tripColumns + ` FROM trips WHERE user_id = $1 AND is_deleted = FALSE ORDER BY start_date, created_at`

	rows, err := api.Deps.DB.Pool().Query(ctx, stmt, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing trips")
	}
	defer rows.Close()

	trips := []model.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning trip")
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (api *API) updateTripRepo(ctx context.Context, q querier, t *model.Trip) error {
	stmt := `
		UPDATE trips
		SET name = $2, start_date = $3, end_date = $4, cover_image = $5, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, stmt, t.ID, t.Name, t.StartDate, t.EndDate, t.CoverImage).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTripNotFound
		}
		return errors.Wrap(err, "updating trip")
	}
	return nil
}

func (api *API) touchTripRepo(ctx context.Context, q querier, tripID uuid.UUID) error {
	_, err := q.Exec(ctx, `UPDATE trips SET updated_at = NOW() WHERE id = $1`, tripID)
	return errors.Wrap(err, "touching trip")
}

// softDeleteTripRepo keeps the row, only flagging it.
func (api *API) softDeleteTripRepo(ctx context.Context, userID, tripID uuid.UUID) error {
	stmt := `UPDATE trips SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE`
	tag, err := api.Deps.DB.Pool().Exec(ctx, stmt, tripID, userID)
	if err != nil {
		return errors.Wrap(err, "deleting trip")
	}
	if tag.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

// placementsRepo loads the schedule of several trips in one round trip.
func (api *API) placementsRepo(ctx context.Context, q querier, tripIDs []uuid.UUID) (map[uuid.UUID][]model.Placement, error) {
	stmt := `
		SELECT e.id, e.trip_id, e.day_number, e.position, e.saved_location_id, e.created_at,
			l.id, l.user_id, l.trip_id, l.name, l.address, l.place_id, l.lat, l.lng, l.type,
			l.opening_hours, l.photo_url, l.rating, l.phone_number, l.created_at
		FROM day_schedule_entries e
		JOIN saved_locations l ON l.id = e.saved_location_id
		WHERE e.trip_id = ANY($1)
		ORDER BY e.trip_id, e.day_number, e.position
	`
	rows, err := q.Query(ctx, stmt, tripIDs)
	if err != nil {
		return nil, errors.Wrap(err, "loading schedule")
	}
	defer rows.Close()

	byTrip := make(map[uuid.UUID][]model.Placement, len(tripIDs))
	for rows.Next() {
		var p model.Placement
		err := rows.Scan(
			&p.Entry.ID,
			&p.Entry.TripID,
			&p.Entry.DayNumber,
			&p.Entry.Position,
			&p.Entry.SavedLocationID,
			&p.Entry.CreatedAt,
			&p.Location.ID,
			&p.Location.UserID,
			&p.Location.TripID,
			&p.Location.Name,
			&p.Location.Address,
			&p.Location.PlaceID,
			&p.Location.Lat,
			&p.Location.Lng,
			&p.Location.Type,
			&p.Location.OpeningHours,
			&p.Location.PhotoURL,
			&p.Location.Rating,
			&p.Location.PhoneNumber,
			&p.Location.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scanning schedule entry")
		}
		byTrip[p.Entry.TripID] = append(byTrip[p.Entry.TripID], p)
	}
	return byTrip, rows.Err()
}

func (api *API) dayEntriesRepo(ctx context.Context, q querier, tripID uuid.UUID, day int) ([]model.DayScheduleEntry, error) {
	stmt := `
		SELECT id, trip_id, day_number, position, saved_location_id, created_at
		FROM day_schedule_entries
		WHERE trip_id = $1 AND day_number = $2
		ORDER BY position
	`
	rows, err := q.Query(ctx, stmt, tripID, day)
	if err != nil {
		return nil, errors.Wrap(err, "loading day entries")
	}
	defer rows.Close()

	entries := []model.DayScheduleEntry{}
	for rows.Next() {
		var e model.DayScheduleEntry
		if err := rows.Scan(&e.ID, &e.TripID, &e.DayNumber, &e.Position, &e.SavedLocationID, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning day entry")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (api *API) insertEntryRepo(ctx context.Context, q querier, e *model.DayScheduleEntry) error {
	stmt := `
		INSERT INTO day_schedule_entries (id, trip_id, day_number, position, saved_location_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, stmt, e.ID, e.TripID, e.DayNumber, e.Position, e.SavedLocationID).Scan(&e.CreatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrLocationAlreadyScheduled
		}
		return errors.Wrap(err, "inserting schedule entry")
	}
	return nil
}

func (api *API) deleteEntryRepo(ctx context.Context, q querier, tripID uuid.UUID, day int, locationID uuid.UUID) error {
	stmt := `DELETE FROM day_schedule_entries WHERE trip_id = $1 AND day_number = $2 AND saved_location_id = $3`
	tag, err := q.Exec(ctx, stmt, tripID, day, locationID)
	if err != nil {
		return errors.Wrap(err, "deleting schedule entry")
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleEntryNotFound
	}
	return nil
}

func (api *API) setEntryPositionRepo(ctx context.Context, q querier, entryID uuid.UUID, position int) error {
	_, err := q.Exec(ctx, `UPDATE day_schedule_entries SET position = $2 WHERE id = $1`, entryID, position)
	return errors.Wrap(err, "updating entry position")
}

// trimScheduleRepo drops entries that fall after the trip's last day.
func (api *API) trimScheduleRepo(ctx context.Context, q querier, tripID uuid.UUID, dayCount int) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM day_schedule_entries WHERE trip_id = $1 AND day_number > $2`, tripID, dayCount)
	if err != nil {
		return 0, errors.Wrap(err, "trimming schedule")
	}
	return tag.RowsAffected(), nil
}
