package rest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const savedLocationColumns = `id, user_id, trip_id, name, address, place_id, lat, lng, type,
	opening_hours, photo_url, rating, phone_number, created_at`

func scanSavedLocation(row pgx.Row) (model.SavedLocation, error) {
	var l model.SavedLocation
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.TripID,
		&l.Name,
		&l.Address,
		&l.PlaceID,
		&l.Lat,
		&l.Lng,
		&l.Type,
		&l.OpeningHours,
		&l.PhotoURL,
		&l.Rating,
		&l.PhoneNumber,
		&l.CreatedAt,
	)
	return l, err
}

func (api *API) insertSavedLocationRepo(ctx context.Context, q querier, l *model.SavedLocation) error {
	stmt := `
		INSERT INTO saved_locations (id, user_id, trip_id, name, address, place_id, lat, lng, type,
			opening_hours, photo_url, rating, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, stmt,
		l.ID,
		l.UserID,
		l.TripID,
		l.Name,
		l.Address,
		l.PlaceID,
		l.Lat,
		l.Lng,
		l.Type,
		l.OpeningHours,
		l.PhotoURL,
		l.Rating,
		l.PhoneNumber,
	).Scan(&l.CreatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrDuplicatePlace
		}
		return errors.Wrap(err, "inserting saved location")
	}
	return nil
}

// savedLocationByPlaceRepo looks a place up in the caller's registry. found is
// false when the user never saved it.
func (api *API) savedLocationByPlaceRepo(ctx context.Context, q querier, userID uuid.UUID, placeID string) (model.SavedLocation, bool, error) {
	stmt := `SELECT ` + savedLocationColumns + ` FROM saved_locations WHERE user_id = $1 AND place_id = $2`

	l, err := scanSavedLocation(q.QueryRow(ctx, stmt, userID, placeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SavedLocation{}, false, nil
		}
		return model.SavedLocation{}, false, errors.Wrap(err, "finding saved location by place")
	}
	return l, true, nil
}

func (api *API) getSavedLocationRepo(ctx context.Context, q querier, userID, id uuid.UUID) (model.SavedLocation, error) {
	stmt := `SELECT ` + savedLocationColumns + ` FROM saved_locations WHERE id = $1 AND user_id = $2`

	l, err := scanSavedLocation(q.QueryRow(ctx, stmt, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SavedLocation{}, ErrSavedLocationNotFound
		}
		return model.SavedLocation{}, errors.Wrap(err, "getting saved location")
	}
	return l, nil
}

func (api *API) listSavedLocationsRepo(ctx context.Context, userID uuid.UUID, f model.LocationFilter) ([]model.SavedLocation, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d)", n, n))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.TripID != nil {
		args = append(args, *f.TripID)
		where = append(where, fmt.Sprintf("trip_id = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := api.Deps.DB.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM saved_locations WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "counting saved locations")
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	stmt := fmt.Sprintf(`SELECT %s FROM saved_locations WHERE %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		savedLocationColumns, cond, len(args)-1, len(args))

	rows, err := api.Deps.DB.Pool().Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing saved locations")
	}
	defer rows.Close()

	locations := []model.SavedLocation{}
	for rows.Next() {
		l, err := scanSavedLocation(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scanning saved location")
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "iterating saved locations")
	}
	return locations, total, nil
}

func (api *API) updateSavedLocationRepo(ctx context.Context, userID, id uuid.UUID, req model.UpdateLocationRequest) (model.SavedLocation, error) {
	var sets []string
	var args []any
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if req.Coordinates != nil {
		set("lat", req.Coordinates.Lat)
		set("lng", req.Coordinates.Lng)
	}
	if req.Type != nil {
		set("type", *req.Type)
	}
	if req.OpeningHours != nil {
		set("opening_hours", *req.OpeningHours)
	}
	if req.PhotoURL != nil {
		set("photo_url", *req.PhotoURL)
	}
	if req.Rating != nil {
		set("rating", *req.Rating)
	}
	if req.PhoneNumber != nil {
		set("phone_number", *req.PhoneNumber)
	}
	if len(sets) == 0 {
		return model.SavedLocation{}, ErrEmptyUpdate
	}

	args = append(args, id, userID)
	stmt := fmt.Sprintf(`UPDATE saved_locations SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), savedLocationColumns)

	l, err := scanSavedLocation(api.Deps.DB.Pool().QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SavedLocation{}, ErrSavedLocationNotFound
		}
		return model.SavedLocation{}, errors.Wrap(err, "updating saved location")
	}
	return l, nil
}

func (api *API) deleteSavedLocationRepo(ctx context.Context, q querier, userID, id uuid.UUID) error {
	tag, err := q.Exec(ctx, `DELETE FROM saved_locations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "deleting saved location")
	}
	if tag.RowsAffected() == 0 {
		return ErrSavedLocationNotFound
	}
	return nil
}

// bulkDeleteSavedLocationsRepo ignores ids owned by other users.
func (api *API) bulkDeleteSavedLocationsRepo(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	tag, err := api.Deps.DB.Pool().Exec(ctx, `DELETE FROM saved_locations WHERE id = ANY($1) AND user_id = $2`, ids, userID)
	if err != nil {
		return 0, errors.Wrap(err, "bulk deleting saved locations")
	}
	return tag.RowsAffected(), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// insertSavedLocationIfAbsentRepo is the in-transaction variant of insert: a
// concurrent save of the same place reports created=false instead of aborting
// the transaction.
func (api *API) insertSavedLocationIfAbsentRepo(ctx context.Context, q querier, l *model.SavedLocation) (bool, error) {
	stmt := `
		INSERT INTO saved_locations (id, user_id, trip_id, name, address, place_id, lat, lng, type,
			opening_hours, photo_url, rating, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT ON CONSTRAINT saved_locations_user_place_key DO NOTHING
		RETURNING created_at
	`
	err := q.QueryRow(ctx, stmt,
		l.ID,
		l.UserID,
		l.TripID,
		l.Name,
		l.Address,
		l.PlaceID,
		l.Lat,
		l.Lng,
		l.Type,
		l.OpeningHours,
		l.PhotoURL,
		l.Rating,
		l.PhoneNumber,
	).Scan(&l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrap(err, "inserting saved location")
	}
	return true, nil
}
