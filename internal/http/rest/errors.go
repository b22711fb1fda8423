package rest

import (
	"errors"

	googlemaps "github.com/ccloudinthesky/journee/internal/http/google"
	"github.com/ccloudinthesky/journee/internal/schedule"
	"github.com/ccloudinthesky/journee/util/storage"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrTripNotFound             = errors.New("trip not found")
	ErrSavedLocationNotFound    = errors.New("saved location not found")
	ErrScheduleEntryNotFound    = errors.New("location is not scheduled on this day")
	ErrDuplicatePlace           = errors.New("place is already saved")
	ErrLocationAlreadyScheduled = errors.New("location is already scheduled on this day")
	ErrEmptyUpdate              = errors.New("no fields to update")
	ErrInvalidDayNumber         = errors.New("day number is outside the trip")
	ErrEmailTaken               = errors.New("email is already registered")
	ErrInvalidCredentials       = errors.New("invalid email or password")
)

const pgUniqueViolation = "23505"

func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// classify maps domain errors onto a response status and message. Anything it
// does not recognise is reported with fallback.
func classify(err error, fallback string) (string, string) {
	switch {
	case errors.Is(err, ErrTripNotFound),
		errors.Is(err, ErrSavedLocationNotFound),
		errors.Is(err, ErrScheduleEntryNotFound):
		return values.NotFound, err.Error()
	case errors.Is(err, ErrDuplicatePlace),
		errors.Is(err, ErrLocationAlreadyScheduled),
		errors.Is(err, ErrEmailTaken):
		return values.Conflict, err.Error()
	case errors.Is(err, ErrEmptyUpdate),
		errors.Is(err, ErrInvalidDayNumber),
		errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, schedule.ErrInvalidRange),
		errors.Is(err, schedule.ErrTripTooLong),
		errors.Is(err, schedule.ErrReorderMismatch):
		return values.BadRequestBody, err.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return values.NotAuthorised, err.Error()
	case errors.Is(err, storage.ErrNotConfigured),
		errors.Is(err, googlemaps.ErrMissingAPIKey):
		return values.Unavailable, err.Error()
	case errors.Is(err, googlemaps.ErrNotFound):
		return values.NotFound, "no matching place found"
	}
	var apiErr *googlemaps.APIError
	if errors.As(err, &apiErr) {
		return values.Error, "maps provider request failed"
	}
	return values.Error, fallback
}
