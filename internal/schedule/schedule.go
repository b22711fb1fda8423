// Package schedule expands a trip's date range into numbered days and keeps
// the ordering rules for the locations placed on each day.
package schedule

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/google/uuid"
)

var (
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD or RFC3339")
	ErrInvalidRange    = errors.New("end date cannot be before start date")
	ErrReorderMismatch = errors.New("location ids must match the day's locations exactly")
	ErrTripTooLong     = errors.New("a trip cannot span more than 1000 days")
)

// MaxTripDays bounds the date range accepted for new or updated trips.
const MaxTripDays = 1000

const secondsPerDay = 24 * 60 * 60

// ParseDate accepts a calendar date or an RFC3339 timestamp and returns the
// calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return civil(t), nil
}

func FormatDate(t time.Time) string {
	return civil(t).Format(time.DateOnly)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayCount is the number of trip days in the inclusive range [start, end].
func DayCount(start, end time.Time) (int, error) {
	s, e := civil(start), civil(end)
	if e.Before(s) {
		return 0, ErrInvalidRange
	}
	return int((e.Unix()-s.Unix())/secondsPerDay) + 1, nil
}

// CheckRange is DayCount for ranges supplied by a client.
func CheckRange(start, end time.Time) (int, error) {
	total, err := DayCount(start, end)
	if err != nil {
		return 0, err
	}
	if total > MaxTripDays {
		return 0, ErrTripTooLong
	}
	return total, nil
}

// DateOf returns the calendar date of a 1-based day number.
func DateOf(start time.Time, dayNumber int) string {
	return civil(start).AddDate(0, 0, dayNumber-1).Format(time.DateOnly)
}

func ValidDay(dayNumber, totalDays int) bool {
	return dayNumber >= 1 && dayNumber <= totalDays
}

// Materialize builds one Day per calendar day of the trip, in order, with the
// placed locations sorted by position. Days without placements are kept with
// an empty list; placements beyond the trip's last day are left out.
func Materialize(trip model.Trip, placements []model.Placement) []model.Day {
	total, err := DayCount(trip.StartDate, trip.EndDate)
	if err != nil {
		return []model.Day{}
	}

	byDay := make(map[int][]model.Placement, total)
	for _, p := range placements {
		if !ValidDay(p.Entry.DayNumber, total) {
			continue
		}
		byDay[p.Entry.DayNumber] = append(byDay[p.Entry.DayNumber], p)
	}

	days := make([]model.Day, 0, total)
	for day := 1; day <= total; day++ {
		placed := byDay[day]
		sort.SliceStable(placed, func(i, j int) bool {
			return placed[i].Entry.Position < placed[j].Entry.Position
		})

		locations := make([]model.ScheduledLocation, 0, len(placed))
		for _, p := range placed {
			locations = append(locations, model.ScheduledLocation{
				LocationResponse: p.Location.Response(),
				Position:         p.Entry.Position,
			})
		}

		days = append(days, model.Day{
			Day:       day,
			Date:      DateOf(trip.StartDate, day),
			Locations: locations,
		})
	}
	return days
}

// Response renders a trip together with its materialized days.
func Response(trip model.Trip, placements []model.Placement) model.TripResponse {
	return model.TripResponse{
		ID:         trip.ID,
		Name:       trip.Name,
		StartDate:  FormatDate(trip.StartDate),
		EndDate:    FormatDate(trip.EndDate),
		CoverImage: trip.CoverImage,
		Days:       Materialize(trip, placements),
		CreatedAt:  trip.CreatedAt,
		UpdatedAt:  trip.UpdatedAt,
	}
}

// NextPosition appends after the highest existing position. Gaps left by
// removals are not reused.
func NextPosition(positions []int) int {
	highest := 0
	for _, p := range positions {
		if p > highest {
			highest = p
		}
	}
	return highest + 1
}

// ReorderPlan maps every location of a day to its new 1-based position. The
// requested order must name each current location exactly once.
func ReorderPlan(current, ordered []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(current) != len(ordered) {
		return nil, ErrReorderMismatch
	}

	known := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		known[id] = struct{}{}
	}

	plan := make(map[uuid.UUID]int, len(ordered))
	for i, id := range ordered {
		if _, ok := known[id]; !ok {
			return nil, ErrReorderMismatch
		}
		if _, dup := plan[id]; dup {
			return nil, ErrReorderMismatch
		}
		plan[id] = i + 1
	}
	return plan, nil
}
