package model

import (
	"time"

	"github.com/google/uuid"
)

type DayScheduleEntry struct {
	ID              uuid.UUID
	TripID          uuid.UUID
	DayNumber       int
	Position        int
	SavedLocationID uuid.UUID
	CreatedAt       time.Time
}

// Placement is a schedule entry joined with the location it places.
type Placement struct {
	Entry    DayScheduleEntry
	Location SavedLocation
}

type Day struct {
	Day       int                 `json:"day"`
	Date      string              `json:"date"`
	Locations []ScheduledLocation `json:"locations"`
}

type ScheduledLocation struct {
	LocationResponse
	Position int `json:"position"`
}
