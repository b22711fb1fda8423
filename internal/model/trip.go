package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCoverImage is stored when a trip is created without a cover.
const DefaultCoverImage = "https://images.unsplash.com/photo-1707550936239-aa262b3ef116?ixlib=rb-4.1.0&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA==&auto=format&fit=crop&q=80&w=2070"

type Trip struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	CoverImage string
	Deleted    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TripResponse is a trip with its date range expanded into days.
type TripResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	CoverImage string    `json:"coverImage"`
	Days       []Day     `json:"days"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CreateTripRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	StartDate  string `json:"startDate" validate:"required,date"`
	EndDate    string `json:"endDate" validate:"required,date"`
	CoverImage string `json:"coverImage" validate:"omitempty,cover_image"`
}

// UpdateTripRequest only changes the fields that are present.
type UpdateTripRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=100"`
	StartDate  *string `json:"startDate" validate:"omitempty,date"`
	EndDate    *string `json:"endDate" validate:"omitempty,date"`
	CoverImage *string `json:"coverImage" validate:"omitempty,cover_image"`
}

func (r UpdateTripRequest) Empty() bool {
	return r.Name == nil && r.StartDate == nil && r.EndDate == nil && r.CoverImage == nil
}

type ReorderRequest struct {
	LocationIDs []uuid.UUID `json:"locationIds" validate:"required,min=1"`
}

// RouteLeg summarises the travel between two consecutive stops of a day.
type RouteLeg struct {
	From            uuid.UUID `json:"from"`
	To              uuid.UUID `json:"to"`
	DistanceMeters  int       `json:"distanceMeters"`
	DurationSeconds int       `json:"durationSeconds"`
}

type DayRoute struct {
	Day             int           `json:"day"`
	Mode            string        `json:"mode"`
	DistanceMeters  int           `json:"distanceMeters"`
	DurationSeconds int           `json:"durationSeconds"`
	Legs            []RouteLeg    `json:"legs"`
	Path            []Coordinates `json:"path"`
}
