package model

import (
	"time"

	"github.com/google/uuid"
)

type PlaceType string

const (
	PlaceRestaurant    PlaceType = "restaurant"
	PlaceCafe          PlaceType = "cafe"
	PlaceAccommodation PlaceType = "accommodation"
	PlaceAttraction    PlaceType = "attraction"
)

type Coordinates struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

type SavedLocation struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	TripID       *uuid.UUID
	Name         string
	Address      string
	PlaceID      string
	Lat          float64
	Lng          float64
	Type         PlaceType
	OpeningHours *string
	PhotoURL     *string
	Rating       *float64
	PhoneNumber  *string
	CreatedAt    time.Time
}

type LocationResponse struct {
	ID           uuid.UUID   `json:"id"`
	TripID       *uuid.UUID  `json:"tripId,omitempty"`
	Name         string      `json:"name"`
	Address      string      `json:"address"`
	PlaceID      string      `json:"placeId"`
	Coordinates  Coordinates `json:"coordinates"`
	Type         PlaceType   `json:"type"`
	OpeningHours *string     `json:"openingHours,omitempty"`
	PhotoURL     *string     `json:"photoUrl,omitempty"`
	Rating       *float64    `json:"rating,omitempty"`
	PhoneNumber  *string     `json:"phoneNumber,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func (l SavedLocation) Response() LocationResponse {
	return LocationResponse{
		ID:           l.ID,
		TripID:       l.TripID,
		Name:         l.Name,
		Address:      l.Address,
		PlaceID:      l.PlaceID,
		Coordinates:  Coordinates{Lat: l.Lat, Lng: l.Lng},
		Type:         l.Type,
		OpeningHours: l.OpeningHours,
		PhotoURL:     l.PhotoURL,
		Rating:       l.Rating,
		PhoneNumber:  l.PhoneNumber,
		CreatedAt:    l.CreatedAt,
	}
}

// LocationRequest is used both for registry creates and for adding a place to a day.
type LocationRequest struct {
	TripID       *uuid.UUID  `json:"tripId"`
	Name         string      `json:"name" validate:"required,min=1,max=200"`
	Address      string      `json:"address" validate:"required,min=1,max=500"`
	PlaceID      string      `json:"placeId" validate:"required"`
	Coordinates  Coordinates `json:"coordinates"`
	Type         PlaceType   `json:"type" validate:"required,place_type"`
	OpeningHours *string     `json:"openingHours"`
	PhotoURL     *string     `json:"photoUrl" validate:"omitempty,url"`
	Rating       *float64    `json:"rating" validate:"omitempty,min=0,max=5"`
	PhoneNumber  *string     `json:"phoneNumber" validate:"omitempty,max=50"`
}

func (r LocationRequest) SavedLocation(userID uuid.UUID) SavedLocation {
	return SavedLocation{
		UserID:       userID,
		TripID:       r.TripID,
		Name:         r.Name,
		Address:      r.Address,
		PlaceID:      r.PlaceID,
		Lat:          r.Coordinates.Lat,
		Lng:          r.Coordinates.Lng,
		Type:         r.Type,
		OpeningHours: r.OpeningHours,
		PhotoURL:     r.PhotoURL,
		Rating:       r.Rating,
		PhoneNumber:  r.PhoneNumber,
	}
}

// UpdateLocationRequest carries a partial update; nil fields are left alone.
type UpdateLocationRequest struct {
	Name         *string      `json:"name" validate:"omitempty,min=1,max=200"`
	Address      *string      `json:"address" validate:"omitempty,min=1,max=500"`
	Coordinates  *Coordinates `json:"coordinates"`
	Type         *PlaceType   `json:"type" validate:"omitempty,place_type"`
	OpeningHours *string      `json:"openingHours"`
	PhotoURL     *string      `json:"photoUrl" validate:"omitempty,url"`
	Rating       *float64     `json:"rating" validate:"omitempty,min=0,max=5"`
	PhoneNumber  *string      `json:"phoneNumber" validate:"omitempty,max=50"`
}

func (r UpdateLocationRequest) Empty() bool {
	return r.Name == nil && r.Address == nil && r.Coordinates == nil && r.Type == nil &&
		r.OpeningHours == nil && r.PhotoURL == nil && r.Rating == nil && r.PhoneNumber == nil
}

type LocationFilter struct {
	Search string
	Type   PlaceType
	TripID *uuid.UUID
	Page   int
	Limit  int
}

type LocationPage struct {
	Items      []LocationResponse `json:"items"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Total      int                `json:"total"`
	TotalPages int                `json:"totalPages"`
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}
