package model

// Place is a provider search result normalized for the client.
type Place struct {
	PlaceID      string      `json:"placeId"`
	Name         string      `json:"name"`
	Address      string      `json:"address"`
	Coordinates  Coordinates `json:"coordinates"`
	Type         PlaceType   `json:"type"`
	Rating       *float64    `json:"rating,omitempty"`
	PhotoURL     *string     `json:"photoUrl,omitempty"`
	OpeningHours *string     `json:"openingHours,omitempty"`
	PhoneNumber  *string     `json:"phoneNumber,omitempty"`
}

type GeocodeResult struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formattedAddress"`
}
