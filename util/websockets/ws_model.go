package websockets

import (
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to a user's open sessions.
const (
	EventTripCreated   = "trip.created"
	EventTripUpdated   = "trip.updated"
	EventTripDeleted   = "trip.deleted"
	EventScheduleMoved = "schedule.updated"
)

type Event struct {
	Type   string    `json:"type"`
	TripID string    `json:"tripId,omitempty"`
	Day    int       `json:"day,omitempty"`
	At     time.Time `json:"at"`
}

// Client is one open connection of a signed-in user.
type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// DirectMessage is a payload addressed to every session of one user.
type DirectMessage struct {
	ReceiverID string
	Payload    []byte
}
