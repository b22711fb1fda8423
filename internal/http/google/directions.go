package googlemaps

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

var travelModes = map[string]bool{"driving": true, "walking": true, "bicycling": true, "transit": true}

func ValidMode(mode string) bool {
	return travelModes[mode]
}

type directionsQuery struct {
	Origin      string `url:"origin"`
	Destination string `url:"destination"`
	Waypoints   string `url:"waypoints,omitempty"`
	Mode        string `url:"mode,omitempty"`
}

type directionsResponse struct {
	envelope
	Routes []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// Leg is one stop-to-stop hop of a route, in meters and seconds.
type Leg struct {
	DistanceMeters  int
	DurationSeconds int
}

type Route struct {
	Polyline string
	Legs     []Leg
}

// Directions routes through stops in order. Stops are "lat,lng" strings or
// "place_id:<id>" references; at least two are required.
func (c *Client) Directions(ctx context.Context, stops []string, mode string) (Route, error) {
	if len(stops) < 2 {
		return Route{}, errors.New("directions need at least two stops")
	}
	if mode == "" {
		mode = "driving"
	}
	if !ValidMode(mode) {
		return Route{}, errors.Errorf("unsupported travel mode %q", mode)
	}

	q := directionsQuery{
		Origin:      stops[0],
		Destination: stops[len(stops)-1],
		Waypoints:   strings.Join(stops[1:len(stops)-1], "|"),
		Mode:        mode,
	}

	var resp directionsResponse
	if err := c.get(ctx, "directions/json", q, &resp); err != nil {
		return Route{}, errors.Wrap(err, "directions")
	}
	if err := resp.check(false); err != nil {
		return Route{}, err
	}
	if len(resp.Routes) == 0 {
		return Route{}, ErrNotFound
	}

	route := resp.Routes[0]
	out := Route{Polyline: route.OverviewPolyline.Points, Legs: make([]Leg, 0, len(route.Legs))}
	for _, l := range route.Legs {
		out.Legs = append(out.Legs, Leg{DistanceMeters: l.Distance.Value, DurationSeconds: l.Duration.Value})
	}
	return out, nil
}
