package googlemaps

import (
	"context"
	"strconv"
	"strings"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/ccloudinthesky/journee/util/hours"
	"github.com/pkg/errors"
)

const (
	DefaultSearchRadius = 50000
	DefaultNearbyRadius = 1000
)

var detailFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"geometry",
	"types",
	"rating",
	"photos",
	"opening_hours",
	"formatted_phone_number",
}

type TextSearchQuery struct {
	Query    string `url:"query"`
	Location string `url:"location,omitempty"`
	Radius   int    `url:"radius,omitempty"`
	Language string `url:"language,omitempty"`
}

type NearbyQuery struct {
	Location string `url:"location"`
	Radius   int    `url:"radius"`
	Type     string `url:"type,omitempty"`
	Language string `url:"language,omitempty"`
}

type detailsQuery struct {
	PlaceID  string   `url:"place_id"`
	Fields   []string `url:"fields,comma"`
	Language string   `url:"language,omitempty"`
}

type geocodeQuery struct {
	Address string `url:"address,omitempty"`
	LatLng  string `url:"latlng,omitempty"`
}

type searchResponse struct {
	envelope
	Results []PlaceResult `json:"results"`
}

type detailsResponse struct {
	envelope
	Result PlaceResult `json:"result"`
}

type geocodeResponse struct {
	envelope
	Results []struct {
		FormattedAddress string   `json:"formatted_address"`
		Geometry         Geometry `json:"geometry"`
	} `json:"results"`
}

// LatLngParam formats a coordinate pair the way the web services expect it.
func LatLngParam(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// TextSearch runs a free-text Places search, optionally biased around a point.
func (c *Client) TextSearch(ctx context.Context, q TextSearchQuery) ([]model.Place, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, errors.New("query cannot be empty")
	}
	if q.Location != "" && q.Radius == 0 {
		q.Radius = DefaultSearchRadius
	}

	var resp searchResponse
	if err := c.get(ctx, "place/textsearch/json", q, &resp); err != nil {
		return nil, errors.Wrap(err, "text search")
	}
	if err := resp.check(true); err != nil {
		return nil, err
	}
	return c.places(resp.Results), nil
}

// NearbySearch lists places around a point.
func (c *Client) NearbySearch(ctx context.Context, q NearbyQuery) ([]model.Place, error) {
	if q.Radius == 0 {
		q.Radius = DefaultNearbyRadius
	}

	var resp searchResponse
	if err := c.get(ctx, "place/nearbysearch/json", q, &resp); err != nil {
		return nil, errors.Wrap(err, "nearby search")
	}
	if err := resp.check(true); err != nil {
		return nil, err
	}
	return c.places(resp.Results), nil
}

// PlaceDetails fetches one place. Opening hours are reduced to today's line.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (model.Place, error) {
	if strings.TrimSpace(placeID) == "" {
		return model.Place{}, errors.New("placeID cannot be empty")
	}

	var resp detailsResponse
	q := detailsQuery{PlaceID: placeID, Fields: detailFields}
	if err := c.get(ctx, "place/details/json", q, &resp); err != nil {
		return model.Place{}, errors.Wrap(err, "place details")
	}
	if err := resp.check(false); err != nil {
		return model.Place{}, err
	}

	place := c.place(resp.Result)
	today := hours.NotAvailable
	if resp.Result.OpeningHours != nil {
		today = hours.Today(resp.Result.OpeningHours.WeekdayText, c.now())
	}
	place.OpeningHours = &today
	if resp.Result.FormattedPhone != "" {
		phone := resp.Result.FormattedPhone
		place.PhoneNumber = &phone
	}
	return place, nil
}

// Geocode resolves an address to its first match.
func (c *Client) Geocode(ctx context.Context, address string) (model.GeocodeResult, error) {
	if strings.TrimSpace(address) == "" {
		return model.GeocodeResult{}, errors.New("address cannot be empty")
	}
	return c.geocode(ctx, geocodeQuery{Address: address})
}

// ReverseGeocode resolves a coordinate to its closest address.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (model.GeocodeResult, error) {
	return c.geocode(ctx, geocodeQuery{LatLng: LatLngParam(lat, lng)})
}

func (c *Client) geocode(ctx context.Context, q geocodeQuery) (model.GeocodeResult, error) {
	var resp geocodeResponse
	if err := c.get(ctx, "geocode/json", q, &resp); err != nil {
		return model.GeocodeResult{}, errors.Wrap(err, "geocode")
	}
	if err := resp.check(true); err != nil {
		return model.GeocodeResult{}, err
	}
	if len(resp.Results) == 0 {
		return model.GeocodeResult{}, ErrNotFound
	}

	first := resp.Results[0]
	return model.GeocodeResult{
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}

func (c *Client) places(results []PlaceResult) []model.Place {
	places := make([]model.Place, 0, len(results))
	for _, r := range results {
		p := c.place(r)
		status := hours.NotAvailable
		if r.OpeningHours != nil && r.OpeningHours.OpenNow != nil && *r.OpeningHours.OpenNow {
			status = "Open now"
		}
		p.OpeningHours = &status
		places = append(places, p)
	}
	return places
}

func (c *Client) place(r PlaceResult) model.Place {
	address := r.FormattedAddress
	if address == "" {
		address = r.Vicinity
	}

	p := model.Place{
		PlaceID:     r.PlaceID,
		Name:        r.Name,
		Address:     address,
		Coordinates: model.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Type:        Category(r.Types),
		Rating:      r.Rating,
	}
	if len(r.Photos) > 0 && r.Photos[0].PhotoReference != "" {
		photo := c.PhotoURL(r.Photos[0].PhotoReference)
		p.PhotoURL = &photo
	}
	return p
}
