package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/"

var (
	ErrMissingAPIKey = errors.New("google maps API key is not set")
	ErrNotFound      = errors.New("google maps returned no result")
)

// APIError is a non-OK status reported inside a 200 response body.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("google maps API error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("google maps API error: %s", e.Status)
}

// Client handles communication with the Google Maps web service APIs.
type Client struct {
	BaseURL    *url.URL
	APIKey     string
	HTTPClient *http.Client
	Clock      func() time.Time
}

// NewClient creates a client with a default timeout. The client is built once
// at start-up and shared by every request.
func NewClient(apiKey string) *Client {
	baseURL, _ := url.Parse(defaultBaseURL)
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		Clock: time.Now,
	}
}

// --- Response structures ---

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text"`
}

type Photo struct {
	Height         int    `json:"height"`
	Width          int    `json:"width"`
	PhotoReference string `json:"photo_reference"`
}

// PlaceResult covers the fields shared by search and details responses.
type PlaceResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Vicinity         string        `json:"vicinity"`
	Geometry         Geometry      `json:"geometry"`
	Types            []string      `json:"types"`
	Rating           *float64      `json:"rating,omitempty"`
	Photos           []Photo       `json:"photos,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
	FormattedPhone   string        `json:"formatted_phone_number"`
}

type envelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (e envelope) check(allowZero bool) error {
	switch e.Status {
	case "OK":
		return nil
	case "ZERO_RESULTS":
		if allowZero {
			return nil
		}
		return ErrNotFound
	case "NOT_FOUND":
		return ErrNotFound
	default:
		return &APIError{Status: e.Status, Message: e.ErrorMessage}
	}
}

// --- Client plumbing ---

// buildURL constructs the API URL with query parameters.
func (c *Client) buildURL(endpoint string, queryParams interface{}) (string, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	u := c.BaseURL.ResolveReference(rel)

	q := u.Query()
	q.Set("key", c.APIKey)

	if queryParams != nil {
		v, err := query.Values(queryParams)
		if err != nil {
			return "", errors.Wrap(err, "encode query parameters")
		}
		for k, vals := range v {
			for _, val := range vals {
				q.Add(k, val)
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, endpoint string, queryParams, v interface{}) error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	reqURL, err := c.buildURL(endpoint, queryParams)
	if err != nil {
		return errors.Wrapf(err, "build %s URL", endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrapf(err, "create %s request", endpoint)
	}

	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}

func (c *Client) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}
