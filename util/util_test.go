package util

import (
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/ccloudinthesky/journee/util/values"
)

func TestPolyLineDecoder(t *testing.T) {
	// two points from the polyline algorithm reference
	coords, err := DecodePolyLine("_p~iF~ps|U_ulLnnqC")
	if err != nil {
		t.Fatalf("Decoding returned error %v", err)
	}
	if len(coords) != 2 {
		t.Fatalf("len(coords) = %d; want 2", len(coords))
	}
	want := [][]float64{{38.5, -120.2}, {40.7, -120.95}}
	for i := range want {
		if math.Abs(coords[i][0]-want[i][0]) > 1e-6 || math.Abs(coords[i][1]-want[i][1]) > 1e-6 {
			t.Errorf("point %d = %v; want %v", i, coords[i], want[i])
		}
	}
}

func TestIsImageURL(t *testing.T) {
	testCases := []struct {
		name string
		url  string
		want bool
	}{
		{"jpg extension", "https://example.com/a/b/photo.jpg", true},
		{"png with query", "https://example.com/photo.PNG?w=400", true},
		{"unsplash host", "https://images.unsplash.com/photo-1707550936239-aa262b3ef116?auto=format", true},
		{"cloudinary host", "https://res.cloudinary.com/demo/image/upload/sample", true},
		{"plain page", "https://example.com/about", false},
		{"not a url", "photo.jpg", false},
		{"ftp scheme", "ftp://example.com/photo.jpg", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsImageURL(tc.url); got != tc.want {
				t.Errorf("IsImageURL(%q) = %v; want %v", tc.url, got, tc.want)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	testCases := []struct {
		total, limit, want int
	}{
		{55, 50, 2},
		{50, 50, 1},
		{0, 50, 0},
		{1, 100, 1},
		{101, 100, 2},
	}
	for _, tc := range testCases {
		if got := TotalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d; want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestPositiveIntParam(t *testing.T) {
	if n, err := PositiveIntParam("", 50); err != nil || n != 50 {
		t.Errorf("empty value = %d, %v; want default 50", n, err)
	}
	if n, err := PositiveIntParam("3", 1); err != nil || n != 3 {
		t.Errorf("\"3\" = %d, %v; want 3", n, err)
	}
	for _, raw := range []string{"0", "-2", "abc", "1.5"} {
		if _, err := PositiveIntParam(raw, 1); err == nil {
			t.Errorf("PositiveIntParam(%q) should fail", raw)
		}
	}
}

func TestStatusCode(t *testing.T) {
	testCases := map[string]int{
		values.Success:        http.StatusOK,
		values.Created:        http.StatusCreated,
		values.BadRequestBody: http.StatusBadRequest,
		values.NotFound:       http.StatusNotFound,
		values.Conflict:       http.StatusConflict,
		values.NotAuthorised:  http.StatusUnauthorized,
		values.TokenExpired:   http.StatusUnauthorized,
		values.TooManyRequest: http.StatusTooManyRequests,
		values.Unavailable:    http.StatusServiceUnavailable,
		values.Error:          http.StatusInternalServerError,
	}
	for status, want := range testCases {
		if got := StatusCode(status); got != want {
			t.Errorf("StatusCode(%q) = %d; want %d", status, got, want)
		}
	}
}

type coordinatesForm struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

type tripForm struct {
	Start string `json:"startDate" validate:"required,date"`
	Cover string `json:"coverImage" validate:"omitempty,cover_image"`
	Type  string `json:"type" validate:"required,place_type"`
}

func TestValidatorRules(t *testing.T) {
	if err := ValidateStruct(coordinatesForm{Lat: 48.85, Lng: 2.35}); err != nil {
		t.Errorf("valid coordinates rejected: %v", err)
	}
	if err := ValidateStruct(coordinatesForm{Lat: 91, Lng: 2}); err == nil {
		t.Error("latitude 91 accepted")
	}
	if err := ValidateStruct(coordinatesForm{Lat: 0, Lng: -181}); err == nil {
		t.Error("longitude -181 accepted")
	}

	ok := tripForm{Start: "2025-12-01", Type: "cafe"}
	if err := ValidateStruct(ok); err != nil {
		t.Errorf("valid form rejected: %v", err)
	}
	ok.Start = "2025-12-01T10:00:00Z"
	if err := ValidateStruct(ok); err != nil {
		t.Errorf("RFC3339 date rejected: %v", err)
	}

	bad := tripForm{Start: "01/12/2025", Cover: "https://example.com/about", Type: "museum"}
	err := ValidateStruct(bad)
	if err == nil {
		t.Fatal("invalid form accepted")
	}
	msg := ValidationMessage(err)
	for _, field := range []string{"startDate", "coverImage", "type"} {
		if !strings.Contains(msg, field) {
			t.Errorf("message %q does not mention %s", msg, field)
		}
	}
}

func TestValidateVar(t *testing.T) {
	if err := ValidateVar("restaurant", "place_type"); err != nil {
		t.Errorf("restaurant rejected: %v", err)
	}
	if err := ValidateVar("bar", "place_type"); err == nil {
		t.Error("bar accepted")
	}
}
