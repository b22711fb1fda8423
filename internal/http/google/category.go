package googlemaps

import (
	"net/url"

	"github.com/ccloudinthesky/journee/internal/model"
)

var categories = map[string]model.PlaceType{
	"restaurant":         model.PlaceRestaurant,
	"food":               model.PlaceRestaurant,
	"meal_takeaway":      model.PlaceRestaurant,
	"meal_delivery":      model.PlaceRestaurant,
	"cafe":               model.PlaceCafe,
	"bakery":             model.PlaceCafe,
	"lodging":            model.PlaceAccommodation,
	"hotel":              model.PlaceAccommodation,
	"motel":              model.PlaceAccommodation,
	"hostel":             model.PlaceAccommodation,
	"tourist_attraction": model.PlaceAttraction,
	"museum":             model.PlaceAttraction,
	"park":               model.PlaceAttraction,
	"zoo":                model.PlaceAttraction,
	"aquarium":           model.PlaceAttraction,
	"amusement_park":     model.PlaceAttraction,
	"art_gallery":        model.PlaceAttraction,
	"church":             model.PlaceAttraction,
	"mosque":             model.PlaceAttraction,
	"synagogue":          model.PlaceAttraction,
	"hindu_temple":       model.PlaceAttraction,
	"shopping_mall":      model.PlaceAttraction,
	"store":              model.PlaceAttraction,
}

// Category maps provider type tags onto the four location types. The first
// tag with a known mapping wins; anything else is an attraction.
func Category(types []string) model.PlaceType {
	for _, t := range types {
		if c, ok := categories[t]; ok {
			return c
		}
	}
	return model.PlaceAttraction
}

// PhotoURL builds the Place Photo URL for a photo reference.
func (c *Client) PhotoURL(reference string) string {
	u := c.BaseURL.ResolveReference(&url.URL{Path: "place/photo"})
	q := url.Values{}
	q.Set("maxwidth", "400")
	q.Set("photoreference", reference)
	q.Set("key", c.APIKey)
	u.RawQuery = q.Encode()
	return u.String()
}
