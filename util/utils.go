package util

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/twpayne/go-polyline"
)

var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}
	imageHosts      = []string{
		"unsplash.com",
		"imgur.com",
		"flickr.com",
		"staticflickr.com",
		"pixabay.com",
		"pexels.com",
		"cloudinary.com",
		"googleusercontent.com",
	}
)

func IsURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}

// IsImageURL accepts http(s) URLs that either end in a known image extension
// or are served from a known image host.
func IsImageURL(value string) bool {
	if !IsURL(value) {
		return false
	}
	u, _ := url.Parse(value)
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	ext := strings.ToLower(path.Ext(u.Path))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range imageHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// DecodePolyLine decodes a Google encoded polyline into [lat, lng] pairs.
func DecodePolyLine(shape string) ([][]float64, error) {
	decoded, _, err := polyline.DecodeCoords([]byte(shape))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline %w", err)
	}
	return decoded, nil
}
