package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ccloudinthesky/journee/config"
)

func TestNewCloudinaryDisabled(t *testing.T) {
	c, err := NewCloudinary(&config.Config{})
	if err != nil {
		t.Fatalf("NewCloudinary returned error %v", err)
	}
	if c != nil {
		t.Fatal("expected nil storage without credentials")
	}

	if _, err := c.UploadImage(context.Background(), strings.NewReader("img"), CoverFolder); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("UploadImage error = %v; want ErrNotConfigured", err)
	}
}
