package storage

import (
	"context"

	"github.com/ccloudinthesky/journee/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

const CoverFolder = "journee/covers"

var ErrNotConfigured = errors.New("image storage is not configured")

type Cloudinary struct {
	CLD *cloudinary.Cloudinary
}

// NewCloudinary returns nil when no credentials are configured; uploads are
// then refused with ErrNotConfigured.
func NewCloudinary(cfg *config.Config) (*Cloudinary, error) {
	if !cfg.CloudinaryEnabled() {
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, errors.Wrap(err, "initialize cloudinary")
	}

	return &Cloudinary{CLD: cld}, nil
}

// UploadImage stores file (a reader, local path or remote URL) under folder
// and returns its HTTPS URL.
func (c *Cloudinary) UploadImage(ctx context.Context, file interface{}, folder string) (string, error) {
	if c == nil || c.CLD == nil {
		return "", ErrNotConfigured
	}
	resp, err := c.CLD.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil
}
