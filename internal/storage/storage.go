package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Sentinel errors to help callers distinguish failure reasons.
var (
	ErrInvalidObject   = errors.New("storage: invalid object")
	ErrInvalidLocation = errors.New("storage: invalid location")
	ErrObjectNotFound  = errors.New("storage: object not found")
)

// Object represents the payload sent to a storage backend when uploading.
type Object struct {
	Path        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Location represents where an object is stored inside the backend.
type Location struct {
	Path string
	URL  string
}

// DownloadResult bundles the stream returned by a storage backend and some metadata.
type DownloadResult struct {
	Reader      io.ReadCloser
	ContentType string
	Size        int64
}

// Storage describes the operations supported by every storage backend we implement.
type Storage interface {
	Upload(ctx context.Context, obj *Object) (*Location, error)
	Download(ctx context.Context, loc *Location) (*DownloadResult, error)
	SignedURL(ctx context.Context, loc *Location, ttl time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, loc *Location) error
}

// ValidateObject performs a light validation of the input object before delegating to providers.
func ValidateObject(obj *Object) error {
	if obj == nil || obj.Reader == nil {
		return fmt.Errorf("%w: missing data stream", ErrInvalidObject)
	}
	if obj.Path == "" {
		return fmt.Errorf("%w: missing object path", ErrInvalidObject)
	}
	return nil
}

// ValidateLocation ensures we only interact with safe locations.
func ValidateLocation(loc *Location) error {
	if loc == nil {
		return ErrInvalidLocation
	}
	if loc.Path == "" {
		return fmt.Errorf("%w: missing path", ErrInvalidLocation)
	}
	return nil
}
