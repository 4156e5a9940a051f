// Package gps defines the geolocation provider boundary. Fixes normally
// arrive with the client request; this contract exists for the auto-checkout
// sweeper, which may try for a fresh fix and must degrade gracefully when
// none is available.
package gps

import (
	"context"
	"errors"
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"
)

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("location information unavailable")
	ErrTimeout             = errors.New("location request timed out")
)

// Options mirror the acquisition knobs of the client geolocation API.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxAge       time.Duration
}

// DefaultOptions matches what the mobile client requests.
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaxAge:       0,
	}
}

//go:generate mockgen -source=gps.go -destination=mock/gps_mock.go -package=mock
type Provider interface {
	CurrentLocation(ctx context.Context, opts Options) (geo.Location, error)
}

// IsUnavailable reports whether err is one of the three acquisition failure
// kinds. Callers gate on this uniformly; the distinct sentinels only drive
// user-facing messages.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrPositionUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// StaticProvider always returns a fixed location. Used in tests and for
// stations with a known kiosk position.
type StaticProvider struct {
	Location geo.Location
}

func (p StaticProvider) CurrentLocation(context.Context, Options) (geo.Location, error) {
	return p.Location, nil
}

// UnavailableProvider always fails with ErrPositionUnavailable. The sweeper
// runs server-side with no device attached, so this is its default source;
// auto-checkout then falls back to the check-in fix.
type UnavailableProvider struct{}

func (UnavailableProvider) CurrentLocation(context.Context, Options) (geo.Location, error) {
	return geo.Location{}, ErrPositionUnavailable
}
