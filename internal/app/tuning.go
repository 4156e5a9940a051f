package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/attendance"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"
)

// applyTuningOverrides reads the optional threshold overrides from the
// environment. Called once at startup, before any request or sweep runs.
func applyTuningOverrides() error {
	if v := os.Getenv("WORK_LOCATION_RADIUS_METERS"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			return fmt.Errorf("invalid WORK_LOCATION_RADIUS_METERS %q", v)
		}
		geo.WorkLocationRadiusMeters = radius
	}

	if v := os.Getenv("LOCATION_MATCH_RADIUS_METERS"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			return fmt.Errorf("invalid LOCATION_MATCH_RADIUS_METERS %q", v)
		}
		geo.LocationMatchRadiusMeters = radius
	}

	if v := os.Getenv("SWEEP_AUTO_CHECKOUT_AFTER"); v != "" {
		after, err := time.ParseDuration(v)
		if err != nil || after <= 0 {
			return fmt.Errorf("invalid SWEEP_AUTO_CHECKOUT_AFTER %q", v)
		}
		attendance.AutoCheckoutAfter = after
	}

	return nil
}

// loadReportZone resolves the wall-clock zone for late flags and rendered
// clock times. Empty means UTC.
func loadReportZone() (*time.Location, error) {
	tz := os.Getenv("REPORT_TIMEZONE")
	if tz == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", tz, err)
	}
	return loc, nil
}
