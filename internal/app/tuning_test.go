package app

import (
	"testing"
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/attendance"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"

	"github.com/stretchr/testify/assert"
)

func TestApplyTuningOverrides(t *testing.T) {
	origWork := geo.WorkLocationRadiusMeters
	origMatch := geo.LocationMatchRadiusMeters
	origAfter := attendance.AutoCheckoutAfter
	t.Cleanup(func() {
		geo.WorkLocationRadiusMeters = origWork
		geo.LocationMatchRadiusMeters = origMatch
		attendance.AutoCheckoutAfter = origAfter
	})

	t.Setenv("WORK_LOCATION_RADIUS_METERS", "500")
	t.Setenv("LOCATION_MATCH_RADIUS_METERS", "50")
	t.Setenv("SWEEP_AUTO_CHECKOUT_AFTER", "10h")

	assert.NoError(t, applyTuningOverrides())
	assert.Equal(t, 500.0, geo.WorkLocationRadiusMeters)
	assert.Equal(t, 50.0, geo.LocationMatchRadiusMeters)
	assert.Equal(t, 10*time.Hour, attendance.AutoCheckoutAfter)
}

func TestApplyTuningOverrides_RejectsMalformed(t *testing.T) {
	origWork := geo.WorkLocationRadiusMeters
	t.Cleanup(func() { geo.WorkLocationRadiusMeters = origWork })

	t.Setenv("WORK_LOCATION_RADIUS_METERS", "nope")
	assert.Error(t, applyTuningOverrides())
	assert.Equal(t, origWork, geo.WorkLocationRadiusMeters)
}

func TestLoadReportZone(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "")
	loc, err := loadReportZone()
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	t.Setenv("REPORT_TIMEZONE", "Asia/Kolkata")
	loc, err = loadReportZone()
	assert.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	t.Setenv("REPORT_TIMEZONE", "Not/AZone")
	_, err = loadReportZone()
	assert.Error(t, err)
}
