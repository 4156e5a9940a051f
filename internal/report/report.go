// Package report is the read side: it classifies finalized attendance
// records, rolls them up into summaries, and feeds the dashboard and the
// CSV export. It never writes.
package report

import (
	"time"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/geo"
)

type Status string

const (
	StatusAbsent  Status = "Absent"
	StatusWorking Status = "Working"
	StatusPresent Status = "Present"
	StatusAway    Status = "Away"
)

// LateHour is the local hour-of-day at or after which a check-in counts as
// late. 9:00 sharp is already late.
const LateHour = 9

// Classify derives the display status of a record against a work reference.
// Both fixes must sit within the work-location radius for Present; a closed
// record failing that is Away.
func Classify(rec Record, ref *geo.Location) Status {
	if rec.CheckInTime == nil {
		return StatusAbsent
	}
	if rec.CheckOutTime == nil {
		return StatusWorking
	}
	if geo.IsPresentAt(rec.CheckInLocation(), ref, geo.WorkLocationRadiusMeters) &&
		geo.IsPresentAt(rec.CheckOutLocation(), ref, geo.WorkLocationRadiusMeters) {
		return StatusPresent
	}
	return StatusAway
}

// IsLate evaluates the hour in the timestamp's own zone; callers pass the
// wall-clock time of the check-in.
func IsLate(checkIn time.Time) bool {
	return checkIn.Hour() >= LateHour
}

type Summary struct {
	TotalHours         float64 `json:"total_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	PresentCount       int     `json:"present_count"`
	RecordCount        int     `json:"record_count"`
}

// Summarize rolls a record set up. Nil hour fields count as zero; each
// record classifies against its own employee's work reference.
func Summarize(records []Record) Summary {
	var sum Summary
	sum.RecordCount = len(records)
	for _, rec := range records {
		if rec.TotalHours != nil {
			sum.TotalHours += *rec.TotalHours
		}
		if rec.OvertimeHours != nil {
			sum.TotalOvertimeHours += *rec.OvertimeHours
		}
		if Classify(rec, rec.WorkReference()) == StatusPresent {
			sum.PresentCount++
		}
	}
	return sum
}
