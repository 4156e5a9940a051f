package errors

import (
	"net/http"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodePreconditionFailed,
		"Already checked in for today",
		http.StatusConflict,
	)

	ErrNoCheckInFound = apperror.New(
		apperror.CodePreconditionFailed,
		"No check-in found for today",
		http.StatusConflict,
	)

	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodePreconditionFailed,
		"Already checked out for today",
		http.StatusConflict,
	)

	ErrLocationRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A GPS fix is required for this action",
		http.StatusBadRequest,
	)

	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Employee id in the session token is not valid",
		http.StatusBadRequest,
	)

	ErrSelfieRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A selfie capture is required for this action",
		http.StatusBadRequest,
	)

	ErrSelfieUploadFailed = apperror.New(
		apperror.CodeResourceUnavailable,
		"Selfie upload failed, please retry",
		http.StatusServiceUnavailable,
	)

	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
)
