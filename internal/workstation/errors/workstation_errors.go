package errors

import (
	"net/http"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/apperror"
)

var (
	ErrWorkStationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Work station not found",
		http.StatusNotFound,
	)

	ErrWorkStationNameTaken = apperror.New(
		apperror.CodeConflict,
		"A work station with this name already exists",
		http.StatusConflict,
	)
)
