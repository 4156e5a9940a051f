package errors

import (
	"net/http"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)

	ErrEmployeeNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee number is already in use",
		http.StatusConflict,
	)

	ErrWorkStationNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Work station not found",
		http.StatusBadRequest,
	)

	ErrInvalidDateOfBirth = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date_of_birth format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
