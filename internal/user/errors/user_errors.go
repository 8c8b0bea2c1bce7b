package usererrors

import (
	"fmt"
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
)

// NewInsufficientBalance carries the available day count so the caller
// can correct the request without another round trip.
func NewInsufficientBalance(available int) *apperror.AppError {
	return apperror.New(
		apperror.CodeInsufficientBalance,
		fmt.Sprintf("Insufficient leave balance. Available: %d days", available),
		http.StatusBadRequest,
	)
}
