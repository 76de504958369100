package leaveerrors

import (
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"
)

// Codes identify each rule failure; callers compare with errors.Is against
// the sentinels below.
const (
	CodeMissingFields       = "MISSING_FIELDS"
	CodeInvalidDateFormat   = "INVALID_DATE_FORMAT"
	CodePastStartDate       = "PAST_START_DATE"
	CodeEndBeforeStart      = "END_BEFORE_START"
	CodeLeaveOverlap        = "LEAVE_OVERLAP"
	CodeBalanceNotFound     = "BALANCE_NOT_FOUND"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeAlreadyProcessed    = "ALREADY_PROCESSED"
	CodeInvalidStatus       = "INVALID_STATUS"
)

var (
	ErrMissingFields = apperror.New(
		CodeMissingFields,
		"Missing required fields: start_date, end_date, reason",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		CodeInvalidDateFormat,
		"Invalid date format",
		http.StatusBadRequest,
	)
	ErrPastStartDate = apperror.New(
		CodePastStartDate,
		"Start date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		CodeEndBeforeStart,
		"End date cannot be before start date",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		CodeLeaveOverlap,
		"You already have a leave request in this period",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		CodeBalanceNotFound,
		"Leave balance not found",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		CodeInsufficientBalance,
		"Insufficient leave balance",
		http.StatusBadRequest,
	)
	ErrAlreadyProcessed = apperror.New(
		CodeAlreadyProcessed,
		"Leave request has already been processed",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		CodeInvalidStatus,
		`Status must be either "approved" or "rejected"`,
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be 1-12 and year must be a number",
		http.StatusBadRequest,
	)
)

// Overlap reports the conflicting request's period.
func Overlap(startDate, endDate string) error {
	return ErrLeaveOverlap.WithMessage(
		fmt.Sprintf("You already have a leave request from %s to %s", startDate, endDate),
	)
}

// InsufficientBalance reports both the requested and the available days.
func InsufficientBalance(requested, available int) error {
	return ErrInsufficientBalance.WithMessage(
		fmt.Sprintf("Insufficient leave balance. Requested: %d days, Available: %d days", requested, available),
	)
}
