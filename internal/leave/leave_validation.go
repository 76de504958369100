package leave

import (
	"context"
	"time"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/google/uuid"
)

// RequestReader is the slice of the request store the rules read.
type RequestReader interface {
	// FindRequestsByEmployee returns the employee's requests in store order.
	FindRequestsByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
}

// BalanceReader returns nil, nil when the employee has no balance record.
type BalanceReader interface {
	FindBalance(ctx context.Context, employeeID string) (*LeaveBalance, error)
}

// ValidateDateRange parses both dates and checks, in this order, that they
// are dates, that start is not before today and that end is not before start.
func ValidateDateRange(startDate, endDate string, today Date) (DateRange, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return DateRange{}, err
	}
	if start.Before(today) {
		return DateRange{}, leaveerrors.ErrPastStartDate
	}
	if end.Before(start) {
		return DateRange{}, leaveerrors.ErrEndBeforeStart
	}
	return DateRange{Start: start, End: end}, nil
}

// Validator evaluates the apply-for-leave rules against the stores. It never
// writes to them.
type Validator struct {
	requests RequestReader
	balances BalanceReader
	now      func() time.Time
}

func NewValidator(requests RequestReader, balances BalanceReader, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{requests: requests, balances: balances, now: now}
}

// Today is the current calendar date on the validator's clock.
func (v *Validator) Today() Date {
	return NewDate(v.now())
}

// CheckOverlap fails with the first non-rejected request of the employee,
// other than excludeID, whose period intersects period.
func (v *Validator) CheckOverlap(ctx context.Context, employeeID string, period DateRange, excludeID string) error {
	owner, err := uuid.Parse(employeeID)
	if err != nil {
		return leaveerrors.ErrInvalidEmployeeID
	}

	existing, err := v.requests.FindRequestsByEmployee(ctx, owner.String())
	if err != nil {
		return err
	}

	for _, r := range existing {
		if r.EmployeeID != owner {
			continue
		}
		if excludeID != "" && r.ID.String() == excludeID {
			continue
		}
		if r.Status == StatusRejected {
			continue
		}
		if period.Overlaps(r.Period()) {
			return leaveerrors.Overlap(r.StartDate.String(), r.EndDate.String())
		}
	}
	return nil
}

// CheckBalance fails when the employee has no balance or fewer remaining
// days than the period covers.
func (v *Validator) CheckBalance(ctx context.Context, employeeID string, period DateRange) error {
	daysRequested := period.Days()

	balance, err := v.balances.FindBalance(ctx, employeeID)
	if err != nil {
		return err
	}
	if balance == nil {
		return leaveerrors.ErrBalanceNotFound
	}
	if balance.RemainingDays < daysRequested {
		return leaveerrors.InsufficientBalance(daysRequested, balance.RemainingDays)
	}
	return nil
}

// Validate runs date range, overlap and balance checks and stops at the
// first failure.
func (v *Validator) Validate(ctx context.Context, employeeID, startDate, endDate string) (DateRange, error) {
	period, err := ValidateDateRange(startDate, endDate, v.Today())
	if err != nil {
		return DateRange{}, err
	}
	if err := v.CheckOverlap(ctx, employeeID, period, ""); err != nil {
		return DateRange{}, err
	}
	if err := v.CheckBalance(ctx, employeeID, period); err != nil {
		return DateRange{}, err
	}
	return period, nil
}
