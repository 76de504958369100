package leave_test

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/leave"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memoryStore is an in-memory leave.Repository keeping requests in
// insertion order. Ids match by uuid value, as a postgres uuid column does.
type memoryStore struct {
	requests []leave.LeaveRequest
	balances map[string]*leave.LeaveBalance
}

func newMemoryStore() *memoryStore {
	return &memoryStore{balances: make(map[string]*leave.LeaveBalance)}
}

func (m *memoryStore) setBalance(employeeID uuid.UUID, total, used int) {
	b := leave.NewLeaveBalance(employeeID, total, used)
	m.balances[employeeID.String()] = &b
}

func (m *memoryStore) balance(employeeID uuid.UUID) leave.LeaveBalance {
	return *m.balances[employeeID.String()]
}

func (m *memoryStore) add(employeeID uuid.UUID, start, end string, status leave.Status) leave.LeaveRequest {
	return m.addFor(employeeID, "John Doe", start, end, status)
}

func (m *memoryStore) addFor(employeeID uuid.UUID, name, start, end string, status leave.Status) leave.LeaveRequest {
	s, _ := leave.ParseDate(start)
	e, _ := leave.ParseDate(end)
	l := leave.LeaveRequest{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		EmployeeName: name,
		StartDate:    s,
		EndDate:      e,
		Reason:       "Family vacation",
		Status:       status,
		AppliedAt:    time.Now().UTC(),
	}
	m.requests = append(m.requests, l)
	return l
}

func canonicalID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

func (m *memoryStore) WithTx(*sql.Tx) leave.Repository { return m }

func (m *memoryStore) FindRequestsByEmployee(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	var res []leave.LeaveRequest
	for _, r := range m.requests {
		if r.EmployeeID.String() == canonicalID(employeeID) {
			res = append(res, r)
		}
	}
	return res, nil
}

func (m *memoryStore) FindBalance(_ context.Context, employeeID string) (*leave.LeaveBalance, error) {
	b, ok := m.balances[canonicalID(employeeID)]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memoryStore) AppendRequest(_ context.Context, l *leave.LeaveRequest) error {
	m.requests = append(m.requests, *l)
	return nil
}

func (m *memoryStore) FindRequestByID(_ context.Context, id string) (*leave.LeaveRequest, error) {
	for _, r := range m.requests {
		if r.ID.String() == canonicalID(id) {
			cp := r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryStore) FindRequestByIDForUpdate(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	return m.FindRequestByID(ctx, id)
}

func (m *memoryStore) FindPendingRequests(_ context.Context) ([]leave.LeaveRequest, error) {
	var res []leave.LeaveRequest
	for _, r := range m.requests {
		if r.Status == leave.StatusPending {
			res = append(res, r)
		}
	}
	return res, nil
}

func (m *memoryStore) FindAllRequests(_ context.Context) ([]leave.LeaveRequest, error) {
	return append([]leave.LeaveRequest(nil), m.requests...), nil
}

func (m *memoryStore) UpdateRequestStatus(_ context.Context, id string, status leave.Status, reviewedAt time.Time, reviewedBy string, comments *string) error {
	for i := range m.requests {
		r := &m.requests[i]
		if r.ID.String() != canonicalID(id) || r.Status != leave.StatusPending {
			continue
		}
		r.Status = status
		r.ReviewedAt = &reviewedAt
		r.ReviewedBy = &reviewedBy
		r.Comments = comments
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryStore) ApplyBalanceDelta(_ context.Context, employeeID string, daysUsed int) error {
	b, ok := m.balances[canonicalID(employeeID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.UsedDays += daysUsed
	b.RemainingDays -= daysUsed
	return nil
}
