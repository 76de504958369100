package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	RequestReader
	BalanceReader

	WithTx(tx *sql.Tx) Repository
	AppendRequest(ctx context.Context, l *LeaveRequest) error
	FindRequestByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindRequestByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	FindPendingRequests(ctx context.Context) ([]LeaveRequest, error)
	FindAllRequests(ctx context.Context) ([]LeaveRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status Status, reviewedAt time.Time, reviewedBy string, comments *string) error
	ApplyBalanceDelta(ctx context.Context, employeeID string, daysUsed int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx runs every statement of the returned repository on tx.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	if tx == nil {
		return r
	}
	db := r.db.Session(&gorm.Session{NewDB: true, Context: context.Background()})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) AppendRequest(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// FindRequestsByEmployee keeps submission order, which is the order the
// overlap rule scans in.
func (r *repository) FindRequestsByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("applied_at ASC, id ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindBalance(ctx context.Context, employeeID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).First(&b, "employee_id = ?", employeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindRequestByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// FindRequestByIDForUpdate locks the row until the surrounding transaction
// ends, so two reviews of one request run one after the other.
func (r *repository) FindRequestByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindPendingRequests(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("applied_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllRequests(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("applied_at ASC").
		Find(&leaves).Error
	return leaves, err
}

// UpdateRequestStatus only moves requests that are still pending; a request
// already out of pending yields gorm.ErrRecordNotFound.
func (r *repository) UpdateRequestStatus(ctx context.Context, id string, status Status, reviewedAt time.Time, reviewedBy string, comments *string) error {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":      status,
			"reviewed_at": reviewedAt,
			"reviewed_by": reviewedBy,
			"comments":    comments,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ApplyBalanceDelta moves daysUsed from remaining to used in one statement.
func (r *repository) ApplyBalanceDelta(ctx context.Context, employeeID string, daysUsed int) error {
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("employee_id = ?", employeeID).
		Updates(map[string]any{
			"used_days":      gorm.Expr("used_days + ?", daysUsed),
			"remaining_days": gorm.Expr("remaining_days - ?", daysUsed),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
