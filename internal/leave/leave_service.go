package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const PendingLeavesKey = "leave:pending"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, employeeID, employeeName string, req ApplyLeaveRequest) (LeaveResponse, error)
	GetPending(ctx context.Context) ([]LeaveResponse, error)
	GetMyRequests(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error)
	Review(ctx context.Context, reviewerName, id string, req ReviewLeaveRequest) (LeaveResponse, error)
	GetSummary(ctx context.Context, month, year string) ([]SummaryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		now:    time.Now,
		logger: l,
	}
}

func (s *service) Apply(
	ctx context.Context,
	employeeID, employeeName string,
	req ApplyLeaveRequest,
) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("apply leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" || strings.TrimSpace(req.Reason) == "" {
		return LeaveResponse{}, leaveerrors.ErrMissingFields
	}

	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	period, err := NewValidator(qtx, qtx, s.now).Validate(ctx, empID.String(), req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("apply leave rejected",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:           uuid.New(),
		EmployeeID:   empID,
		EmployeeName: employeeName,
		StartDate:    period.Start,
		EndDate:      period.End,
		Reason:       req.Reason,
		Status:       StatusPending,
		AppliedAt:    s.now().UTC(),
	}
	if err := qtx.AppendRequest(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.LeaveAppliedEvent{
			EventType:    "leave_applied",
			RequestID:    rid,
			LeaveID:      l.ID.String(),
			EmployeeID:   employeeID,
			EmployeeName: employeeName,
			StartDate:    l.StartDate.String(),
			EndDate:      l.EndDate.String(),
			TotalDays:    period.Days(),
			OccurredAt:   s.now().UTC(),
		}
		if err := s.queueEvent(ctx, tx, l.ID.String(), event.EventType, events.LeaveAppliedTopic, event); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidatePending(ctx)

	s.logger.Info("apply leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.Int("days", period.Days()),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, PendingLeavesKey).Result(); err == nil {
			var resp []LeaveResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(PendingLeavesKey, func() (interface{}, error) {
		leaves, err := s.repo.FindPendingRequests(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(leaves)

		// pending changes on every apply and review, both of which delete the key
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, PendingLeavesKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})
	if err != nil {
		s.logger.Error("get pending leaves failed", zap.Error(err))
		return nil, err
	}

	return v.([]LeaveResponse), nil
}

func (s *service) GetMyRequests(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	leaves, err := s.repo.FindRequestsByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get my leaves failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	b, err := s.repo.FindBalance(ctx, employeeID)
	if err != nil {
		s.logger.Error("get leave balance failed", zap.String("employee_id", employeeID), zap.Error(err))
		return BalanceResponse{}, err
	}
	if b == nil {
		return BalanceResponse{}, leaveerrors.ErrBalanceNotFound
	}
	return mapToBalanceResponse(*b), nil
}

func (s *service) Review(
	ctx context.Context,
	reviewerName, id string,
	req ReviewLeaveRequest,
) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("review leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", req.Status),
	)

	target, ok := ParseReviewStatus(req.Status)
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.FindRequestByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if !l.Status.CanTransitionTo(target) {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	daysUsed := 0
	if target == StatusApproved {
		employeeID := l.EmployeeID.String()
		daysUsed = l.Period().Days()
		if err := qtx.ApplyBalanceDelta(ctx, employeeID, daysUsed); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveResponse{}, leaveerrors.ErrBalanceNotFound
			}
			s.logger.Error("review leave balance update failed", zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	reviewedAt := s.now().UTC()
	if err := qtx.UpdateRequestStatus(ctx, id, target, reviewedAt, reviewerName, req.Comments); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
		}
		s.logger.Error("review leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	l.Status = target
	l.ReviewedAt = &reviewedAt
	l.ReviewedBy = &reviewerName
	l.Comments = req.Comments

	if s.outbox != nil {
		event := events.LeaveReviewedEvent{
			EventType:  "leave_reviewed",
			RequestID:  rid,
			LeaveID:    id,
			EmployeeID: l.EmployeeID.String(),
			Status:     string(target),
			DaysUsed:   daysUsed,
			ReviewedBy: reviewerName,
			Comments:   req.Comments,
			OccurredAt: reviewedAt,
		}
		if err := s.queueEvent(ctx, tx, id, event.EventType, events.LeaveReviewedTopic, event); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidatePending(ctx)

	s.logger.Info("review leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", string(target)),
		zap.Int("days_used", daysUsed),
	)
	return mapToResponse(*l), nil
}

// GetSummary groups requests per employee. Month and year filter on the
// start date and only apply when both are given.
func (s *service) GetSummary(ctx context.Context, month, year string) ([]SummaryResponse, error) {
	var (
		filter bool
		m, y   int
	)
	if month != "" && year != "" {
		var err error
		m, err = strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return nil, leaveerrors.ErrInvalidPeriod
		}
		y, err = strconv.Atoi(year)
		if err != nil {
			return nil, leaveerrors.ErrInvalidPeriod
		}
		filter = true
	}

	leaves, err := s.repo.FindAllRequests(ctx)
	if err != nil {
		s.logger.Error("get leave summary failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	byEmployee := make(map[string]*SummaryResponse)
	order := make([]string, 0)
	for _, l := range leaves {
		if filter && (int(l.StartDate.Month()) != m || l.StartDate.Year() != y) {
			continue
		}

		key := l.EmployeeID.String()
		sum, ok := byEmployee[key]
		if !ok {
			sum = &SummaryResponse{EmployeeID: key, EmployeeName: l.EmployeeName}
			byEmployee[key] = sum
			order = append(order, key)
		}

		sum.TotalRequests++
		switch l.Status {
		case StatusApproved:
			sum.ApprovedRequests++
			sum.TotalDays += l.Period().Days()
		case StatusRejected:
			sum.RejectedRequests++
		case StatusPending:
			sum.PendingRequests++
		}
	}

	res := make([]SummaryResponse, 0, len(order))
	for _, key := range order {
		res = append(res, *byEmployee[key])
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].EmployeeName < res[j].EmployeeName
	})
	return res, nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, aggregateID, eventType, topic string, payload any) error {
	rid := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(rid, kafka.AggregateLeaveRequest, aggregateID, eventType, topic, payload)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("outbox persist failed",
			zap.String("event_type", eventType),
			zap.String("leave_id", aggregateID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidatePending(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, PendingLeavesKey).Err(); err != nil {
		s.logger.Error("failed to invalidate pending leaves cache",
			zap.Error(err),
			zap.String("key", PendingLeavesKey),
		)
	}
}
