package bootstrap

import (
	"context"
	"fmt"

	"go-leave/internal/events"
	"go-leave/internal/shared/contextutil"
)

const ActionLeaveReviewNotified = "LEAVE_REVIEW_NOTIFIED"

// AuditReviewNotifier records the employee notification for a reviewed
// leave request as an audit entry.
type AuditReviewNotifier struct {
	audit AuditLogger
}

func NewAuditReviewNotifier(audit AuditLogger) *AuditReviewNotifier {
	return &AuditReviewNotifier{audit: audit}
}

func (n *AuditReviewNotifier) NotifyLeaveReviewed(ctx context.Context, event events.LeaveReviewedEvent) error {
	if event.LeaveID == "" || event.EmployeeID == "" {
		return fmt.Errorf("leave_reviewed event missing leave or employee id")
	}
	if event.RequestID != "" {
		ctx = contextutil.WithRequestID(ctx, event.RequestID)
	}

	meta := map[string]any{
		"leave_id":    event.LeaveID,
		"employee_id": event.EmployeeID,
		"status":      event.Status,
		"days_used":   event.DaysUsed,
		"reviewed_by": event.ReviewedBy,
	}
	if event.Comments != nil {
		meta["comments"] = *event.Comments
	}

	n.audit.Log(ctx, AuditLog{
		Action:  ActionLeaveReviewNotified,
		Message: fmt.Sprintf("Leave request %s was %s by %s", event.LeaveID, event.Status, event.ReviewedBy),
		Meta:    meta,
	})
	return nil
}
