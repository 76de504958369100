package leave

import "time"

type ApplyLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type ReviewLeaveRequest struct {
	Status   string  `json:"status"`
	Comments *string `json:"comments"`
}

type SummaryFilterRequest struct {
	Month string `form:"month"`
	Year  string `form:"year"`
}

type LeaveResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	TotalDays    int        `json:"total_days"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	AppliedAt    time.Time  `json:"applied_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy   *string    `json:"reviewed_by,omitempty"`
	Comments     *string    `json:"comments,omitempty"`
}

type BalanceResponse struct {
	EmployeeID    string `json:"employee_id"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

// SummaryResponse aggregates one employee's requests. TotalDays counts
// approved requests only.
type SummaryResponse struct {
	EmployeeID       string `json:"employee_id"`
	EmployeeName     string `json:"employee_name"`
	TotalRequests    int    `json:"total_requests"`
	ApprovedRequests int    `json:"approved_requests"`
	RejectedRequests int    `json:"rejected_requests"`
	PendingRequests  int    `json:"pending_requests"`
	TotalDays        int    `json:"total_days"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		EmployeeName: l.EmployeeName,
		StartDate:    l.StartDate.String(),
		EndDate:      l.EndDate.String(),
		TotalDays:    l.Period().Days(),
		Reason:       l.Reason,
		Status:       string(l.Status),
		AppliedAt:    l.AppliedAt,
		ReviewedAt:   l.ReviewedAt,
		ReviewedBy:   l.ReviewedBy,
		Comments:     l.Comments,
	}
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	res := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		res[i] = mapToResponse(l)
	}
	return res
}

func mapToBalanceResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:    b.EmployeeID.String(),
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
	}
}
