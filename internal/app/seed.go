package app

import (
	"time"

	"go-leave/internal/auth"
	"go-leave/internal/domain"
	"go-leave/internal/leave"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type demoUser struct {
	username string
	password string
	name     string
	email    string
	role     string
}

var demoUsers = []demoUser{
	{"employee", "password123", "John Doe", "john.doe@company.com", domain.RoleEmployee},
	{"manager", "manager123", "Jane Smith", "jane.smith@company.com", domain.RoleManager},
	{"alice", "alice123", "Alice Johnson", "alice.johnson@company.com", domain.RoleEmployee},
}

// demoID derives a stable id so re-seeding never duplicates rows.
func demoID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("go-leave:"+kind+":"+key))
}

func seedDemoData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range demoUsers {
			hash, err := auth.HashPassword(u.password)
			if err != nil {
				return err
			}
			user := auth.User{
				ID:       demoID("user", u.username),
				Username: u.username,
				Name:     u.name,
				Email:    u.email,
				Password: hash,
				Role:     u.role,
			}
			if err := tx.Where("username = ?", u.username).FirstOrCreate(&user).Error; err != nil {
				return err
			}
		}

		john := demoID("user", "employee")
		alice := demoID("user", "alice")

		balances := []leave.LeaveBalance{
			leave.NewLeaveBalance(john, 20, 5),
			leave.NewLeaveBalance(alice, 20, 3),
		}
		for i := range balances {
			if err := tx.Where("employee_id = ?", balances[i].EmployeeID).FirstOrCreate(&balances[i]).Error; err != nil {
				return err
			}
		}

		reviewedAt := time.Date(2024, 1, 9, 9, 15, 0, 0, time.UTC)
		reviewer := "Jane Smith"
		requests := []leave.LeaveRequest{
			{
				ID:           demoID("leave", "1"),
				EmployeeID:   john,
				EmployeeName: "John Doe",
				StartDate:    leave.DateOf(2024, time.January, 15),
				EndDate:      leave.DateOf(2024, time.January, 17),
				Reason:       "Personal vacation",
				Status:       leave.StatusPending,
				AppliedAt:    time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
			},
			{
				ID:           demoID("leave", "2"),
				EmployeeID:   alice,
				EmployeeName: "Alice Johnson",
				StartDate:    leave.DateOf(2024, time.January, 20),
				EndDate:      leave.DateOf(2024, time.January, 22),
				Reason:       "Medical appointment",
				Status:       leave.StatusApproved,
				AppliedAt:    time.Date(2024, 1, 8, 14, 30, 0, 0, time.UTC),
				ReviewedAt:   &reviewedAt,
				ReviewedBy:   &reviewer,
			},
		}
		for i := range requests {
			if err := tx.Where("id = ?", requests[i].ID).FirstOrCreate(&requests[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
