package leave_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/domain"
	"go-leave/internal/leave"
	leaveMock "go-leave/internal/leave/mock"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// fakeAuth stands in for the JWT middleware; the role comes from X-Role.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_name", "John Doe")
		c.Set("role", c.GetHeader("X-Role"))
		c.Next()
	}
}

func setupRoutes(t *testing.T, service leave.Service, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enforcer, err := infra.NewEnforcer("")
	assert.NoError(t, err)
	rbacService := rbac.NewService(rbac.NewStaticRepository(), enforcer, zap.NewNop())
	assert.NoError(t, rbacService.LoadPolicy())

	r := gin.New()
	leave.RegisterRoutes(r.Group("/api/v1"), leave.NewHandler(service), fakeAuth(userID), rbacService, nil)
	return r
}

func TestRegisterRoutes_Access(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := leaveMock.NewMockService(ctrl)
	userID := uuid.NewString()
	router := setupRoutes(t, mockService, userID)

	call := func(method, path, role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("X-Role", role)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("success - employee reads own balance", func(t *testing.T) {
		mockService.EXPECT().GetBalance(gomock.Any(), userID).
			Return(leave.BalanceResponse{EmployeeID: userID, TotalDays: 20, UsedDays: 5, RemainingDays: 15}, nil)

		w := call(http.MethodGet, "/api/v1/leave/balance", domain.RoleEmployee)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success - manager inherits employee access", func(t *testing.T) {
		mockService.EXPECT().GetMyRequests(gomock.Any(), userID).Return([]leave.LeaveResponse{}, nil)

		w := call(http.MethodGet, "/api/v1/leave/my-requests", domain.RoleManager)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success - manager lists pending", func(t *testing.T) {
		mockService.EXPECT().GetPending(gomock.Any()).Return([]leave.LeaveResponse{}, nil)

		w := call(http.MethodGet, "/api/v1/leave/pending", domain.RoleManager)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative - employee cannot list pending", func(t *testing.T) {
		w := call(http.MethodGet, "/api/v1/leave/pending", domain.RoleEmployee)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative - employee cannot review", func(t *testing.T) {
		w := call(http.MethodPost, "/api/v1/leave/approve/"+uuid.NewString(), domain.RoleEmployee)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative - employee cannot read summary", func(t *testing.T) {
		w := call(http.MethodGet, "/api/v1/leave/summary", domain.RoleEmployee)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
