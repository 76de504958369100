package leave

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMW gin.HandlerFunc,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	leaves := r.Group("/leave")
	leaves.Use(authMW, middleware.ExtractUserID(), middleware.RateLimitByUser(5, 10))
	{
		leaves.POST("/apply",
			middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Apply,
		)
		leaves.GET("/my-requests",
			middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionReadOwn),
			handler.GetMyRequests,
		)
		leaves.GET("/balance",
			middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionReadOwn),
			handler.GetBalance,
		)
		leaves.GET("/pending",
			middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionReadAll),
			handler.GetPending,
		)
		leaves.GET("/summary",
			middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionReadAll),
			handler.GetSummary,
		)
		leaves.POST("/approve/:id",
			middleware.RBACAuthorize(rbacService, domain.ResourceLeave, domain.ActionApprove),
			handler.Review,
		)
	}
}
