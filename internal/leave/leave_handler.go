package leave

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyResultTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	return NewHandlerWithRedis(service, nil, logger...)
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("user_id_validated")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}
	return actorID
}

func (h *Handler) Apply(c *gin.Context) {
	ctx := c.Request.Context()
	lockKey := c.GetString("idempotency_lock_key")
	cacheKey := c.GetString("idempotency_cache_key")

	if h.rdb != nil && lockKey != "" {
		defer h.rdb.Del(ctx, lockKey)
	}

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.AppError(c, mapBindError(err, leaveerrors.ErrMissingFields))
		return
	}

	resp, err := h.service.Apply(ctx, getActorID(c), c.GetString("user_name"), req)
	if err != nil {
		response.AppError(c, err)
		return
	}

	if h.rdb != nil && cacheKey != "" {
		if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
			if err := h.rdb.Set(ctx, cacheKey, payload, idempotencyResultTTL).Err(); err != nil {
				contextutil.GetLogger(ctx, h.logger).Warn("store idempotent result failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	response.SuccessWithMessage(c, http.StatusCreated, resp, "Leave request submitted successfully")
}

func (h *Handler) GetPending(c *gin.Context) {
	resp, err := h.service.GetPending(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}

	page, meta := paginate(c, resp)
	response.Success(c, http.StatusOK, page, meta)
}

func (h *Handler) GetMyRequests(c *gin.Context) {
	resp, err := h.service.GetMyRequests(c.Request.Context(), getActorID(c))
	if err != nil {
		response.AppError(c, err)
		return
	}

	page, meta := paginate(c, resp)
	response.Success(c, http.StatusOK, page, meta)
}

func (h *Handler) GetBalance(c *gin.Context) {
	resp, err := h.service.GetBalance(c.Request.Context(), getActorID(c))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Review(c *gin.Context) {
	var req ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.AppError(c, mapBindError(err, leaveerrors.ErrInvalidStatus))
		return
	}

	resp, err := h.service.Review(c.Request.Context(), c.GetString("user_name"), c.Param("id"), req)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, resp, "Leave request "+resp.Status+" successfully")
}

func (h *Handler) GetSummary(c *gin.Context) {
	var filter SummaryFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.AppError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GetSummary(c.Request.Context(), filter.Month, filter.Year)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// mapBindError reports an empty body or a failed required tag as onMissing
// and anything else (malformed JSON, wrong types) as a validation error.
func mapBindError(err error, onMissing error) error {
	if errors.Is(err, io.EOF) {
		return onMissing
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 && errs[0].Tag() == "required" {
		return onMissing
	}
	return apperror.MapValidationError(err)
}

// paginate slices items when the caller asked for page or page_size and
// returns everything otherwise.
func paginate[T any](c *gin.Context, items []T) ([]T, *response.PaginationMeta) {
	pageParam, pageSizeParam := c.Query("page"), c.Query("page_size")
	if pageParam == "" && pageSizeParam == "" {
		return items, nil
	}

	page, _ := strconv.Atoi(pageParam)
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(pageSizeParam)
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(items))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	return items[start:end], &meta
}
