package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, response.PaginationMeta{Total: 21, TotalPages: 3, Page: 2, PageSize: 10}, response.NewPaginationMeta(21, 2, 10))
	assert.Equal(t, 0, response.NewPaginationMeta(5, 1, 0).TotalPages)
}

func TestAppError(t *testing.T) {
	t.Run("success - app error keeps status and code", func(t *testing.T) {
		c, w := newContext()
		c.Set("request_id", "rid-1")

		response.AppError(c, leaveerrors.ErrAlreadyProcessed)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		raw := struct {
			Ok    bool               `json:"ok"`
			Error response.ErrorBody `json:"error"`
		}{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.False(t, raw.Ok)
		assert.Equal(t, leaveerrors.CodeAlreadyProcessed, raw.Error.Code)
		assert.Equal(t, "rid-1", raw.Error.RequestID)
	})

	t.Run("negative - plain error becomes 500", func(t *testing.T) {
		c, w := newContext()

		response.AppError(c, errors.New("dial tcp: refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "refused")
	})
}
