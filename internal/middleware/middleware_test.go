package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/middleware"
	rbacmock "go-leave/internal/rbac/mock"
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": "7f1c2a0e-4b1d-4c55-9d3e-1a2b3c4d5e6f",
		"name":    "John Doe",
		"role":    domain.RoleEmployee,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func echoIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":   c.GetString("user_id"),
		"user_name": c.GetString("user_name"),
		"role":      c.GetString("role"),
	})
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(testSecret), echoIdentity)

	t.Run("success - bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims()))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "John Doe", got["user_name"])
		assert.Equal(t, domain.RoleEmployee, got["role"])
	})

	t.Run("success - cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, testSecret, validClaims())})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative - missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decode(t, w)
		assert.False(t, env.OK)
		assert.Equal(t, "No token provided", env.Error.Message)
	})

	t.Run("negative - wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other", validClaims()))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", decode(t, w).Error.Code)
	})

	t.Run("negative - expired", func(t *testing.T) {
		claims := validClaims()
		claims["exp"] = time.Now().Add(-time.Minute).Unix()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_EXPIRED", decode(t, w).Error.Code)
	})

	t.Run("negative - no role claim", func(t *testing.T) {
		claims := validClaims()
		delete(claims, "role")
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Role not found in token", decode(t, w).Error.Message)
	})
}

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func TestRoleMiddleware(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	t.Run("success", func(t *testing.T) {
		r := gin.New()
		r.GET("/x", withRole(domain.RoleManager), middleware.RoleMiddleware(domain.RoleManager), ok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("negative - wrong role", func(t *testing.T) {
		r := gin.New()
		r.GET("/x", withRole(domain.RoleEmployee), middleware.RoleMiddleware(domain.RoleManager), ok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestExtractUserID(t *testing.T) {
	run := func(userID string) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			if userID != "" {
				c.Set("user_id", userID)
			}
			c.Next()
		}, middleware.ExtractUserID(), func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString("user_id_validated"))
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w
	}

	t.Run("success", func(t *testing.T) {
		w := run("7f1c2a0e-4b1d-4c55-9d3e-1a2b3c4d5e6f")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7f1c2a0e-4b1d-4c55-9d3e-1a2b3c4d5e6f", w.Body.String())
	})

	t.Run("negative - not a uuid", func(t *testing.T) {
		w := run("1")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_USER_ID", decode(t, w).Error.Code)
	})

	t.Run("negative - missing", func(t *testing.T) {
		w := run("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRBACAuthorize(t *testing.T) {
	req := domain.EnforceRequest{Role: domain.RoleEmployee, Resource: domain.ResourceLeave, Action: domain.ActionApprove}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	newRouter := func(svc middleware.RBACService, role string) *gin.Engine {
		r := gin.New()
		r.POST("/x", withRole(role), middleware.RBACAuthorize(svc, domain.ResourceLeave, domain.ActionApprove), ok)
		return r
	}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := rbacmock.NewMockService(ctrl)
		svc.EXPECT().Enforce(req).Return(true, nil)

		w := httptest.NewRecorder()
		newRouter(svc, domain.RoleEmployee).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("negative - denied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := rbacmock.NewMockService(ctrl)
		svc.EXPECT().Enforce(req).Return(false, nil)

		w := httptest.NewRecorder()
		newRouter(svc, domain.RoleEmployee).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", decode(t, w).Error.Code)
	})

	t.Run("negative - enforce error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := rbacmock.NewMockService(ctrl)
		svc.EXPECT().Enforce(req).Return(false, errors.New("boom"))

		w := httptest.NewRecorder()
		newRouter(svc, domain.RoleEmployee).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("negative - no role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := rbacmock.NewMockService(ctrl)

		w := httptest.NewRecorder()
		newRouter(svc, "").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimitByUser(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-User"))
		c.Next()
	}, middleware.RateLimitByUser(0, 1), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, call("u1"))
	assert.Equal(t, http.StatusTooManyRequests, call("u1"))
	assert.Equal(t, http.StatusNoContent, call("u2"))
	assert.Equal(t, http.StatusNoContent, call(""))
	assert.Equal(t, http.StatusNoContent, call(""))
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.POST("/login", middleware.RateLimitByIP(0, 2), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestIdempotency(t *testing.T) {
	const (
		userID   = "7f1c2a0e-4b1d-4c55-9d3e-1a2b3c4d5e6f"
		cacheKey = "idemp:/leave/apply:" + userID + ":key-1"
		lockKey  = cacheKey + ":lock"
	)

	newRouter := func(mw gin.HandlerFunc, reached *bool) *gin.Engine {
		r := gin.New()
		r.POST("/leave/apply", func(c *gin.Context) {
			c.Set("user_id_validated", userID)
			c.Next()
		}, mw, func(c *gin.Context) {
			*reached = true
			assert.Equal(t, cacheKey, c.GetString("idempotency_cache_key"))
			assert.Equal(t, lockKey, c.GetString("idempotency_lock_key"))
			c.Status(http.StatusCreated)
		})
		return r
	}

	post := func(r *gin.Engine, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/leave/apply", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("success - first request takes the lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)

		reached := false
		w := post(newRouter(middleware.Idempotency(rdb), &reached), "key-1")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, reached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - replay cached result", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"id":"leave-1","status":"pending"}`)

		reached := false
		w := post(newRouter(middleware.Idempotency(rdb), &reached), "key-1")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, reached)
		env := decode(t, w)
		assert.True(t, env.OK)
		assert.JSONEq(t, `{"id":"leave-1","status":"pending"}`, string(env.Data))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative - still processing", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		reached := false
		w := post(newRouter(middleware.Idempotency(rdb), &reached), "key-1")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, reached)
		assert.Equal(t, "PROCESSING", decode(t, w).Error.Code)
	})

	t.Run("success - no key passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		reached := false
		r.POST("/leave/apply", middleware.Idempotency(rdb), func(c *gin.Context) {
			reached = true
			c.Status(http.StatusCreated)
		})
		w := post(r, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, reached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContextLogger(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ContextLogger(zap.NewNop()))
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	t.Run("success - generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		rid := w.Header().Get(contextutil.RequestIDHeader)
		assert.NotEmpty(t, rid)
		assert.Equal(t, rid, w.Body.String())
	})

	t.Run("success - keeps client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(contextutil.RequestIDHeader, "client-rid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "client-rid", w.Header().Get(contextutil.RequestIDHeader))
		assert.Equal(t, "client-rid", w.Body.String())
	})
}
