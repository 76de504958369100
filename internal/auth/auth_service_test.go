package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	authMock "go-leave/internal/auth/mock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-secret"

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testSecret, time.Hour)
	ctx := context.Background()

	password := "password123"
	hashed, err := auth.HashPassword(password)
	assert.NoError(t, err)

	mockUser := &auth.User{
		ID:       uuid.New(),
		Username: "employee",
		Name:     "John Doe",
		Email:    "john.doe@company.com",
		Password: hashed,
		Role:     "Employee",
	}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByUsername(ctx, mockUser.Username).
			Return(mockUser, nil)

		token, resp, err := service.Login(ctx, mockUser.Username, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, mockUser.ID.String(), resp.ID)
		assert.Equal(t, "John Doe", resp.Name)
		assert.Equal(t, "Employee", resp.Role)

		parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		assert.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, mockUser.ID.String(), claims["user_id"])
		assert.Equal(t, "Employee", claims["role"])
		assert.Equal(t, "John Doe", claims["name"])
	})

	t.Run("negative - wrong password", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByUsername(ctx, mockUser.Username).
			Return(mockUser, nil)

		_, _, err := service.Login(ctx, mockUser.Username, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative - unknown user", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByUsername(ctx, "ghost").
			Return(nil, autherrors.ErrUserNotFound)

		_, _, err := service.Login(ctx, "ghost", password)
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative - repository error", func(t *testing.T) {
		dbErr := errors.New("connection refused")
		mockRepo.EXPECT().
			GetByUsername(ctx, mockUser.Username).
			Return(nil, dbErr)

		_, _, err := service.Login(ctx, mockUser.Username, password)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_GetMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testSecret, 0)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByID(ctx, userID).
			Return(&auth.User{ID: userID, Username: "manager", Name: "Jane Smith", Role: "Manager"}, nil)

		resp, err := service.GetMe(ctx, userID.String())
		assert.NoError(t, err)
		assert.Equal(t, "manager", resp.Username)
		assert.Equal(t, "Manager", resp.Role)
	})

	t.Run("negative - invalid id", func(t *testing.T) {
		_, err := service.GetMe(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("negative - not found", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByID(ctx, userID).
			Return(nil, autherrors.ErrUserNotFound)

		_, err := service.GetMe(ctx, userID.String())
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
