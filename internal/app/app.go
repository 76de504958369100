package app

import (
	"go-leave/internal/auth"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine, cfg Config) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, 5)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	if err := gormDB.AutoMigrate(
		&auth.User{},
		&leave.LeaveRequest{},
		&leave.LeaveBalance{},
		&kafka.OutboxRecord{},
	); err != nil {
		return err
	}

	if cfg.SeedDemo {
		if err := seedDemoData(gormDB); err != nil {
			return err
		}
		logger.Info("demo data seeded")
	}

	return registerModules(router, cfg, sqlDB, gormDB, rdb)
}
