package app

import (
	"context"
	"database/sql"
	"time"

	"go-faculty-leave/internal/arrangement"
	"go-faculty-leave/internal/auth"
	"go-faculty-leave/internal/balance"
	"go-faculty-leave/internal/bootstrap"
	"go-faculty-leave/internal/config"
	"go-faculty-leave/internal/department"
	"go-faculty-leave/internal/leave"
	"go-faculty-leave/internal/messaging/kafka"
	"go-faculty-leave/internal/middleware"
	"go-faculty-leave/internal/notification"
	"go-faculty-leave/internal/pending"
	"go-faculty-leave/internal/rbac"
	"go-faculty-leave/internal/shared/counter"
	"go-faculty-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const policyLoadTimeout = 10 * time.Second

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	auditLogger := bootstrap.NewStdoutAuditLogger(logger)

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	arrangementRepo := arrangement.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	pendingRepo := pending.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	ctx, cancel := context.WithTimeout(context.Background(), policyLoadTimeout)
	defer cancel()
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	// --- Services ---
	notifier := notification.NewOutboxEnqueuer(outboxRepo, cfg.Kafka.NotificationTopic, logger)
	balanceService := balance.NewService(db, balanceRepo, rdb, cfg.Ledger, nil, logger)
	authService := auth.NewService(authRepo, cfg.Auth, logger)
	userService := user.NewService(userRepo, balanceService)
	departmentService := department.NewService(db, departmentRepo, rdb, logger)
	leaveService := leave.NewService(db, leaveRepo, leave.Deps{
		Arrangements: arrangementRepo,
		Counters:     counterRepo,
		Ledger:       balanceService,
		Notifier:     notifier,
		Audit:        auditLogger,
	}, logger)
	arrangementService := arrangement.NewService(
		db,
		arrangementRepo,
		leave.NewSubstituteStage(leaveRepo, logger),
		notifier,
		auditLogger,
		logger,
	)
	pendingService := pending.NewService(pendingRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	userHandler := user.NewHandler(userService, logger)
	departmentHandler := department.NewHandler(departmentService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	arrangementHandler := arrangement.NewHandler(arrangementService, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	pendingHandler := pending.NewHandler(pendingService)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	authn := middleware.AuthMiddleware(cfg.Auth.JWTSecret)
	idempotency := middleware.Idempotency(rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authn)
		user.RegisterRoutes(api, userHandler, rbacService, authn)
		department.RegisterRoutes(api, departmentHandler, rbacService, authn)
		leave.RegisterRoutes(api, leaveHandler, rbacService, authn, idempotency)
		arrangement.RegisterRoutes(api, arrangementHandler, rbacService, authn)
		balance.RegisterRoutes(api, balanceHandler, rbacService, authn)
		pending.RegisterRoutes(api, pendingHandler, authn)
		rbac.RegisterRoutes(api, rbacHandler, rbacService, authn)
	}

	return nil
}
