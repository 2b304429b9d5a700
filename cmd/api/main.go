package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiftwise-hq/workforce-backend-go/internal/config"
	appHTTP "github.com/shiftwise-hq/workforce-backend-go/internal/handler/http"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/cache"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/cron"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/database"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/jwt"
	"github.com/shiftwise-hq/workforce-backend-go/internal/pkg/sse"
	"github.com/shiftwise-hq/workforce-backend-go/internal/repository/postgresql"
	approvalService "github.com/shiftwise-hq/workforce-backend-go/internal/service/approval"
	assignmentService "github.com/shiftwise-hq/workforce-backend-go/internal/service/assignment"
	notificationService "github.com/shiftwise-hq/workforce-backend-go/internal/service/notification"
	presenceService "github.com/shiftwise-hq/workforce-backend-go/internal/service/presence"
	sessionService "github.com/shiftwise-hq/workforce-backend-go/internal/service/session"
	tenantService "github.com/shiftwise-hq/workforce-backend-go/internal/service/tenant"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), int32(cfg.Database.MaxConns))
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Failed to connect to redis:", err)
	}

	sessionRepo := postgresql.NewSessionRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	approvalRepo := postgresql.NewApprovalRepository(db)
	presenceRepo := postgresql.NewPresenceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	hub := sse.NewHub()
	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	guard := tenantService.NewGuard()

	notifier := notificationService.NewNotificationService(notificationRepo, hub)
	defer notifier.Stop()

	presencePub := presenceService.NewHubPublisher(hub)
	projector := presenceService.NewProjector(presenceRepo, redisClient, cfg.Presence.CacheTTL)
	resolver := assignmentService.NewResolver(assignmentRepo, cfg.Attendance.ScheduleToleranceMinutes)

	sessions := sessionService.NewSessionService(
		db,
		guard,
		sessionRepo,
		breakRepo,
		resolver,
		employeeRepo,
		notifier,
		presencePub,
		cfg.Attendance.BreakAllowanceMinutes,
	)
	approvals := approvalService.NewApprovalService(
		db,
		guard,
		sessionRepo,
		approvalRepo,
		employeeRepo,
		notifier,
	)

	scheduler := cron.NewScheduler()
	sessionJobs := cron.NewSessionJobs(
		db,
		sessionRepo,
		breakRepo,
		employeeRepo,
		notifier,
		presencePub,
		cfg.Attendance.MaxSessionHours,
		cfg.Attendance.BreakAllowanceMinutes,
	)
	sessionJobs.Register(scheduler, cfg.Attendance.SweepInterval)
	scheduler.Start()
	defer scheduler.Stop()

	sessionHandler := appHTTP.NewSessionHandler(sessions)
	approvalHandler := appHTTP.NewApprovalHandler(approvals)
	presenceHandler := appHTTP.NewPresenceHandler(guard, projector, jwtService, hub)
	notificationHandler := appHTTP.NewNotificationHandler(guard, notificationRepo)

	router := appHTTP.NewRouter(cfg, jwtService, sessionHandler, approvalHandler, presenceHandler, notificationHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server listening on :%d\n", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown:", err)
	}
}
