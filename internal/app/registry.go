package app

import (
	"database/sql"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/attendance"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/auth"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/employee"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/gps"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/messaging/kafka"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/rbac"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/report"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/selfie"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/counter"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/workstation"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	uploader selfie.Uploader,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	reportRepo := report.NewRepository(gormDB)
	workStationRepo := workstation.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	reportZone, err := loadReportZone()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, uploader, gps.UnavailableProvider{}, outboxRepo, rdb)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	reportService := report.NewServiceInZone(reportRepo, rdb, reportZone)
	workStationService := workstation.NewService(db, workStationRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)
	employeeHandler := employee.NewHandler(employeeService)
	reportHandler := report.NewHandler(reportService)
	workStationHandler := workstation.NewHandler(workStationService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		workstation.RegisterRoutes(api, workStationHandler, rbacService)
	}

	return nil
}
