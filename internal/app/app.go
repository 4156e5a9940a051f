package app

import (
	"os"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/middleware"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/selfie"
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/shared/connection"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	if err := applyTuningOverrides(); err != nil {
		return err
	}

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(addr, 5)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("REDIS_ADDR not set, caching and idempotency disabled")
	}

	uploader, err := buildSelfieUploader(logger)
	if err != nil {
		return err
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID", "Idempotency-Key")
	router.Use(cors.New(corsCfg))
	router.Use(middleware.RequestID())

	return registerModules(router, sqlDB, gormDB, rdb, uploader)
}

// buildSelfieUploader picks Cloudinary when credentials are present and a
// deterministic local uploader otherwise, so the flow stays usable in
// development.
func buildSelfieUploader(logger *zap.Logger) (selfie.Uploader, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	if cloudName == "" {
		logger.Warn("CLOUDINARY_CLOUD_NAME not set, storing selfie URLs without upload")
		return selfie.StaticUploader{BaseURL: "https://selfies.invalid"}, nil
	}

	cld, err := cloudinary.NewFromParams(
		cloudName,
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		return nil, err
	}
	return selfie.NewCloudinaryUploader(cld, "attendance-selfies"), nil
}
