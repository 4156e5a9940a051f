package attendance

import (
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		write := attendances.Group("")
		write.Use(middleware.RateLimitByEmployee(rate.Limit(1), 5))
		if rdb != nil {
			write.Use(middleware.Idempotency(rdb))
		}
		write.POST("/check-in", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.CheckIn)
		write.POST("/check-out", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.CheckOut)

		attendances.GET("/today", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.Today)
		attendances.GET("/history", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.History)
	}
}
