package report

import (
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("", middleware.RBACAuthorize(rbacService, "report", "read"), h.Get)
		reports.GET("/export", middleware.RBACAuthorize(rbacService, "report", "export"), h.Export)
		reports.GET("/dashboard", middleware.RBACAuthorize(rbacService, "report", "read"), h.Dashboard)
	}
}
