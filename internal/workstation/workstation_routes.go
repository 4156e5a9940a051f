package workstation

import (
	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	stations := r.Group("/workstations")
	stations.Use(middleware.AuthMiddleware())
	{
		stations.GET("", middleware.RBACAuthorize(rbacService, "workstation", "read"), h.GetAll)
		stations.GET("/:id", middleware.RBACAuthorize(rbacService, "workstation", "read"), h.GetByID)
		stations.POST("", middleware.RBACAuthorize(rbacService, "workstation", "create"), h.Create)
		stations.PUT("/:id", middleware.RBACAuthorize(rbacService, "workstation", "update"), h.Update)
		stations.DELETE("/:id", middleware.RBACAuthorize(rbacService, "workstation", "delete"), h.Delete)
	}
}
