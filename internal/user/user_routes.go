package user

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.Authorize(rbacService, "users", "read"), h.GetAll)
		users.GET("/stats/overview", middleware.Authorize(rbacService, "users", "stats"), h.StatsOverview)
		users.GET("/:id", middleware.Authorize(rbacService, "users", "read"), h.GetByID)
		users.PUT("/:id", middleware.Authorize(rbacService, "users", "update"), h.Update)
	}
}
