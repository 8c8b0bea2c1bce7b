package leave

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.Authorize(rbacService, "leave", "apply"), middleware.Idempotency(rdb), h.Apply)
		leaves.GET("", middleware.Authorize(rbacService, "leave", "read"), h.GetMine)
		leaves.PUT("/:id", middleware.Authorize(rbacService, "leave", "update"), h.UpdateMine)
		leaves.DELETE("/:id", middleware.Authorize(rbacService, "leave", "cancel"), h.CancelMine)
		leaves.GET("/all", middleware.Authorize(rbacService, "leave", "read_all"), h.GetAll)
		leaves.PUT("/:id/status", middleware.Authorize(rbacService, "leave", "decide"), h.Decide)
		leaves.GET("/stats", middleware.Authorize(rbacService, "leave", "stats"), h.Stats)
	}
}
