package attendance

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("", middleware.Authorize(rbacService, "attendance", "mark"), middleware.Idempotency(rdb), h.Mark)
		attendances.GET("", middleware.Authorize(rbacService, "attendance", "read"), h.GetMine)
		attendances.GET("/today", middleware.Authorize(rbacService, "attendance", "read"), h.CheckToday)
		attendances.GET("/all", middleware.Authorize(rbacService, "attendance", "read_all"), h.GetAll)
		attendances.GET("/stats", middleware.Authorize(rbacService, "attendance", "stats"), h.Stats)
	}
}
