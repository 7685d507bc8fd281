package department

import (
	"go-faculty-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService middleware.RBACService,
	authn gin.HandlerFunc,
) {
	departments := r.Group("/departments")
	departments.Use(authn)
	{
		departments.GET("", middleware.RBACAuthorize(rbacService, "department", "read"), h.GetAll)
		departments.POST("", middleware.RBACAuthorize(rbacService, "department", "create"), h.Create)
		departments.GET("/:code", middleware.RBACAuthorize(rbacService, "department", "read"), h.GetByCode)
		departments.PUT("/:code", middleware.RBACAuthorize(rbacService, "department", "update"), h.Update)
		departments.DELETE("/:code", middleware.RBACAuthorize(rbacService, "department", "delete"), h.Delete)
	}
}
