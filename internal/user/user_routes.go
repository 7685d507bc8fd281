package user

import (
	"go-faculty-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authn gin.HandlerFunc,
) {
	users := r.Group("/users")
	users.Use(authn)
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetAll)
		users.POST("", middleware.RBACAuthorize(rbacService, "user", "create"), handler.Create)
		users.POST("/me/password", handler.ChangePassword)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetByID)
		users.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "user", "update"), handler.ToggleStatus)
	}
}
