package rbac

import (
	"go-faculty-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service, authn gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(authn)
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/permissions", middleware.RBACAuthorize(service, "rbac", "manage"), handler.ListPermissions)
		group.POST("/permissions", middleware.RBACAuthorize(service, "rbac", "manage"), handler.Grant)
		group.DELETE("/permissions", middleware.RBACAuthorize(service, "rbac", "manage"), handler.Revoke)
	}
}
