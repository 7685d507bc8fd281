package arrangement

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
	arrangements := r.Group("/arrangements")
	arrangements.Use(authn)
	{
		arrangements.GET("/mine", middleware.RBACAuthorize(rbacService, "arrangement", "read"), handler.ListMine)
		arrangements.POST("/:id/decision", middleware.RBACAuthorize(rbacService, "arrangement", "respond"), handler.Resolve)
	}
}
