package leave

import (
	"go-faculty-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authn gin.HandlerFunc,
	idempotency gin.HandlerFunc,
) {
	leaves := r.Group("/leaves")
	leaves.Use(authn)
	{
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), idempotency, handler.Submit)
		leaves.GET("/mine", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.ListMine)
		leaves.GET("/department", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.ListDepartment)
		leaves.GET("/principal", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.ListPrincipal)
		leaves.GET("/export", middleware.RBACAuthorize(rbacService, "leave", "export"), handler.Export)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.POST("/:id/hod-decision", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.DecideHod)
		leaves.POST("/:id/principal-decision", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.DecidePrincipal)
	}
}
