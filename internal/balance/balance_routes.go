package balance

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
	balances := r.Group("/balances")
	balances.Use(authn)
	{
		balances.GET("/:user_id", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.Get)
		balances.POST("/credit", middleware.RBACAuthorize(rbacService, "balance", "credit"), handler.Credit)
		balances.POST("/rollover", middleware.RBACAuthorize(rbacService, "balance", "rollover"), handler.Rollover)
	}
}
