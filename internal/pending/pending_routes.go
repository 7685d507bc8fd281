package pending

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	counters := r.Group("/counters")
	counters.Use(authn)
	{
		counters.GET("/pending", handler.Get)
	}
}
