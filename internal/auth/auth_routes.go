package auth

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", handler.Login)
		auth.GET("/me", authn, handler.Me)
		auth.POST("/logout", handler.Logout)
	}
}
