package middleware

import (
	"errors"
	"fmt"
	"strings"

	autherrors "go-faculty-leave/internal/auth/errors"
	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/shared/contextutil"
	"go-faculty-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ContextActor  = "actor"
	ContextUserID = "user_id"
)

// Claims is the access token payload.
type Claims struct {
	UserID         uint64 `json:"user_id"`
	Role           string `json:"role"`
	DepartmentCode string `json:"department_code,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) Actor() domain.Actor {
	return domain.Actor{
		ID:             c.UserID,
		Role:           domain.Role(c.Role),
		DepartmentCode: c.DepartmentCode,
	}
}

// ParseToken validates an HS256 token signed with secret.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.ErrTokenExpired
		}
		return nil, autherrors.ErrInvalidToken
	}
	if !token.Valid || claims.UserID == 0 || !domain.Role(claims.Role).Valid() {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			errObj := autherrors.ErrTokenNotFound
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, autherrors.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		actor := claims.Actor()
		c.Set(ContextActor, actor)
		c.Set(ContextUserID, actor.IDString())

		ctx := contextutil.WithUserID(c.Request.Context(), actor.IDString())
		ctx = contextutil.WithLogger(ctx, contextutil.GetLogger(ctx, nil).With(zap.String("user_id", actor.IDString())))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ActorFrom returns the authenticated actor set by AuthMiddleware.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok && !actor.IsZero()
}
