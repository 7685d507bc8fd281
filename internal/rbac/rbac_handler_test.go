package rbac_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/middleware"
	"go-faculty-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func withActor(actor domain.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextActor, actor)
		c.Next()
	}
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newService(t, seededRepo())
	assert.NoError(t, svc.LoadPolicy(context.Background()))
	handler := rbac.NewHandler(svc)

	t.Run("success uses the caller role", func(t *testing.T) {
		router := gin.New()
		router.POST("/rbac/enforce", withActor(domain.Actor{ID: 20, Role: domain.RoleHOD, DepartmentCode: "CSE"}), handler.Enforce)

		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(`{"resource":"leave","action":"review"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Data domain.EnforceResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Data.Allowed)
	})

	t.Run("negative missing action", func(t *testing.T) {
		router := gin.New()
		router.POST("/rbac/enforce", withActor(domain.Actor{ID: 20, Role: domain.RoleHOD}), handler.Enforce)

		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(`{"resource":"leave"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newService(t, seededRepo())
	assert.NoError(t, svc.LoadPolicy(context.Background()))

	newRouter := func(actor domain.Actor) *gin.Engine {
		router := gin.New()
		router.POST("/leaves/:id/principal-decision",
			withActor(actor),
			middleware.RBACAuthorize(svc, "leave", "approve"),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)
		return router
	}

	t.Run("success principal passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(domain.Actor{ID: 30, Role: domain.RolePrincipal}).
			ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/1/principal-decision", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative faculty is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(domain.Actor{ID: 10, Role: domain.RoleFaculty, DepartmentCode: "CSE"}).
			ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/1/principal-decision", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
