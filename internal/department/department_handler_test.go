package department_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-faculty-leave/internal/department"
	departmenterrors "go-faculty-leave/internal/department/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeDepartmentService struct {
	CreateFn    func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	GetAllFn    func(ctx context.Context) ([]department.DepartmentResponse, error)
	GetByCodeFn func(ctx context.Context, code string) (department.DepartmentResponse, error)
	UpdateFn    func(ctx context.Context, code string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	DeleteFn    func(ctx context.Context, code string) error
}

func (f *fakeDepartmentService) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeDepartmentService) GetAll(ctx context.Context) ([]department.DepartmentResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeDepartmentService) GetByCode(ctx context.Context, code string) (department.DepartmentResponse, error) {
	return f.GetByCodeFn(ctx, code)
}
func (f *fakeDepartmentService) Update(ctx context.Context, code string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	return f.UpdateFn(ctx, code, req)
}
func (f *fakeDepartmentService) Delete(ctx context.Context, code string) error {
	return f.DeleteFn(ctx, code)
}

func setupRouter(svc department.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := department.NewHandler(svc)
	r.GET("/departments", h.GetAll)
	r.POST("/departments", h.Create)
	r.GET("/departments/:code", h.GetByCode)
	r.PUT("/departments/:code", h.Update)
	r.DELETE("/departments/:code", h.Delete)
	return r
}

func TestDepartmentHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDepartmentService{
			CreateFn: func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
				assert.Equal(t, "CSE", req.Code)
				return department.DepartmentResponse{Code: "CSE", Name: req.Name}, nil
			},
		}
		r := setupRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"code":"CSE","name":"Computer Science"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative missing name", func(t *testing.T) {
		r := setupRouter(&fakeDepartmentService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"code":"CSE"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
		assert.Equal(t, "Name is required", env.Error.Message)
	})

	t.Run("negative duplicate", func(t *testing.T) {
		svc := &fakeDepartmentService{
			CreateFn: func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{}, departmenterrors.ErrDepartmentAlreadyExists
			},
		}
		r := setupRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"code":"CSE","name":"Computer Science"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestDepartmentHandler_GetByCode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDepartmentService{
			GetByCodeFn: func(ctx context.Context, code string) (department.DepartmentResponse, error) {
				assert.Equal(t, "ECE", code)
				return department.DepartmentResponse{Code: "ECE", Name: "Electronics"}, nil
			},
		}
		r := setupRouter(svc)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/departments/ECE", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeDepartmentService{
			GetByCodeFn: func(ctx context.Context, code string) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
			},
		}
		r := setupRouter(svc)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/departments/XYZ", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDepartmentHandler_Delete(t *testing.T) {
	t.Run("negative in use", func(t *testing.T) {
		svc := &fakeDepartmentService{
			DeleteFn: func(ctx context.Context, code string) error {
				return departmenterrors.ErrDepartmentInUse
			},
		}
		r := setupRouter(svc)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/departments/CSE", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
