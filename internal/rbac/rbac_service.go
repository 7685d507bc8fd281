package rbac

import (
	"context"
	"strings"
	"sync"

	"go-faculty-leave/internal/domain"
	rbacerrors "go-faculty-leave/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	LoadPolicy(ctx context.Context) error
	Enforce(req domain.EnforceRequest) (bool, error)
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	Grant(ctx context.Context, req PermissionRequest) (PermissionResponse, error)
	Revoke(ctx context.Context, req PermissionRequest) error
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	loaded   bool
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{repo: repo, enforcer: enforcer, logger: l}
}

// LoadPolicy replaces the in-memory policy with the stored grants.
func (s *service) LoadPolicy(ctx context.Context) error {
	rows, err := s.repo.GetRolePermissions(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()
	for role, parent := range roleInheritance {
		if _, err := s.enforcer.AddGroupingPolicy(string(role), string(parent)); err != nil {
			return err
		}
	}
	for _, rp := range rows {
		if _, err := s.enforcer.AddPolicy(rp.Role, rp.Resource, rp.Action); err != nil {
			return err
		}
	}
	s.loaded = true

	s.logger.Info("rbac policy loaded", zap.Int("permissions", len(rows)))
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false, rbacerrors.ErrPolicyNotLoaded
	}

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	rows, err := s.repo.GetRolePermissions(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]PermissionResponse, len(rows))
	for i, rp := range rows {
		res[i] = mapToResponse(rp)
	}
	return res, nil
}

func (s *service) Grant(ctx context.Context, req PermissionRequest) (PermissionResponse, error) {
	p := normalize(req)
	if err := s.repo.Grant(ctx, p); err != nil {
		return PermissionResponse{}, err
	}

	s.mu.Lock()
	_, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action)
	s.mu.Unlock()
	if err != nil {
		return PermissionResponse{}, err
	}

	s.logger.Info("permission granted", zap.String("role", p.Role), zap.String("resource", p.Resource), zap.String("action", p.Action))
	return mapToResponse(p), nil
}

func (s *service) Revoke(ctx context.Context, req PermissionRequest) error {
	p := normalize(req)
	removed, err := s.repo.Revoke(ctx, p)
	if err != nil {
		return err
	}
	if !removed {
		return rbacerrors.ErrPermissionNotFound
	}

	s.mu.Lock()
	_, err = s.enforcer.RemovePolicy(p.Role, p.Resource, p.Action)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Info("permission revoked", zap.String("role", p.Role), zap.String("resource", p.Resource), zap.String("action", p.Action))
	return nil
}

func normalize(req PermissionRequest) RolePermission {
	return RolePermission{
		Role:     strings.ToLower(strings.TrimSpace(req.Role)),
		Resource: strings.ToLower(strings.TrimSpace(req.Resource)),
		Action:   strings.ToLower(strings.TrimSpace(req.Action)),
	}
}
