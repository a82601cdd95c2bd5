package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-presence/internal/auth"
	"github.com/spec-kit/staff-presence/internal/config"
	"github.com/spec-kit/staff-presence/internal/domain"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// AuthService coordinates login flows.
type AuthService struct {
	store    RecordStore
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, store RecordStore, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:    store,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:   logger,
	}
}

// LoginStaff authenticates a staff member. The username match ignores case
// and surrounding whitespace; the password is case sensitive.
func (s *AuthService) LoginStaff(ctx context.Context, username, password string) (domain.StaffMember, string, domain.Token, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return domain.StaffMember{}, "", domain.Token{}, apperrors.NewValidationError("username and password required", nil)
	}

	for _, member := range s.store.ListCredentials(ctx) {
		if strings.ToLower(strings.TrimSpace(member.Username)) != username {
			continue
		}
		ok, err := auth.CheckPassword(member.PasswordHash, password)
		if err != nil {
			s.logger.Warn("stored password hash unusable", zap.String("staff_id", member.ID), zap.Error(err))
		}
		if !ok {
			break
		}
		token, meta, err := s.tokenMgr.GenerateToken(member)
		if err != nil {
			return domain.StaffMember{}, "", domain.Token{}, apperrors.NewInternalError(err)
		}
		return member, token, meta, nil
	}
	return domain.StaffMember{}, "", domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
