package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/config"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/dto"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/auth/token"
	userdomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/domain"
	userrepository "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/user/repository"
	"github.com/1Zamuken1/gastuapp-backend-sub000/internal/pkg/apperr"
)

// Service resolves verified principals to internal users and carries the
// deprecated password flows.
type Service interface {
	// Resolve maps a verified token principal to the internal user row.
	// Missing or deactivated users are unauthenticated, never 5xx.
	Resolve(ctx context.Context, principal *token.Principal) (*userdomain.User, error)

	// Me returns the principal echo for an authenticated user id.
	Me(ctx context.Context, userID uint) (*dto.MeResponse, error)

	// Register is the deprecated password self-registration.
	Register(ctx context.Context, req dto.RegisterRequest) (*userdomain.User, error)

	// Login is the deprecated password login; it issues a legacy HS256
	// token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
}

type service struct {
	users    userrepository.Repository
	verifier *token.Verifier
	cfg      config.LegacyAuth
	logger   *zap.Logger
}

// New creates the auth service.
func New(users userrepository.Repository, verifier *token.Verifier, cfg config.LegacyAuth, logger *zap.Logger) Service {
	return &service{users: users, verifier: verifier, cfg: cfg, logger: logger}
}

func (s *service) Resolve(ctx context.Context, principal *token.Principal) (*userdomain.User, error) {
	var user *userdomain.User
	var err error
	switch {
	case principal.Subject != nil:
		user, err = s.users.FindByExternalSubject(ctx, *principal.Subject)
	case principal.LegacyUserID != nil:
		user, err = s.users.FindByID(ctx, *principal.LegacyUserID)
	default:
		return nil, apperr.AuthInvalid("token carries no identity")
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.AuthInvalid("unknown user")
		}
		return nil, apperr.Internal(err)
	}
	if !user.Active {
		return nil, apperr.AuthUserInactive("user is deactivated")
	}
	return user, nil
}

func (s *service) Me(ctx context.Context, userID uint) (*dto.MeResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.AuthInvalid("unknown user")
		}
		return nil, apperr.Internal(err)
	}
	return &dto.MeResponse{
		PublicID: user.PublicID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	}, nil
}

func (s *service) Register(ctx context.Context, req dto.RegisterRequest) (*userdomain.User, error) {
	if !s.cfg.Enabled {
		return nil, apperr.Validation("password registration is disabled; use the identity provider")
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Validation("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	hashed := string(hash)

	user := &userdomain.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashed,
		Role:         userdomain.RoleUser,
		Active:       true,
	}
	if err := user.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("email is already registered")
		}
		return nil, apperr.Internal(err)
	}
	s.logger.Info("legacy user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *service) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	if !s.cfg.Enabled {
		return nil, apperr.Validation("password login is disabled; use the identity provider")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.AuthInvalid("invalid email or password")
		}
		return nil, apperr.Internal(err)
	}
	if !user.Active {
		return nil, apperr.AuthUserInactive("user is deactivated")
	}
	if user.PasswordHash == nil {
		return nil, apperr.AuthInvalid("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.AuthInvalid("invalid email or password")
	}

	ttl := s.cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	signed, err := s.verifier.IssueLegacy(user.ID, user.Email, ttl)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &dto.TokenResponse{Token: signed}, nil
}
