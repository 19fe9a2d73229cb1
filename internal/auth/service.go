package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fruitify/fruitify-backend/internal/users"
	pkgauth "github.com/fruitify/fruitify-backend/pkg/auth"
	"github.com/fruitify/fruitify-backend/pkg/config"
	"github.com/fruitify/fruitify-backend/pkg/db"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	pkgerrors "github.com/fruitify/fruitify-backend/pkg/errors"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/fruitify/fruitify-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterInput carries the signup fields.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    *string
}

// LoginInput carries the credential check fields.
type LoginInput struct {
	Email    string
	Password string
}

// Session is the issued token plus the account it belongs to.
type Session struct {
	Token string
	User  *models.User
}

// Service defines account registration and credential verification.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type service struct {
	repo        users.Repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(repo users.Repository, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		logg:        logg,
		now:         time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        users.NormalizeEmail(input.Email),
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
		Name:         input.Name,
		Phone:        input.Phone,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with that email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user registered")
	return s.issueSession(user)
}

// Login verifies credentials. Unknown accounts and wrong passwords produce
// the same generic rejection.
func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user logged in")
	return s.issueSession(user)
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) issueSession(user *models.User) (*Session, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}
	return &Session{Token: token, User: user}, nil
}
