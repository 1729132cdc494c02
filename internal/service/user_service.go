package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/phrazzld/scry-study/internal/store"
)

// Constructor errors for UserService.
var (
	ErrNilUserStore = errors.New("user store cannot be nil")
	ErrNilHasher    = errors.New("password hasher cannot be nil")
)

// UserService registers accounts and checks their credentials.
type UserService interface {
	// Register creates an account. Password policy failures wrap
	// domain.ErrValidation; a taken email gives store.ErrEmailExists.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate returns the user whose email and password match, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

type userServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	// decoy is compared against when the email is unknown so both failure
	// paths cost one hash comparison.
	decoy  string
	logger *slog.Logger
}

// NewUserService creates a UserService backed by users.
func NewUserService(users store.UserStore, hasher auth.PasswordHasher, log *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, ErrNilUserStore
	}
	if hasher == nil {
		return nil, ErrNilHasher
	}
	if log == nil {
		log = slog.Default()
	}
	decoy, err := hasher.Hash("decoy-password-never-matches")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &userServiceImpl{
		users:  users,
		hasher: hasher,
		decoy:  decoy,
		logger: log.With(slog.String("component", "user_service")),
	}, nil
}

func (s *userServiceImpl) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l.With(slog.String("component", "user_service"))
	}
	return s.logger
}

func (s *userServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, &ServiceError{Service: "user", Op: "register", Err: err}
	}

	user, err := domain.NewUser(email, hashed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.log(ctx).Debug("registration with existing email")
			return nil, err
		}
		s.log(ctx).Error("failed to save user", slog.String("error", err.Error()))
		return nil, &ServiceError{Service: "user", Op: "register", Err: err}
	}

	s.log(ctx).Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.log(ctx).Error("failed to look up user", slog.String("error", err.Error()))
			return nil, &ServiceError{Service: "user", Op: "authenticate", Err: err}
		}
		_ = s.hasher.Compare(s.decoy, password)
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.log(ctx).Debug("password mismatch", slog.String("user_id", user.ID.String()))
			return nil, ErrInvalidCredentials
		}
		s.log(ctx).Error("failed to compare password",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return nil, &ServiceError{Service: "user", Op: "authenticate", Err: err}
	}

	return user, nil
}
