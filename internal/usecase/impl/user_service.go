// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	deliverycontext "taskboard/internal/delivery/context"
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"
	"taskboard/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	minPasswordLen = 8
	maxNameLen     = 255
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete user registration process.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if err := validateRegistrationInput(input); err != nil {
		srv.log(ctx).Warn("Registration validation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// Hash outside the transaction: bcrypt is CPU-bound and must not hold a
	// database connection.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrEmailTaken
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check email availability")
		}

		newUser := &entity.User{
			Email:        input.Email,
			Name:         input.Name,
			PasswordHash: hashedPassword,
		}

		// The unique index on email still backs this up under concurrent
		// registration; the repository maps that violation to the same error.
		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			if errors.Is(createErr, domainerrors.ErrEmailTaken) {
				return createErr
			}

			return domainerrors.ErrUserCreationFailed.WithDetails(createErr.Error())
		}

		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Int64("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// Login verifies the submitted credentials and issues an access token.
// Unknown email and wrong password collapse into one generic error so the
// response never reveals whether an account exists.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, domainerrors.ErrAuthenticationFailed
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	// bcrypt comparison happens outside any transaction (CPU-bound).
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrAuthenticationFailed
	}

	ttl := srv.tokenService.AccessTokenTTL()

	accessToken, err := srv.tokenService.Issue(user.ID, ttl)
	if err != nil {
		srv.log(ctx).Error("Failed to issue access token", slog.Int64("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue access token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		User:        user,
	}, nil
}

// GetProfile retrieves the account backing an authenticated session.
func (srv *userService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user profile")
	}

	return user, nil
}

func validateRegistrationInput(input *usecase.RegisterUserInput) error {
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return domainerrors.ErrInvalidRegistration.WithDetails("email must be a valid address")
	}
	// Limits count characters, not bytes, so multibyte input is not penalized.
	if utf8.RuneCountInString(input.Password) < minPasswordLen {
		return domainerrors.ErrInvalidRegistration.WithDetails("password must be at least 8 characters")
	}
	if utf8.RuneCountInString(input.Name) > maxNameLen {
		return domainerrors.ErrInvalidRegistration.WithDetails("name must be at most 255 characters")
	}

	return nil
}
