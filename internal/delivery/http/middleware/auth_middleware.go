package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "taskboard/internal/delivery/context"
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// contextKeyAuthUser is the echo.Context key holding the authenticated user.
const contextKeyAuthUser = "authUser"

// AuthMiddleware validates bearer tokens and resolves the account behind them.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userRepo repository.UserRepository, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userRepo: userRepo, logger: logger}
}

// Authenticate is the core middleware function that validates the access token.
// Every failure mode collapses into the same 401 so responses never reveal
// whether a token was missing, malformed, expired, or orphaned. The specific
// reason is only logged server-side.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthorized
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.ErrUnauthorized
		}

		userID, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				m.log(c).Debug("Rejected expired token")
			} else {
				m.log(c).Debug("Rejected invalid token")
			}

			return domainerrors.ErrUnauthorized
		}

		// A valid signature is not enough: the account must still exist.
		user, err := m.userRepo.FindByID(c.Request().Context(), userID)
		if err != nil {
			m.log(c).Warn("Rejected token for missing account", slog.Int64("userID", userID))

			return domainerrors.ErrUnauthorized
		}

		c.Set(contextKeyAuthUser, user)

		return next(c)
	}
}

func (m *AuthMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}

// CurrentUser returns the authenticated user stored by Authenticate, or nil
// when the request did not pass through it.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(contextKeyAuthUser).(*entity.User)

	return user
}
