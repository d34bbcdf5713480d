package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/openfoundry/releases/internal/auth/usecase"
	apperrors "github.com/openfoundry/releases/internal/errors"
	"github.com/openfoundry/releases/internal/httputil"
)

// AuthenticationMiddleware authenticates requests via a Bearer session token
// in the Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Verifies the token with tokenUseCase.VerifyJWT()
// 3. Stores the resulting principal in the request context
// 4. Allows downstream handlers to access the principal via GetPrincipal()
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Invalid/expired/malformed session token → 401 Unauthorized
func AuthenticationMiddleware(
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		sessionToken := authHeader[len(bearerPrefix):]
		if sessionToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		principal, err := tokenUseCase.VerifyJWT(c.Request.Context(), sessionToken)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("uid", principal.UID),
			slog.Bool("admin", principal.Admin))

		c.Next()
	}
}

// RequireAdminMiddleware rejects requests whose authenticated principal is
// not a foundation administrator. It must run after AuthenticationMiddleware.
func RequireAdminMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			logger.Debug("authorization failed: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, logger)
			c.Abort()
			return
		}

		if !principal.Admin {
			logger.Debug("authorization failed: admin required",
				slog.String("uid", principal.UID))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
