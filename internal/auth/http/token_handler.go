// Package http provides HTTP middleware and handlers for authentication.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/openfoundry/releases/internal/auth/domain"
	"github.com/openfoundry/releases/internal/auth/http/dto"
	authUseCase "github.com/openfoundry/releases/internal/auth/usecase"
	apperrors "github.com/openfoundry/releases/internal/errors"
	"github.com/openfoundry/releases/internal/httputil"
	customValidation "github.com/openfoundry/releases/internal/validation"
)

// TokenHandler handles HTTP requests for credential operations.
// It coordinates token issuance and exchange with the TokenUseCase.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// ExchangeJWTHandler exchanges a personal access token for a session token.
// POST /api/jwt - No authentication required (this is the authentication endpoint).
// Returns 200 OK with the account uid and a signed session token.
func (h *TokenHandler) ExchangeJWTHandler(c *gin.Context) {
	var req dto.ExchangeJWTRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &authDomain.IssueJWTInput{
		UID:      req.ASFUID,
		PlainPAT: req.PAT,
	}

	output, err := h.tokenUseCase.IssueJWT(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.ExchangeJWTResponse{
		ASFUID: output.UID,
		JWT:    output.JWT,
	}

	c.JSON(http.StatusOK, response)
}

// IssuePATHandler mints a new personal access token for the authenticated
// principal.
// POST /v1/pats - Requires authentication.
// Returns 201 Created with the plaintext token and expiration time.
func (h *TokenHandler) IssuePATHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, h.logger)
		return
	}

	output, err := h.tokenUseCase.IssuePAT(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.IssuePATResponse{
		ID:        output.Token.ID.String(),
		Token:     output.PlainToken,
		ExpiresAt: output.Token.ExpiresAt,
	}

	c.JSON(http.StatusCreated, response)
}

// ListPATsHandler lists the authenticated principal's personal access tokens.
// GET /v1/pats - Requires authentication.
// Returns 200 OK with token metadata; plaintext tokens are never listed.
func (h *TokenHandler) ListPATsHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, h.logger)
		return
	}

	pats, err := h.tokenUseCase.ListPATs(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPATsToListResponse(pats))
}

// RevokePATHandler revokes a personal access token by id.
// POST /v1/pats/:id/revoke - Requires authentication; the caller must own
// the token or be an administrator.
// Returns 204 No Content on success.
func (h *TokenHandler) RevokePATHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, h.logger)
		return
	}

	patID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid token id format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.tokenUseCase.RevokePAT(c.Request.Context(), principal, patID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
