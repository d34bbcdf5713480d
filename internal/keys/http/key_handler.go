// Package http provides HTTP handlers for the public key registry.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	authHTTP "github.com/openfoundry/releases/internal/auth/http"
	apperrors "github.com/openfoundry/releases/internal/errors"
	"github.com/openfoundry/releases/internal/httputil"
	"github.com/openfoundry/releases/internal/keys/http/dto"
	"github.com/openfoundry/releases/internal/outcome"
	"github.com/openfoundry/releases/internal/storage"
	customValidation "github.com/openfoundry/releases/internal/validation"
)

// KeyHandler handles HTTP requests for the key registry. Every request
// opens a storage session and operates through the capability matching the
// caller's privilege.
type KeyHandler struct {
	storage *storage.Service
	logger  *slog.Logger
}

// NewKeyHandler creates a new key handler with required dependencies.
func NewKeyHandler(storageService *storage.Service, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		storage: storageService,
		logger:  logger,
	}
}

// committeeParam validates the :name path parameter.
func (h *KeyHandler) committeeParam(c *gin.Context) (string, bool) {
	name := c.Param("name")
	if err := validation.Validate(name, validation.Required, customValidation.CommitteeName); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return "", false
	}
	return name, true
}

// fingerprintParam validates and normalizes the :fingerprint path parameter.
func (h *KeyHandler) fingerprintParam(c *gin.Context) (string, bool) {
	fingerprint := strings.ToLower(c.Param("fingerprint"))
	if err := validation.Validate(fingerprint, validation.Required, customValidation.Fingerprint); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return "", false
	}
	return fingerprint, true
}

// openMember opens a session and derives the member capability for the
// committee. On failure it writes the error response and returns false.
func (h *KeyHandler) openMember(
	c *gin.Context,
	committeeName string,
) (*storage.Session, storage.CommitteeMember, bool) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, h.logger)
		return nil, nil, false
	}

	session, err := h.storage.Open(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return nil, nil, false
	}

	member, err := session.AsCommitteeMember(committeeName)
	if err != nil {
		_ = session.Close(err)
		httputil.HandleErrorGin(c, err, h.logger)
		return nil, nil, false
	}

	return session, member, true
}

// artifactStatus flattens an artifact regeneration outcome for a response.
func artifactStatus(o outcome.Outcome[string]) (status, errMsg string) {
	switch {
	case o.OK():
		return dto.StatusOK, ""
	case o.Warned():
		return dto.StatusWarning, o.WarningCause().Error()
	default:
		return dto.StatusError, o.Cause().Error()
	}
}

// StoreKeyHandler registers one armored public key in the foundation-wide
// store.
// POST /v1/keys - Requires authentication; the caller must be a foundation
// committer.
// Returns 200 OK with the stored record; repeats return the existing one.
func (h *KeyHandler) StoreKeyHandler(c *gin.Context) {
	var req dto.StoreKeyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, h.logger)
		return
	}

	session, err := h.storage.Open(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	committer, err := session.AsFoundationCommitter()
	if err != nil {
		_ = session.Close(err)
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	o := committer.EnsureStoredKey(req.ASCIIArmored)
	stored, opErr := o.Result()
	if closeErr := session.Close(opErr); closeErr != nil {
		httputil.HandleErrorGin(c, closeErr, h.logger)
		return
	}
	if opErr != nil {
		httputil.HandleErrorGin(c, opErr, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapKeyToResponse(stored))
}

// ImportKeysHandler stores and links every armored block found in the
// request text, then rebuilds the committee's KEYS artifact.
// POST /v1/committees/:name/keys/import - Requires committee membership.
// Returns 200 OK with per-block outcomes; malformed blocks fail
// individually without failing the request.
func (h *KeyHandler) ImportKeysHandler(c *gin.Context) {
	name, ok := h.committeeParam(c)
	if !ok {
		return
	}

	var req dto.ImportKeysRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	session, member, ok := h.openMember(c, name)
	if !ok {
		return
	}

	outcomes := member.ImportKeys(req.KeysText)
	artifact := member.RegenerateKeysFile()

	// Partial success still commits; each block reports its own fate.
	if closeErr := session.Close(nil); closeErr != nil {
		httputil.HandleErrorGin(c, closeErr, h.logger)
		return
	}

	response := dto.MapImportToResponse(outcomes)
	response.KeysFile, response.KeysFileError = artifactStatus(artifact)

	c.JSON(http.StatusOK, response)
}

// LinkKeyHandler associates a stored key with a committee.
// POST /v1/committees/:name/keys/:fingerprint/link - Requires committee
// membership.
// Returns 200 OK; a repeated link reports a warning instead of failing.
func (h *KeyHandler) LinkKeyHandler(c *gin.Context) {
	h.handleLinkChange(c, func(member storage.CommitteeMember, fingerprint string) outcome.Outcome[*storage.LinkResult] {
		return member.LinkKey(fingerprint)
	})
}

// UnlinkKeyHandler removes a key's association with a committee.
// POST /v1/committees/:name/keys/:fingerprint/unlink - Requires committee
// membership.
// Returns 200 OK, or 404 when the association does not exist.
func (h *KeyHandler) UnlinkKeyHandler(c *gin.Context) {
	h.handleLinkChange(c, func(member storage.CommitteeMember, fingerprint string) outcome.Outcome[*storage.LinkResult] {
		return member.UnlinkKey(fingerprint)
	})
}

func (h *KeyHandler) handleLinkChange(
	c *gin.Context,
	change func(storage.CommitteeMember, string) outcome.Outcome[*storage.LinkResult],
) {
	name, ok := h.committeeParam(c)
	if !ok {
		return
	}

	fingerprint, ok := h.fingerprintParam(c)
	if !ok {
		return
	}

	session, member, ok := h.openMember(c, name)
	if !ok {
		return
	}

	o := change(member, fingerprint)
	result, opErr := o.Result()
	if closeErr := session.Close(opErr); closeErr != nil {
		httputil.HandleErrorGin(c, closeErr, h.logger)
		return
	}
	if opErr != nil {
		httputil.HandleErrorGin(c, opErr, h.logger)
		return
	}

	response := dto.LinkKeyResponse{
		Committee:   result.Link.CommitteeName,
		Fingerprint: result.Link.Fingerprint,
	}
	if o.Warned() {
		response.Warning = o.WarningCause().Error()
	}
	response.KeysFile, response.KeysFileError = artifactStatus(result.Artifact)

	c.JSON(http.StatusOK, response)
}

// RegenerateKeysFileHandler rebuilds a committee's KEYS artifact.
// POST /v1/committees/:name/keys-file - Requires committee membership.
// Returns 200 OK with the new artifact content.
func (h *KeyHandler) RegenerateKeysFileHandler(c *gin.Context) {
	name, ok := h.committeeParam(c)
	if !ok {
		return
	}

	session, member, ok := h.openMember(c, name)
	if !ok {
		return
	}

	o := member.RegenerateKeysFile()
	content, opErr := o.Result()
	if closeErr := session.Close(opErr); closeErr != nil {
		httputil.HandleErrorGin(c, closeErr, h.logger)
		return
	}
	if opErr != nil {
		httputil.HandleErrorGin(c, opErr, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RegenerateKeysFileResponse{
		Committee: member.CommitteeName(),
		KeysFile:  content,
	})
}

// PurgeCommitteeKeysHandler unlinks every key from a committee and deletes
// records no longer linked anywhere.
// POST /v1/admin/committees/:name/keys/delete - Requires an administrator.
// Returns 200 OK with the purge counts.
func (h *KeyHandler) PurgeCommitteeKeysHandler(c *gin.Context) {
	name, ok := h.committeeParam(c)
	if !ok {
		return
	}

	session, member, ok := h.openMember(c, name)
	if !ok {
		return
	}

	o := member.DeleteCommitteeKeys()
	report, opErr := o.Result()
	if closeErr := session.Close(opErr); closeErr != nil {
		httputil.HandleErrorGin(c, closeErr, h.logger)
		return
	}
	if opErr != nil {
		httputil.HandleErrorGin(c, opErr, h.logger)
		return
	}

	response := dto.PurgeKeysResponse{
		Committee: member.CommitteeName(),
		Unlinked:  report.UnlinkedCount,
		Deleted:   report.DeletedCount,
	}
	response.KeysFile, response.KeysFileError = artifactStatus(report.Artifact)

	c.JSON(http.StatusOK, response)
}

// ListCommitteeKeysHandler lists the keys linked to a committee.
// GET /v1/committees/:name/keys - Public.
// Supports offset and limit query parameters; returns 200 OK.
func (h *KeyHandler) ListCommitteeKeysHandler(c *gin.Context) {
	name, ok := h.committeeParam(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	principal, _ := authHTTP.GetPrincipal(c.Request.Context())

	session, err := h.storage.Open(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	keys, opErr := session.AsGeneralPublic().ListKeys(name, offset, limit)
	if closeErr := session.Close(opErr); closeErr != nil {
		httputil.HandleErrorGin(c, closeErr, h.logger)
		return
	}
	if opErr != nil {
		httputil.HandleErrorGin(c, opErr, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapKeysToListResponse(keys))
}

// GetKeysFileHandler serves a committee's generated KEYS artifact.
// GET /v1/committees/:name/keys-file - Public.
// Returns 200 OK as plain text, or 404 when no artifact exists.
func (h *KeyHandler) GetKeysFileHandler(c *gin.Context) {
	name, ok := h.committeeParam(c)
	if !ok {
		return
	}

	principal, _ := authHTTP.GetPrincipal(c.Request.Context())

	session, err := h.storage.Open(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	content, opErr := session.AsGeneralPublic().KeysFile(name)
	if closeErr := session.Close(opErr); closeErr != nil {
		httputil.HandleErrorGin(c, closeErr, h.logger)
		return
	}
	if opErr != nil {
		httputil.HandleErrorGin(c, opErr, h.logger)
		return
	}

	c.String(http.StatusOK, content)
}
