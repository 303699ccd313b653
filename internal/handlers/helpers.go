package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "ledger/internal/errors"
	"ledger/internal/middleware"
	"ledger/internal/validator"
)

// getSessionID extracts the session token resolved by the session middleware.
// Returns ErrUnauthorized if not present.
func getSessionID(c *gin.Context) (string, error) {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	return sessionID, nil
}

// bindError turns a Gin binding failure into a validation error listing the
// offending fields, or a plain invalid-input error for unparseable bodies.
func bindError(err error) error {
	if fields := validator.FieldErrors(err); len(fields) > 0 {
		return apperrors.WithFields(apperrors.ErrValidation, fields)
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, "Malformed request: "+err.Error())
}

func respondWithError(c *gin.Context, err error) {
	middleware.RespondWithError(c, err)
}
