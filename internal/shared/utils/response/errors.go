package response

import (
	"errors"
	"net/http"

	"ticketflow/internal/shared/apperrors"
	"ticketflow/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Ordered: the first match wins.
var errorTable = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "Resource not found"},
	{apperrors.ErrSoldOut, http.StatusConflict, "sold_out", "No tickets available"},
	{apperrors.ErrAlreadyRedeemed, http.StatusConflict, "already_redeemed", "Ticket already used"},
	{apperrors.ErrCancelled, http.StatusConflict, "cancelled", "Ticket has been cancelled"},
	{apperrors.ErrTicketInactive, http.StatusConflict, "inactive", "Ticket is not active"},
	{apperrors.ErrInvalidTransition, http.StatusConflict, "invalid_transition", "Operation not allowed in the current state"},
	{apperrors.ErrInvalidCapacity, http.StatusBadRequest, "invalid_capacity", "Invalid ticket capacity"},
	{apperrors.ErrInvalidPrice, http.StatusBadRequest, "invalid_price", "Invalid price"},
	{apperrors.ErrInvalidRate, http.StatusBadRequest, "invalid_rate", "Invalid commission rate"},
	{apperrors.ErrInvalidToken, http.StatusBadRequest, "invalid_token", "Invalid or unrecognised ticket code"},
	{apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input", "Invalid request"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "Insufficient permissions"},
	{apperrors.ErrPaymentFailed, http.StatusPaymentRequired, "payment_failed", "Payment was not confirmed"},
	{apperrors.ErrArtifact, http.StatusInternalServerError, "artifact_error", "Failed to generate ticket documents"},
}

// StatusFor maps an error to its HTTP status and machine code.
func StatusFor(err error) (int, string, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, m.code, m.message
		}
	}
	return http.StatusInternalServerError, "internal_error", "Internal server error"
}

// RespondError writes the error envelope for err. Client errors carry the
// wrapped detail, server errors are logged and answered generically.
func RespondError(c *gin.Context, err error) {
	status, code, message := StatusFor(err)

	var detail interface{}
	if status < http.StatusInternalServerError {
		detail = err.Error()
	} else {
		logger.GetDefault().LogHTTPError(c, err, status)
	}

	c.JSON(status, StandardApiResponse{
		Status:     "error",
		StatusCode: status,
		Code:       code,
		Message:    message,
		Errors:     detail,
	})
}

// RespondValidation reports request body problems, listing failed fields
// when the error comes from the validator.
func RespondValidation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, StandardApiResponse{
			Status:     "error",
			StatusCode: http.StatusBadRequest,
			Code:       "validation_failed",
			Message:    "Validation failed",
			Errors:     fields,
		})
		return
	}

	c.JSON(http.StatusBadRequest, StandardApiResponse{
		Status:     "error",
		StatusCode: http.StatusBadRequest,
		Code:       "invalid_body",
		Message:    "Invalid request body",
		Errors:     err.Error(),
	})
}
