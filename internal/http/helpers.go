package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/library"
)

// Machine-readable error codes. Clients translate on these and on the message text.
const (
	CodeValidation          = "validation_error"
	CodeNotFound            = "not_found"
	CodeUniqueViolation     = "unique_violation"
	CodeForeignKeyViolation = "foreign_key_violation"
	CodeUnavailable         = "unavailable"
	CodeLoanLimit           = "loan_limit"
	CodeAlreadyReturned     = "already_returned"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// respondStoreError maps domain and storage errors onto status codes.
// Anything unrecognised is a 500.
func respondStoreError(c *gin.Context, err error, context string) {
	var (
		validation *library.ValidationError
		referenced *database.ReferencedError
		limit      *database.LoanLimitError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validation.Error(), Code: CodeValidation, Details: validation.Fields})
	case database.IsNotFound(err):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, database.ErrDuplicateEmail), errors.Is(err, database.ErrDuplicateISBN):
		respondError(c, http.StatusConflict, CodeUniqueViolation, err.Error())
	case errors.As(err, &referenced):
		respondError(c, http.StatusConflict, CodeForeignKeyViolation, err.Error())
	case errors.Is(err, database.ErrNoCopiesAvailable):
		respondError(c, http.StatusBadRequest, CodeUnavailable, err.Error())
	case errors.As(err, &limit):
		respondError(c, http.StatusBadRequest, CodeLoanLimit, err.Error())
	case errors.Is(err, database.ErrAlreadyReturned):
		respondError(c, http.StatusBadRequest, CodeAlreadyReturned, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}
