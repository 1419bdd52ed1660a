package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/userservice/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const unexpectedMessage = "An unexpected error occurred"

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message)
}

func RespondInternal(ctx *gin.Context) {
	RespondError(ctx, http.StatusInternalServerError, unexpectedMessage)
}

// RespondValidation writes the bare field -> message map, no envelope.
func RespondValidation(ctx *gin.Context, fields user.FieldErrors) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, fields)
}

// RespondServiceError maps a service failure to its response. Anything that is
// not a typed user error is logged and reported with a fixed message.
func RespondServiceError(ctx *gin.Context, log *slog.Logger, op string, err error) {
	var (
		notFound   *user.NotFoundError
		conflict   *user.EmailConflictError
		validation *user.ValidationError
	)

	switch {
	case errors.As(err, &validation):
		RespondValidation(ctx, validation.Fields)
	case errors.As(err, &notFound):
		RespondNotFound(ctx, notFound.Error())
	case errors.As(err, &conflict):
		RespondConflict(ctx, conflict.Error())
	default:
		log.ErrorContext(ctx.Request.Context(), "unexpected error", "op", op, "err", err)
		_ = ctx.Error(err)
		RespondInternal(ctx)
	}
}
