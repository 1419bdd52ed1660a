package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes the body into out. It only checks JSON shape; field rules
// are the service's job so they can run in the order each operation needs.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		status, message := describeBindError(err)
		RespondError(ctx, status, message)

		return false
	}

	return true
}

func describeBindError(err error) (int, string) {
	var maxBytesError *http.MaxBytesError

	if errors.As(err, &maxBytesError) {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body must not exceed %d bytes", maxBytesError.Limit)
	}

	if errors.Is(err, io.EOF) {
		return http.StatusBadRequest, "Request body is required"
	}

	// in the event of a type mismatch
	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := strings.TrimSpace(unmatchedTypeError.Field)

		if field == "" {
			return http.StatusBadRequest, "Request body must be a JSON object"
		}

		return http.StatusBadRequest, fmt.Sprintf("Field '%s' must be of type %s", field, jsonTypeName(unmatchedTypeError.Type.String()))
	}

	// bad syntax, truncated input, anything else the decoder rejects
	return http.StatusBadRequest, "Malformed JSON request body"
}

func jsonTypeName(goType string) string {
	goType = strings.TrimPrefix(goType, "*")

	switch goType {
	case "int", "int32", "int64":
		return "integer"
	case "string":
		return "string"
	default:
		return goType
	}
}
