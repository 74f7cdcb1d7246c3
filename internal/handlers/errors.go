package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/SscSPs/benefit_accounts_app/internal/apperrors"
	"github.com/SscSPs/benefit_accounts_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var bindingTagNamesOnce sync.Once

// useJSONFieldNames makes gin's binding validator report json field names.
func useJSONFieldNames() {
	bindingTagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func writeError(c *gin.Context, status int, message string, fields map[string]string) {
	middleware.AbortWithError(c, status, message, fields)
}

// respondBindError answers a request whose body could not be decoded or bound.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = bindingMessage(fe)
		}
		writeError(c, http.StatusBadRequest, "Invalid request", fields)
		return
	}
	writeError(c, http.StatusBadRequest, "Invalid request format: "+err.Error(), nil)
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidTransfer),
		errors.Is(err, apperrors.ErrInactiveAccount),
		errors.Is(err, apperrors.ErrInsufficientBalance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the error body for an error returned by a service.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}

	var fields map[string]string
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		fields = verr.Fields
	}
	writeError(c, status, err.Error(), fields)
}
