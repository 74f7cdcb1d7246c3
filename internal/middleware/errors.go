package middleware

import (
	"time"

	"github.com/SscSPs/benefit_accounts_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// AbortWithError stops the chain and writes a dto.ErrorResponse.
// fields may be nil.
func AbortWithError(c *gin.Context, status int, message string, fields map[string]string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
		Errors:    fields,
	})
}
