package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/server/http/dto"
	"github.com/polkiloo/catering/internal/server/http/middleware"
)

// CurrentIdentity extracts the authenticated caller from context.
func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	return middleware.Identity(c)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind domainErrors.Kind) int {
	switch kind {
	case domainErrors.KindValidation:
		return http.StatusBadRequest
	case domainErrors.KindNotFound:
		return http.StatusNotFound
	case domainErrors.KindForbidden:
		return http.StatusForbidden
	case domainErrors.KindConflict:
		return http.StatusConflict
	case domainErrors.KindDependencyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a JSON error body. Wrapped causes are never exposed.
func writeError(c *gin.Context, err error) {
	kind := domainErrors.KindOf(err)
	status := statusFor(kind)
	message := "internal error"
	var de *domainErrors.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	if status == http.StatusInternalServerError {
		kind = domainErrors.KindInternal
		message = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: string(kind), Message: message})
}

func badRequest(c *gin.Context, message string) {
	writeError(c, domainErrors.Validation("%s", message))
}

// withIdentity runs fn with the caller or answers 401.
func withIdentity(c *gin.Context, fn func(model.Identity)) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "UNAUTHORIZED", Message: "authentication required"})
		return
	}
	fn(identity)
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid order id")
		return 0, false
	}
	return id, true
}
