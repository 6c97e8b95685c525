package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/calder-ai/relaycore/internal/domain"
)

// ErrorHandler translates errors attached by handlers into JSON responses.
// Problems serialize as RFC 9457 bodies; plain domain errors use the
// {error} shape. Anything unrecognized becomes a 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var problem *domain.Problem
		if errors.As(err, &problem) {
			if problem.Log != nil {
				logger.Error("request failed",
					zap.Int("status", problem.Status),
					zap.Error(problem.Log),
				)
			}
			// RFC 9457 puts the problem document at the response root
			c.JSON(problem.Status, problem)
			c.Abort()
			return
		}

		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			if domainErr.Log != nil {
				logger.Error("request failed",
					zap.Int("status", domainErr.Code),
					zap.String("message", domainErr.Message),
					zap.Error(domainErr.Log),
				)
			}
			c.JSON(domainErr.Code, gin.H{"error": domainErr.Message})
			c.Abort()
			return
		}

		logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
		c.Abort()
	}
}
