package handler

import (
	"errors"
	"net/http"

	"taskboard/internal/auth"
	"taskboard/internal/board"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps domain errors onto HTTP responses. Only unexpected and
// store failures are logged as errors.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *board.ValidationError
		writeErr      *repository.StoreWriteError
		domainErr     *auth.DomainError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, board.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrSignInCancelled):
		log.WithField("path", c.FullPath()).Debug("sign-in cancelled")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &domainErr):
		log.WithField("origin", domainErr.Origin).Warn("sign-in from unauthorized origin")
		c.JSON(http.StatusForbidden, gin.H{"error": domainErr.Error()})
	case errors.As(err, &writeErr):
		log.WithError(err).WithField("op", writeErr.Op).Error("store write failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "The change could not be saved. Please try again.",
			"retryable": true,
		})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
