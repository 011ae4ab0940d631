package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fixpoint-backend/internal/store"
)

// Notifier is told about every successful fixpoint assignment.
type Notifier interface {
	NotifyAssignment(quoteID, fixpointID int64)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    *store.Store
	webpush  *webpush.Options
	notifier Notifier
}

// NewHandler creates a new API handler. notifier may be nil.
func NewHandler(s *store.Store, webpushOptions *webpush.Options, notifier Notifier) *Handler {
	return &Handler{
		store:    s,
		webpush:  webpushOptions,
		notifier: notifier,
	}
}

// writeError maps store errors onto HTTP statuses. Anything that is not a
// validation, conflict or not-found error is logged and reported as a
// generic internal error.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathID parses the :id path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// queryID reads an optional numeric filter. Missing or malformed values read
// as 0, which the store treats as "no filter given".
func queryID(c *gin.Context, key string) int64 {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	return true
}

func ok(c *gin.Context, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
