package handler

import (
	"errors"
	"net/http"

	"serendip/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler bundles the engine services behind the HTTP surface.
type Handler struct {
	users         *service.UserService
	opportunities *service.OpportunityService
	graph         *service.GraphService
	matching      *service.MatchingService
	requests      *service.RequestService
	feedback      *service.FeedbackService
	log           *zap.Logger
}

// New builds a Handler.
func New(users *service.UserService, opportunities *service.OpportunityService,
	graph *service.GraphService, matching *service.MatchingService,
	requests *service.RequestService, feedback *service.FeedbackService,
	log *zap.Logger) *Handler {
	return &Handler{
		users:         users,
		opportunities: opportunities,
		graph:         graph,
		matching:      matching,
		requests:      requests,
		feedback:      feedback,
		log:           log.Named("http"),
	}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondError maps the engine's error taxonomy onto HTTP statuses. Every
// taxonomy error is caller-recoverable; anything unrecognized is a 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotEligible):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// actorID returns the authenticated user id set by the auth middleware.
func actorID(c *gin.Context) string {
	id, _ := c.Get("userID")
	s, _ := id.(string)
	return s
}
