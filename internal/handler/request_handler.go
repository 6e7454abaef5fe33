package handler

import (
	"net/http"
	"time"

	"serendip/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RequestInput defines the structure for sending a connection request.
type RequestInput struct {
	ToUserID      string  `json:"to_user_id" binding:"required"`
	OpportunityID string  `json:"opportunity_id" binding:"required"`
	MatchID       *string `json:"match_id"`
}

// ConnectionRequestResponse describes one connection request.
type ConnectionRequestResponse struct {
	ID               string    `json:"id"`
	FromUserID       string    `json:"from_user_id"`
	ToUserID         string    `json:"to_user_id"`
	OpportunityID    string    `json:"opportunity_id"`
	MatchID          *string   `json:"match_id,omitempty"`
	Status           string    `json:"status"`
	FromUserName     string    `json:"from_user_name"`
	ToUserName       string    `json:"to_user_name"`
	OpportunityTitle string    `json:"opportunity_title"`
	CreatedAt        time.Time `json:"created_at"`
}

// endregion

func (h *Handler) buildRequestResponse(c *gin.Context, req models.ConnectionRequest) ConnectionRequestResponse {
	resp := ConnectionRequestResponse{
		ID:            req.ID,
		FromUserID:    req.FromUserID,
		ToUserID:      req.ToUserID,
		OpportunityID: req.OpportunityID,
		MatchID:       req.MatchID,
		Status:        string(req.Status),
		CreatedAt:     req.CreatedAt,
	}
	if from, err := h.users.Get(c.Request.Context(), req.FromUserID); err == nil {
		resp.FromUserName = from.Name
	}
	if to, err := h.users.Get(c.Request.Context(), req.ToUserID); err == nil {
		resp.ToUserName = to.Name
	}
	if opp, err := h.opportunities.Get(c.Request.Context(), req.OpportunityID); err == nil {
		resp.OpportunityTitle = opp.Title
	}
	return resp
}

func (h *Handler) buildRequestResponses(c *gin.Context, reqs []models.ConnectionRequest) []ConnectionRequestResponse {
	out := make([]ConnectionRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, h.buildRequestResponse(c, r))
	}
	return out
}

// CreateRequest godoc
// @Summary      Send a connection request
// @Description  Creates a pending request. A still-pending duplicate for the same triple returns 409, which the UI should read as "already sent".
// @Tags         connection-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RequestInput true "Request"
// @Success      201  {object}  ConnectionRequestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Request already pending"
// @Router       /connection-requests [post]
func (h *Handler) CreateRequest(c *gin.Context) {
	var input RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requests.Create(c.Request.Context(), actorID(c),
		input.ToUserID, input.OpportunityID, input.MatchID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.buildRequestResponse(c, *req))
}

// GetIncomingRequests godoc
// @Summary      List pending incoming requests
// @Tags         connection-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ConnectionRequestResponse
// @Router       /connection-requests/incoming [get]
func (h *Handler) GetIncomingRequests(c *gin.Context) {
	reqs, err := h.requests.Incoming(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.buildRequestResponses(c, reqs))
}

// GetOutgoingRequests godoc
// @Summary      List sent requests
// @Tags         connection-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ConnectionRequestResponse
// @Router       /connection-requests/outgoing [get]
func (h *Handler) GetOutgoingRequests(c *gin.Context) {
	reqs, err := h.requests.Outgoing(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.buildRequestResponses(c, reqs))
}

// CheckRequest godoc
// @Summary      Probe for an existing pending request
// @Description  Read-only idempotency probe mirroring the uniqueness rule of create.
// @Tags         connection-requests
// @Produce      json
// @Security     BearerAuth
// @Param        to_user_id      query  string  true  "Target user"
// @Param        opportunity_id  query  string  true  "Opportunity"
// @Success      200  {object}  map[string]bool "{"exists": true}"
// @Router       /connection-requests/check [get]
func (h *Handler) CheckRequest(c *gin.Context) {
	exists, err := h.requests.CheckExists(c.Request.Context(), actorID(c),
		c.Query("to_user_id"), c.Query("opportunity_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// GetRequestsByOpportunity godoc
// @Summary      List an opportunity's requests
// @Description  Restricted to the opportunity's poster.
// @Tags         connection-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Opportunity ID"
// @Success      200  {array}   ConnectionRequestResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /connection-requests/by-opportunity/{id} [get]
func (h *Handler) GetRequestsByOpportunity(c *gin.Context) {
	reqs, err := h.requests.ByOpportunity(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.buildRequestResponses(c, reqs))
}

// AcceptRequest godoc
// @Summary      Accept a connection request
// @Description  Only the recipient may accept; success creates the connection edge.
// @Tags         connection-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  ConnectionRequestResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Request no longer pending"
// @Router       /connection-requests/{id}/accept [post]
func (h *Handler) AcceptRequest(c *gin.Context) {
	req, err := h.requests.Accept(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.buildRequestResponse(c, *req))
}

// DeclineRequest godoc
// @Summary      Decline a connection request
// @Tags         connection-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  ConnectionRequestResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Request no longer pending"
// @Router       /connection-requests/{id}/decline [post]
func (h *Handler) DeclineRequest(c *gin.Context) {
	req, err := h.requests.Decline(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.buildRequestResponse(c, *req))
}
