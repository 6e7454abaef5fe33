package handler

import (
	"net/http"
	"time"

	"serendip/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// OpportunityInput defines the structure for posting an opportunity.
type OpportunityInput struct {
	Type        string `json:"type" binding:"required" example:"project"`
	Title       string `json:"title" binding:"required" example:"Looking for a designer"`
	Description string `json:"description" example:"Weekend project, Figma skills welcome"`
}

// OpportunityResponse describes one posted opportunity.
type OpportunityResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PostedBy    string    `json:"posted_by"`
	PosterName  string    `json:"poster_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// MatchResponse is one ranked candidate for an opportunity.
type MatchResponse struct {
	ID             string   `json:"id"`
	OpportunityID  string   `json:"opportunity_id"`
	UserID         string   `json:"user_id"`
	UserName       string   `json:"user_name"`
	UserBio        string   `json:"user_bio"`
	UserSkills     []string `json:"user_skills"`
	EmbeddingScore float64  `json:"embedding_score"`
	NetworkScore   float64  `json:"network_score"`
	Score          float64  `json:"score"`
	Explanation    string   `json:"explanation"`
	Rank           int      `json:"rank"`
}

// OpportunityDetailResponse bundles an opportunity with its match snapshot.
type OpportunityDetailResponse struct {
	Opportunity OpportunityResponse `json:"opportunity"`
	Matches     []MatchResponse     `json:"matches"`
}

// endregion

func (h *Handler) buildOpportunityResponse(c *gin.Context, opp models.Opportunity) OpportunityResponse {
	posterName := ""
	if poster, err := h.users.Get(c.Request.Context(), opp.PostedBy); err == nil {
		posterName = poster.Name
	}
	return OpportunityResponse{
		ID:          opp.ID,
		Type:        string(opp.Type),
		Title:       opp.Title,
		Description: opp.Description,
		PostedBy:    opp.PostedBy,
		PosterName:  posterName,
		CreatedAt:   opp.CreatedAt,
	}
}

func (h *Handler) buildMatchResponses(c *gin.Context, matches []models.Match) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		resp := MatchResponse{
			ID:             m.ID,
			OpportunityID:  m.OpportunityID,
			UserID:         m.UserID,
			EmbeddingScore: m.EmbeddingScore,
			NetworkScore:   m.NetworkScore,
			Score:          m.Score,
			Explanation:    m.Explanation,
			Rank:           m.Rank,
		}
		if user, err := h.users.Get(c.Request.Context(), m.UserID); err == nil {
			resp.UserName = user.Name
			resp.UserBio = user.Bio
			resp.UserSkills = user.Skills
		}
		out = append(out, resp)
	}
	return out
}

// ListOpportunities godoc
// @Summary      List opportunities
// @Tags         opportunities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   OpportunityResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /opportunities [get]
func (h *Handler) ListOpportunities(c *gin.Context) {
	opps, err := h.opportunities.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]OpportunityResponse, 0, len(opps))
	for _, o := range opps {
		out = append(out, h.buildOpportunityResponse(c, o))
	}
	c.JSON(http.StatusOK, out)
}

// GetOpportunityByID godoc
// @Summary      Get an opportunity with its matches
// @Tags         opportunities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Opportunity ID"
// @Success      200  {object}  OpportunityDetailResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /opportunities/{id} [get]
func (h *Handler) GetOpportunityByID(c *gin.Context) {
	opp, err := h.opportunities.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	matches, err := h.matching.Matches(c.Request.Context(), opp.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OpportunityDetailResponse{
		Opportunity: h.buildOpportunityResponse(c, *opp),
		Matches:     h.buildMatchResponses(c, matches),
	})
}

// CreateOpportunity godoc
// @Summary      Post an opportunity
// @Description  Creates an opportunity and immediately computes its ranked match snapshot.
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body OpportunityInput true "Opportunity"
// @Success      201  {object}  OpportunityDetailResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /opportunities [post]
func (h *Handler) CreateOpportunity(c *gin.Context) {
	var input OpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opp, matches, err := h.opportunities.Create(c.Request.Context(),
		input.Type, input.Title, input.Description, actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, OpportunityDetailResponse{
		Opportunity: h.buildOpportunityResponse(c, *opp),
		Matches:     h.buildMatchResponses(c, matches),
	})
}
