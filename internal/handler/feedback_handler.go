package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// FeedbackInput defines the structure for submitting feedback.
type FeedbackInput struct {
	ToUserID        string `json:"to_user_id" binding:"required"`
	OpportunityType string `json:"opportunity_type" binding:"required" example:"project"`
	Text            string `json:"text" binding:"required"`
}

// FeedbackResponse acknowledges a stored feedback entry. It never carries the
// submitter's identity.
type FeedbackResponse struct {
	ID              string    `json:"id"`
	ToUserID        string    `json:"to_user_id"`
	OpportunityType string    `json:"opportunity_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// ExperienceResponse is one interaction still open for feedback.
type ExperienceResponse struct {
	InteractionID    string `json:"interaction_id"`
	OpportunityID    string `json:"opportunity_id"`
	OpportunityType  string `json:"opportunity_type"`
	OpportunityTitle string `json:"opportunity_title"`
}

// ExperiencesResponse wraps the open-interactions list.
type ExperiencesResponse struct {
	Experiences []ExperienceResponse `json:"experiences"`
}

// endregion

// GetExperiences godoc
// @Summary      List interactions eligible for feedback
// @Description  Completed interactions between the caller and the target that have no feedback from the caller yet.
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Target User ID"
// @Success      200  {object}  ExperiencesResponse
// @Router       /feedback/experiences/{id} [get]
func (h *Handler) GetExperiences(c *gin.Context) {
	experiences, err := h.feedback.ListExperiences(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := ExperiencesResponse{Experiences: make([]ExperienceResponse, 0, len(experiences))}
	for _, e := range experiences {
		out.Experiences = append(out.Experiences, ExperienceResponse{
			InteractionID:    e.InteractionID,
			OpportunityID:    e.OpportunityID,
			OpportunityType:  string(e.OpportunityType),
			OpportunityTitle: e.OpportunityTitle,
		})
	}
	c.JSON(http.StatusOK, out)
}

// CanLeaveFeedback godoc
// @Summary      Check whether the caller may leave feedback for a user
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Target User ID"
// @Success      200  {object}  map[string]bool "{"allowed": true}"
// @Router       /feedback/can-leave/{id} [get]
func (h *Handler) CanLeaveFeedback(c *gin.Context) {
	allowed, err := h.feedback.CanLeave(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": allowed})
}

// CreateFeedback godoc
// @Summary      Submit anonymous feedback
// @Description  Requires a completed interaction in the given context that the caller has not reviewed yet.
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FeedbackInput true "Feedback"
// @Success      201  {object}  FeedbackResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "No eligible interaction"
// @Router       /feedback [post]
func (h *Handler) CreateFeedback(c *gin.Context) {
	var input FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb, err := h.feedback.Submit(c.Request.Context(), actorID(c),
		input.ToUserID, input.OpportunityType, input.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, FeedbackResponse{
		ID:              fb.ID,
		ToUserID:        fb.ToUserID,
		OpportunityType: string(fb.OpportunityType),
		CreatedAt:       fb.CreatedAt,
	})
}
