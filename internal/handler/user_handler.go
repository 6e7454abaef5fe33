package handler

import (
	"net/http"

	"serendip/backend/internal/models"
	"serendip/backend/internal/service"
	"serendip/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Name      string   `json:"name" binding:"required" example:"Ada Lovelace"`
	Email     string   `json:"email" binding:"required,email" example:"ada@example.com"`
	Password  string   `json:"password" binding:"required,min=8" example:"password123"`
	Bio       string   `json:"bio" example:"Engineer and analyst"`
	Skills    []string `json:"skills" example:"design,figma"`
	Interests []string `json:"interests" example:"chess,music"`
	OpenTo    []string `json:"open_to" example:"project,collab"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UserResponse defines the structure for a user's public profile.
type UserResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Bio             string   `json:"bio"`
	Skills          []string `json:"skills"`
	Interests       []string `json:"interests"`
	OpenTo          []string `json:"open_to"`
	ConnectionCount int      `json:"connection_count"`
}

// NetworkMemberResponse is one member of a layered network view.
type NetworkMemberResponse struct {
	User              UserResponse `json:"user"`
	Degree            int          `json:"degree"`
	ConnectionSource  string       `json:"connection_source,omitempty"`
	SharedConnections []string     `json:"shared_connections,omitempty"`
}

// LayeredNetworkResponse is the first/second degree split of a network.
type LayeredNetworkResponse struct {
	FirstDegree     []NetworkMemberResponse `json:"first_degree"`
	SecondDegree    []NetworkMemberResponse `json:"second_degree"`
	PendingIncoming int                     `json:"pending_incoming"`
}

// SearchResultResponse is one people-search hit.
type SearchResultResponse struct {
	User              UserResponse `json:"user"`
	Degree            string       `json:"degree"`
	SharedConnections []string     `json:"shared_connections,omitempty"`
}

// ImpressionResponse is the aggregated reputation view of a user.
type ImpressionResponse struct {
	Summary       string            `json:"summary"`
	ByContext     map[string]string `json:"by_context"`
	FeedbackCount int               `json:"feedback_count"`
}

func buildUserResponse(u models.User, connectionCount int) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Bio:             u.Bio,
		Skills:          u.Skills,
		Interests:       u.Interests,
		OpenTo:          u.OpenTo,
		ConnectionCount: connectionCount,
	}
}

func buildMemberResponse(m service.NetworkMember) NetworkMemberResponse {
	return NetworkMemberResponse{
		User:              buildUserResponse(m.User, m.ConnectionCount),
		Degree:            m.Degree,
		ConnectionSource:  string(m.Source),
		SharedConnections: m.SharedConnections,
	}
}

// endregion

// region --- Auth Handlers ---

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user profile and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Bio:          input.Bio,
		Skills:       input.Skills,
		Interests:    input.Interests,
		OpenTo:       input.OpenTo,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.respondError(c, err)
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": buildUserResponse(*user, 0)})
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a user with email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// region --- User Handlers ---

// ListUsers godoc
// @Summary      List users
// @Description  Returns all user profiles with derived connection counts.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		count, err := h.users.ConnectionCount(c.Request.Context(), u.ID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		out = append(out, buildUserResponse(u, count))
	}
	c.JSON(http.StatusOK, out)
}

// GetMe godoc
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	h.respondUser(c, actorID(c))
}

// GetUserByID godoc
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUserByID(c *gin.Context) {
	h.respondUser(c, c.Param("id"))
}

func (h *Handler) respondUser(c *gin.Context, id string) {
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	count, err := h.users.ConnectionCount(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildUserResponse(*user, count))
}

// SearchUsers godoc
// @Summary      Search people
// @Description  Free-text search over name, skills, interests and bio, tagged with network degree.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search query"
// @Success      200  {array}   SearchResultResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /users/search [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	results, err := h.graph.Search(c.Request.Context(), actorID(c), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]SearchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResultResponse{
			User:              buildUserResponse(r.User, r.ConnectionCount),
			Degree:            r.Degree,
			SharedConnections: r.SharedConnections,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetMyNetwork godoc
// @Summary      Get own layered network
// @Description  First and second degree connections plus pending incoming request count.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  LayeredNetworkResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/network [get]
func (h *Handler) GetMyNetwork(c *gin.Context) {
	h.respondNetwork(c, actorID(c))
}

// GetUserNetwork godoc
// @Summary      Get a user's layered network
// @Description  First and second degree connections of the given user, plus their pending incoming request count.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  LayeredNetworkResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/network [get]
func (h *Handler) GetUserNetwork(c *gin.Context) {
	userID := c.Param("id")
	if _, err := h.users.Get(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondNetwork(c, userID)
}

func (h *Handler) respondNetwork(c *gin.Context, userID string) {
	network, err := h.graph.LayeredNetwork(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := LayeredNetworkResponse{
		FirstDegree:     make([]NetworkMemberResponse, 0, len(network.FirstDegree)),
		SecondDegree:    make([]NetworkMemberResponse, 0, len(network.SecondDegree)),
		PendingIncoming: network.PendingIncoming,
	}
	for _, m := range network.FirstDegree {
		out.FirstDegree = append(out.FirstDegree, buildMemberResponse(m))
	}
	for _, m := range network.SecondDegree {
		out.SecondDegree = append(out.SecondDegree, buildMemberResponse(m))
	}
	c.JSON(http.StatusOK, out)
}

// GetImpression godoc
// @Summary      Get a user's impression
// @Description  Aggregated anonymous feedback summary. feedback_count 0 means "no feedback yet".
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  ImpressionResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/impression [get]
func (h *Handler) GetImpression(c *gin.Context) {
	userID := c.Param("id")
	if _, err := h.users.Get(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}
	imp, err := h.feedback.Impression(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImpressionResponse{
		Summary:       imp.Summary,
		ByContext:     imp.ByContext,
		FeedbackCount: imp.FeedbackCount,
	})
}

// endregion
