package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"serendip/backend/internal/models"
	"serendip/backend/internal/service"
)

// Memory is an in-memory implementation of the storage contracts used for
// unit testing the engine and for running the server without a database.
// One mutex covers everything, which gives the same per-entity atomicity the
// SQL implementation gets from its constraints and transactions.
type Memory struct {
	mu            sync.Mutex
	users         []models.User
	connections   []models.Connection
	connKeys      map[string]struct{}
	opportunities []models.Opportunity
	matches       map[string][]models.Match
	requests      []models.ConnectionRequest
	pendingKeys   map[string]struct{}
	feedback      []models.Feedback
	feedbackKeys  map[string]struct{}
}

// NewMemory builds an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		connKeys:     make(map[string]struct{}),
		matches:      make(map[string][]models.Match),
		pendingKeys:  make(map[string]struct{}),
		feedbackKeys: make(map[string]struct{}),
	}
}

// --- UserStore ---

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email already registered", service.ErrValidation)
		}
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *Memory) UserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) UsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if _, ok := wanted[u.ID]; ok {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User(nil), m.users...), nil
}

func (m *Memory) SearchUsers(_ context.Context, q string) ([]models.User, error) {
	lowered := strings.ToLower(q)
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Name), lowered) ||
			strings.Contains(strings.ToLower(u.Bio), lowered) ||
			setContains(u.Skills, lowered) ||
			setContains(u.Interests, lowered) {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

func setContains(set models.StringSet, lowered string) bool {
	for _, v := range set {
		if strings.Contains(strings.ToLower(v), lowered) {
			return true
		}
	}
	return false
}

func sortUsers(users []models.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
}

// --- ConnectionStore ---

func (m *Memory) InsertConnection(_ context.Context, conn models.Connection) error {
	conn.UserA, conn.UserB = models.NormalizePair(conn.UserA, conn.UserB)
	key := conn.UserA + ":" + conn.UserB
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.connKeys[key]; exists {
		return nil
	}
	m.connKeys[key] = struct{}{}
	m.connections = append(m.connections, conn)
	return nil
}

func (m *Memory) ConnectionsFor(_ context.Context, userID string) ([]models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Connection
	for _, c := range m.connections {
		if c.UserA == userID || c.UserB == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) ConnectionsForAll(_ context.Context, userIDs []string) ([]models.Connection, error) {
	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Connection
	for _, c := range m.connections {
		_, a := wanted[c.UserA]
		_, b := wanted[c.UserB]
		if a || b {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- OpportunityStore ---

func (m *Memory) CreateOpportunity(_ context.Context, opp *models.Opportunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opportunities = append(m.opportunities, *opp)
	return nil
}

func (m *Memory) OpportunityByID(_ context.Context, id string) (*models.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.opportunities {
		if o.ID == id {
			out := o
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListOpportunities(_ context.Context) ([]models.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Opportunity(nil), m.opportunities...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// --- MatchStore ---

func (m *Memory) ReplaceMatches(_ context.Context, opportunityID string, matches []models.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[opportunityID] = append([]models.Match(nil), matches...)
	return nil
}

func (m *Memory) MatchesByOpportunity(_ context.Context, opportunityID string) ([]models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Match(nil), m.matches[opportunityID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

// --- RequestStore ---

func (m *Memory) InsertRequest(_ context.Context, req *models.ConnectionRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.PendingKey != nil {
		if _, exists := m.pendingKeys[*req.PendingKey]; exists {
			return fmt.Errorf("%w: a pending request for this user and opportunity already exists",
				service.ErrDuplicateRequest)
		}
		m.pendingKeys[*req.PendingKey] = struct{}{}
	}
	m.requests = append(m.requests, *req)
	return nil
}

func (m *Memory) RequestByID(_ context.Context, id string) (*models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) ResolveRequest(_ context.Context, id string, status models.RequestStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.requests {
		if m.requests[i].ID != id {
			continue
		}
		if m.requests[i].Status != models.StatusPending {
			return false, nil
		}
		if key := m.requests[i].PendingKey; key != nil {
			delete(m.pendingKeys, *key)
		}
		m.requests[i].Status = status
		m.requests[i].PendingKey = nil
		return true, nil
	}
	return false, nil
}

func (m *Memory) PendingRequestExists(_ context.Context, fromID, toID, opportunityID string) (bool, error) {
	key := models.RequestPendingKey(fromID, toID, opportunityID)
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.pendingKeys[key]
	return exists, nil
}

func (m *Memory) PendingIncoming(_ context.Context, userID string) ([]models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ConnectionRequest
	for i := len(m.requests) - 1; i >= 0; i-- {
		r := m.requests[i]
		if r.ToUserID == userID && r.Status == models.StatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) Outgoing(_ context.Context, userID string) ([]models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ConnectionRequest
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].FromUserID == userID {
			out = append(out, m.requests[i])
		}
	}
	return out, nil
}

func (m *Memory) RequestsByOpportunity(_ context.Context, opportunityID string) ([]models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ConnectionRequest
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].OpportunityID == opportunityID {
			out = append(out, m.requests[i])
		}
	}
	return out, nil
}

func (m *Memory) AcceptedBetween(_ context.Context, userA, userB string) ([]models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ConnectionRequest
	for _, r := range m.requests {
		if r.Status != models.StatusAccepted {
			continue
		}
		if (r.FromUserID == userA && r.ToUserID == userB) ||
			(r.FromUserID == userB && r.ToUserID == userA) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) AcceptedForOpportunity(_ context.Context, opportunityID string) ([]models.ConnectionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ConnectionRequest
	for _, r := range m.requests {
		if r.OpportunityID == opportunityID && r.Status == models.StatusAccepted {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- FeedbackStore ---

func (m *Memory) InsertFeedback(_ context.Context, fb *models.Feedback) error {
	key := fb.InteractionID + ":" + fb.ToUserID
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.feedbackKeys[key]; exists {
		return fmt.Errorf("%w: feedback for this interaction was already submitted",
			service.ErrNotEligible)
	}
	m.feedbackKeys[key] = struct{}{}
	m.feedback = append(m.feedback, *fb)
	return nil
}

func (m *Memory) FeedbackFor(_ context.Context, toUserID string) ([]models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Feedback
	for i := len(m.feedback) - 1; i >= 0; i-- {
		if m.feedback[i].ToUserID == toUserID {
			out = append(out, m.feedback[i])
		}
	}
	return out, nil
}

func (m *Memory) FeedbackExists(_ context.Context, interactionID, toUserID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.feedbackKeys[interactionID+":"+toUserID]
	return exists, nil
}
