package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"serendip/backend/internal/models"

	"go.uber.org/zap"
)

// NetworkMember is a user seen through someone else's network.
type NetworkMember struct {
	User models.User
	// ConnectionCount is the member's own number of direct connections.
	ConnectionCount int
	// Degree is 1 for direct connections, 2 for friend-of-friend.
	Degree int
	// Source is how a first-degree edge was created; empty for second degree.
	Source models.ConnectionSource
	// SharedConnections names the first-degree members that bridge to a
	// second-degree member, ordered by first encounter; empty for first degree.
	SharedConnections []string
}

// LayeredNetwork is a user's network split by degree of separation.
type LayeredNetwork struct {
	FirstDegree     []NetworkMember
	SecondDegree    []NetworkMember
	PendingIncoming int
}

// SearchResult is one hit from a people search, tagged with the searcher's
// network distance to it.
type SearchResult struct {
	User              models.User
	ConnectionCount   int
	Degree            string // "1st", "2nd" or "other"
	SharedConnections []string
}

// GraphService answers degree-of-separation and discovery queries over the
// connection graph. All traversal works on adjacency lookups keyed by user
// id; nothing walks more than two hops from the subject.
type GraphService struct {
	users       UserStore
	connections ConnectionStore
	requests    RequestStore
	log         *zap.Logger
}

// NewGraphService builds a GraphService.
func NewGraphService(users UserStore, connections ConnectionStore, requests RequestStore, log *zap.Logger) *GraphService {
	return &GraphService{
		users:       users,
		connections: connections,
		requests:    requests,
		log:         log.Named("graph"),
	}
}

// neighborhood is the two-hop view around one user: the ordered first-degree
// ids with their edge sources, and for each second-degree id the names of the
// first-degree members bridging to it (deduplicated, first-encounter order).
type neighborhood struct {
	firstIDs    []string
	firstSource map[string]models.ConnectionSource
	secondIDs   []string
	bridges     map[string][]string
}

func (n neighborhood) isFirst(id string) bool {
	_, ok := n.firstSource[id]
	return ok
}

// expand computes the neighborhood of userID in O(|first| * avg_degree):
// one read for the user's own edges and one batched read for the frontier.
func (s *GraphService) expand(ctx context.Context, userID string) (neighborhood, error) {
	n := neighborhood{
		firstSource: make(map[string]models.ConnectionSource),
		bridges:     make(map[string][]string),
	}

	own, err := s.connections.ConnectionsFor(ctx, userID)
	if err != nil {
		return n, fmt.Errorf("loading connections for %s: %w", userID, err)
	}
	for _, c := range own {
		other := c.Other(userID)
		if _, seen := n.firstSource[other]; seen {
			continue
		}
		n.firstSource[other] = c.Source
		n.firstIDs = append(n.firstIDs, other)
	}
	if len(n.firstIDs) == 0 {
		return n, nil
	}

	frontier, err := s.connections.ConnectionsForAll(ctx, n.firstIDs)
	if err != nil {
		return n, fmt.Errorf("loading frontier edges: %w", err)
	}
	// Index frontier edges per first-degree member so the bridge order
	// follows the first-degree order, not the storage order of edges.
	adjacency := make(map[string][]string, len(n.firstIDs))
	for _, c := range frontier {
		if n.isFirst(c.UserA) {
			adjacency[c.UserA] = append(adjacency[c.UserA], c.UserB)
		}
		if n.isFirst(c.UserB) {
			adjacency[c.UserB] = append(adjacency[c.UserB], c.UserA)
		}
	}

	friendNames, err := s.namesByID(ctx, n.firstIDs)
	if err != nil {
		return n, err
	}

	seenSecond := make(map[string]struct{})
	for _, fid := range n.firstIDs {
		for _, other := range adjacency[fid] {
			if other == userID || n.isFirst(other) {
				continue
			}
			if _, seen := seenSecond[other]; !seen {
				seenSecond[other] = struct{}{}
				n.secondIDs = append(n.secondIDs, other)
			}
			name := friendNames[fid]
			if name != "" && !contains(n.bridges[other], name) {
				n.bridges[other] = append(n.bridges[other], name)
			}
		}
	}
	return n, nil
}

// LayeredNetwork returns userID's network split into first and second degree,
// plus the number of pending incoming connection requests. The user itself is
// never listed, and no user appears in both layers.
func (s *GraphService) LayeredNetwork(ctx context.Context, userID string) (LayeredNetwork, error) {
	n, err := s.expand(ctx, userID)
	if err != nil {
		return LayeredNetwork{}, err
	}

	memberIDs := append(append([]string{}, n.firstIDs...), n.secondIDs...)
	users, err := s.usersByID(ctx, memberIDs)
	if err != nil {
		return LayeredNetwork{}, err
	}
	counts, err := s.connectionCounts(ctx, memberIDs)
	if err != nil {
		return LayeredNetwork{}, err
	}

	out := LayeredNetwork{}
	for _, id := range n.firstIDs {
		u, ok := users[id]
		if !ok {
			continue
		}
		out.FirstDegree = append(out.FirstDegree, NetworkMember{
			User:            u,
			ConnectionCount: counts[id],
			Degree:          1,
			Source:          n.firstSource[id],
		})
	}
	for _, id := range n.secondIDs {
		u, ok := users[id]
		if !ok {
			continue
		}
		out.SecondDegree = append(out.SecondDegree, NetworkMember{
			User:              u,
			ConnectionCount:   counts[id],
			Degree:            2,
			SharedConnections: n.bridges[id],
		})
	}

	pending, err := s.requests.PendingIncoming(ctx, userID)
	if err != nil {
		return LayeredNetwork{}, fmt.Errorf("counting pending requests: %w", err)
	}
	out.PendingIncoming = len(pending)
	return out, nil
}

// Search finds users other than the actor whose name, skills, interests or
// bio contain q (case-insensitive), tagged with the actor's network distance.
// Ordering is deterministic: text relevance first, then degree (1st > 2nd >
// other), then name, then id.
func (s *GraphService) Search(ctx context.Context, actorID, q string) ([]SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrValidation)
	}

	hits, err := s.users.SearchUsers(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	n, err := s.expand(ctx, actorID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(hits))
	for _, u := range hits {
		if u.ID != actorID {
			ids = append(ids, u.ID)
		}
	}
	counts, err := s.connectionCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, u := range hits {
		if u.ID == actorID {
			continue
		}
		r := SearchResult{User: u, ConnectionCount: counts[u.ID], Degree: "other"}
		if n.isFirst(u.ID) {
			r.Degree = "1st"
		} else if shared, ok := n.bridges[u.ID]; ok {
			r.Degree = "2nd"
			r.SharedConnections = shared
		}
		results = append(results, r)
	}

	lowered := strings.ToLower(q)
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := relevance(results[i].User, lowered), relevance(results[j].User, lowered)
		if ri != rj {
			return ri > rj
		}
		if di, dj := degreeRank(results[i].Degree), degreeRank(results[j].Degree); di != dj {
			return di < dj
		}
		if results[i].User.Name != results[j].User.Name {
			return results[i].User.Name < results[j].User.Name
		}
		return results[i].User.ID < results[j].User.ID
	})
	return results, nil
}

// relevance counts which profile fields contain the lowered query. Simple,
// but stable across runs, which is what the ordering contract needs.
func relevance(u models.User, lowered string) int {
	score := 0
	if strings.Contains(strings.ToLower(u.Name), lowered) {
		score++
	}
	if containsFold(u.Skills, lowered) {
		score++
	}
	if containsFold(u.Interests, lowered) {
		score++
	}
	if strings.Contains(strings.ToLower(u.Bio), lowered) {
		score++
	}
	return score
}

func degreeRank(degree string) int {
	switch degree {
	case "1st":
		return 0
	case "2nd":
		return 1
	default:
		return 2
	}
}

func containsFold(set models.StringSet, lowered string) bool {
	for _, v := range set {
		if strings.Contains(strings.ToLower(v), lowered) {
			return true
		}
	}
	return false
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

func (s *GraphService) usersByID(ctx context.Context, ids []string) (map[string]models.User, error) {
	users, err := s.users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func (s *GraphService) namesByID(ctx context.Context, ids []string) (map[string]string, error) {
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for id, u := range users {
		names[id] = u.Name
	}
	return names, nil
}

func (s *GraphService) connectionCounts(ctx context.Context, ids []string) (map[string]int, error) {
	if len(ids) == 0 {
		return map[string]int{}, nil
	}
	edges, err := s.connections.ConnectionsForAll(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("counting connections: %w", err)
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	counts := make(map[string]int, len(ids))
	for _, e := range edges {
		if _, ok := wanted[e.UserA]; ok {
			counts[e.UserA]++
		}
		if _, ok := wanted[e.UserB]; ok {
			counts[e.UserB]++
		}
	}
	return counts, nil
}
