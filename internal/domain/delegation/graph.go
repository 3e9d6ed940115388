// Package delegation holds the mutable delegation graph between members.
//
// The graph keeps a forward edge per member and a reverse index of
// constituents, and updates both inside one critical section. It does not
// reject cycles; those are resolved as abstentions by the resolver.
package delegation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/pithos-gov/pithos/internal/domain"
)

// Edge is one member's outgoing delegation
type Edge struct {
	To   domain.MemberID
	Type domain.DelegationType
}

type node struct {
	acceptsDelegates bool
	edge             *Edge
	constituents     map[domain.MemberID]struct{}
}

// Graph is the concurrency-safe delegation graph
type Graph struct {
	mu             sync.RWMutex
	nodes          map[domain.MemberID]*node
	defaultAccepts bool
}

// NewGraph creates an empty graph. Members added implicitly get
// acceptsDelegates = defaultAccepts.
func NewGraph(defaultAccepts bool) *Graph {
	return &Graph{
		nodes:          make(map[domain.MemberID]*node),
		defaultAccepts: defaultAccepts,
	}
}

// Load replaces the graph contents with the given members
func (g *Graph) Load(members []domain.Member) error {
	for _, m := range members {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = make(map[domain.MemberID]*node, len(members))
	for _, m := range members {
		n := g.ensure(m.ID)
		n.acceptsDelegates = m.AcceptsDelegates
	}
	for _, m := range members {
		if m.Delegate != nil {
			g.link(m.ID, Edge{To: *m.Delegate, Type: m.DelegationType})
		}
	}
	return nil
}

// AddMember registers a member if unknown. It returns the member and
// whether it was newly created.
func (g *Graph) AddMember(id domain.MemberID) (domain.Member, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, exists := g.nodes[id]
	g.ensure(id)
	return g.member(id), !exists
}

// Member returns the member record for id
func (g *Graph) Member(id domain.MemberID) (domain.Member, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[id]; !ok {
		return domain.Member{}, false
	}
	return g.member(id), true
}

// Members returns all members sorted by id
func (g *Graph) Members() []domain.Member {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := sortedIDs(lo.Keys(g.nodes))
	return lo.Map(ids, func(id domain.MemberID, _ int) domain.Member {
		return g.member(id)
	})
}

// Delegate returns the outgoing edge of a member
func (g *Graph) Delegate(id domain.MemberID) (Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok || n.edge == nil {
		return Edge{}, false
	}
	return *n.edge, true
}

// Constituents returns the members delegating directly to id, sorted
func (g *Graph) Constituents(id domain.MemberID) []domain.MemberID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return sortedIDs(lo.Keys(n.constituents))
}

// SetDelegate points member at delegate. Both ends are registered if
// unknown. The member leaves its former delegate's constituents and joins
// the new delegate's in the same critical section.
func (g *Graph) SetDelegate(member, delegate domain.MemberID, t domain.DelegationType) (domain.Member, error) {
	candidate := domain.Member{ID: member, Delegate: &delegate, DelegationType: t}
	if err := candidate.Validate(); err != nil {
		return domain.Member{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensure(member)
	g.ensure(delegate)
	g.unlink(member)
	g.link(member, Edge{To: delegate, Type: t})
	return g.member(member), nil
}

// ClearDelegate removes the member's delegation. It reports whether the
// member had one.
func (g *Graph) ClearDelegate(member domain.MemberID) (domain.Member, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.ensure(member)
	had := n.edge != nil
	g.unlink(member)
	return g.member(member), had
}

// SetAcceptsDelegates toggles whether others may delegate to the member
func (g *Graph) SetAcceptsDelegates(member domain.MemberID, accepts bool) domain.Member {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensure(member).acceptsDelegates = accepts
	return g.member(member)
}

// Restore puts a member record back exactly as given. Used to roll back
// an edit that could not be persisted.
func (g *Graph) Restore(m domain.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensure(m.ID).acceptsDelegates = m.AcceptsDelegates
	g.unlink(m.ID)
	if m.Delegate != nil {
		g.ensure(*m.Delegate)
		g.link(m.ID, Edge{To: *m.Delegate, Type: m.DelegationType})
	}
	return nil
}

// Snapshot returns an immutable copy of the edges for a resolution pass
func (g *Graph) Snapshot() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := &Snapshot{
		edges:   make(map[domain.MemberID]Edge, len(g.nodes)),
		members: sortedIDs(lo.Keys(g.nodes)),
	}
	for id, n := range g.nodes {
		if n.edge != nil {
			s.edges[id] = *n.edge
		}
	}
	return s
}

// ensure must be called with mu held
func (g *Graph) ensure(id domain.MemberID) *node {
	n, ok := g.nodes[id]
	if !ok {
		n = &node{
			acceptsDelegates: g.defaultAccepts,
			constituents:     make(map[domain.MemberID]struct{}),
		}
		g.nodes[id] = n
	}
	return n
}

// link must be called with mu held and the member unlinked
func (g *Graph) link(member domain.MemberID, e Edge) {
	g.ensure(member).edge = &e
	g.ensure(e.To).constituents[member] = struct{}{}
}

// unlink must be called with mu held
func (g *Graph) unlink(member domain.MemberID) {
	n, ok := g.nodes[member]
	if !ok || n.edge == nil {
		return
	}
	if prev, ok := g.nodes[n.edge.To]; ok {
		delete(prev.constituents, member)
	}
	n.edge = nil
}

// member must be called with mu held and id present
func (g *Graph) member(id domain.MemberID) domain.Member {
	n := g.nodes[id]
	m := domain.Member{ID: id, AcceptsDelegates: n.acceptsDelegates}
	if n.edge != nil {
		to := n.edge.To
		m.Delegate = &to
		m.DelegationType = n.edge.Type
	}
	return m
}

func sortedIDs(ids []domain.MemberID) []domain.MemberID {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Snapshot is a read-only view of the graph's edges
type Snapshot struct {
	edges   map[domain.MemberID]Edge
	members []domain.MemberID
}

// NewSnapshot builds a snapshot directly from edges, mostly for tests and
// offline tallies.
func NewSnapshot(edges map[domain.MemberID]Edge) (*Snapshot, error) {
	seen := make(map[domain.MemberID]struct{})
	copied := make(map[domain.MemberID]Edge, len(edges))
	for from, e := range edges {
		if from == e.To {
			return nil, fmt.Errorf("%w: %s cannot delegate to themselves", domain.ErrInvalidDelegation, from)
		}
		copied[from] = e
		seen[from] = struct{}{}
		seen[e.To] = struct{}{}
	}
	return &Snapshot{edges: copied, members: sortedIDs(lo.Keys(seen))}, nil
}

// Delegate returns the edge leaving id
func (s *Snapshot) Delegate(id domain.MemberID) (Edge, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// Members returns every member known when the snapshot was taken, sorted
func (s *Snapshot) Members() []domain.MemberID {
	return s.members
}
