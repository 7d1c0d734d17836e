// Package session holds the live idea graph being edited and notifies
// subscribers of every mutation.
package session

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"ideagraph/internal/application"
	"ideagraph/internal/domain"
)

// EventKind identifies the mutation that produced an Event
type EventKind int

const (
	NodeAdded EventKind = iota
	NodeMoved
	NodeEdited
	NodeDeleted
	EdgeConnected
	EdgeDeleted
	GraphLoaded
)

// String returns a human-readable representation of the event kind
func (k EventKind) String() string {
	switch k {
	case NodeAdded:
		return "node-added"
	case NodeMoved:
		return "node-moved"
	case NodeEdited:
		return "node-edited"
	case NodeDeleted:
		return "node-deleted"
	case EdgeConnected:
		return "edge-connected"
	case EdgeDeleted:
		return "edge-deleted"
	case GraphLoaded:
		return "graph-loaded"
	default:
		return "unknown"
	}
}

// Event describes one mutation of the session
type Event struct {
	Kind   EventKind
	NodeID string
	EdgeID string
}

// Listener receives mutation events
type Listener func(Event)

// Session owns the live node and edge collections
type Session struct {
	mu        sync.RWMutex
	nodes     []domain.Node
	edges     []domain.Edge
	title     string // Title of the snapshot last loaded, if any
	listeners map[int]Listener
	nextID    int
	newID     func() string
}

// New creates an empty session
func New() *Session {
	return &Session{
		listeners: make(map[int]Listener),
		newID:     uuid.NewString,
	}
}

// Subscribe registers fn for every future event. The returned function
// removes the subscription.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// emit delivers ev to listeners. Must be called without holding mu.
func (s *Session) emit(ev Event) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Nodes returns a copy of the current nodes
func (s *Session) Nodes() []domain.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.nodes)
}

// Edges returns a copy of the current edges
func (s *Session) Edges() []domain.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.edges)
}

// Graph returns copies of nodes and edges taken under one lock
func (s *Session) Graph() ([]domain.Node, []domain.Edge) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.nodes), slices.Clone(s.edges)
}

// IsEmpty reports whether the session has no nodes
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes) == 0
}

// Title returns the title of the last loaded snapshot
func (s *Session) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// Node returns the node with the given ID
func (s *Session) Node(id string) (domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.nodeIndex(id)
	if i < 0 {
		return domain.Node{}, fmt.Errorf("node %s: %w", id, application.ErrNotFound)
	}
	return s.nodes[i], nil
}

// AddNode creates a node at pos with label
func (s *Session) AddNode(pos domain.Position, label string) domain.Node {
	s.mu.Lock()
	node := domain.Node{ID: s.newID(), Position: pos, Label: label}
	s.nodes = append(s.nodes, node)
	s.mu.Unlock()

	s.emit(Event{Kind: NodeAdded, NodeID: node.ID})
	return node
}

// MoveNode sets the position of a node
func (s *Session) MoveNode(id string, pos domain.Position) error {
	s.mu.Lock()
	i := s.nodeIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("node %s: %w", id, application.ErrNotFound)
	}
	s.nodes[i].Position = pos
	s.mu.Unlock()

	s.emit(Event{Kind: NodeMoved, NodeID: id})
	return nil
}

// EditNode replaces the label of a node
func (s *Session) EditNode(id, label string) error {
	s.mu.Lock()
	i := s.nodeIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("node %s: %w", id, application.ErrNotFound)
	}
	s.nodes[i].Label = label
	s.mu.Unlock()

	s.emit(Event{Kind: NodeEdited, NodeID: id})
	return nil
}

// DeleteNode removes a node and every edge touching it. It returns the
// number of edges removed.
func (s *Session) DeleteNode(id string) (int, error) {
	s.mu.Lock()
	i := s.nodeIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return 0, fmt.Errorf("node %s: %w", id, application.ErrNotFound)
	}
	s.nodes = slices.Delete(s.nodes, i, i+1)

	before := len(s.edges)
	s.edges = slices.DeleteFunc(s.edges, func(e domain.Edge) bool {
		return e.Touches(id)
	})
	removed := before - len(s.edges)
	s.mu.Unlock()

	s.emit(Event{Kind: NodeDeleted, NodeID: id})
	return removed, nil
}

// Connect adds an edge from source to target. Both nodes must exist, and
// self-loops and duplicate edges are rejected.
func (s *Session) Connect(source, target string) (domain.Edge, error) {
	s.mu.Lock()
	if err := s.checkConnect(source, target); err != nil {
		s.mu.Unlock()
		return domain.Edge{}, err
	}
	edge := domain.Edge{ID: s.newID(), Source: source, Target: target}
	s.edges = append(s.edges, edge)
	s.mu.Unlock()

	s.emit(Event{Kind: EdgeConnected, EdgeID: edge.ID})
	return edge, nil
}

func (s *Session) checkConnect(source, target string) error {
	if source == target {
		return &application.ConnectError{Source: source, Target: target, Reason: "an idea cannot connect to itself"}
	}
	if s.nodeIndex(source) < 0 {
		return &application.ConnectError{Source: source, Target: target, Reason: "source not found"}
	}
	if s.nodeIndex(target) < 0 {
		return &application.ConnectError{Source: source, Target: target, Reason: "target not found"}
	}
	for _, e := range s.edges {
		if e.Source == source && e.Target == target {
			return &application.ConnectError{Source: source, Target: target, Reason: "already connected"}
		}
	}
	return nil
}

// Disconnect removes an edge by ID
func (s *Session) Disconnect(edgeID string) error {
	s.mu.Lock()
	i := slices.IndexFunc(s.edges, func(e domain.Edge) bool { return e.ID == edgeID })
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("edge %s: %w", edgeID, application.ErrNotFound)
	}
	s.edges = slices.Delete(s.edges, i, i+1)
	s.mu.Unlock()

	s.emit(Event{Kind: EdgeDeleted, EdgeID: edgeID})
	return nil
}

// Load replaces the whole graph, typically with a stored snapshot. It
// returns the integrity warnings for the loaded graph; dangling edges are
// kept.
func (s *Session) Load(title string, nodes []domain.Node, edges []domain.Edge) []domain.IntegrityWarning {
	s.mu.Lock()
	s.nodes = slices.Clone(nodes)
	s.edges = slices.Clone(edges)
	s.title = title
	warnings := domain.CheckIntegrity(s.nodes, s.edges)
	s.mu.Unlock()

	s.emit(Event{Kind: GraphLoaded})
	return warnings
}

// Clear empties the graph
func (s *Session) Clear() {
	s.Load("", nil, nil)
}

// SetTitle records the title the graph was last saved under
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

// nodeIndex returns the position of id in nodes, or -1. Callers must hold mu.
func (s *Session) nodeIndex(id string) int {
	return slices.IndexFunc(s.nodes, func(n domain.Node) bool { return n.ID == id })
}
