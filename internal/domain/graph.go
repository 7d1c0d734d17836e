package domain

import (
	"encoding/json"
	"fmt"
)

// Position is a 2-D canvas coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset returns the position shifted by dx, dy
func (p Position) Offset(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Node is a single idea on the canvas. Only the identifier, position and
// label are durable.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Label    string   `json:"label"`
}

// Edge connects two nodes by identifier
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Touches reports whether the edge has nodeID as either endpoint
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// IntegrityWarning describes an edge whose endpoints do not resolve
type IntegrityWarning struct {
	EdgeID  string
	Missing string // Node ID that could not be found
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("edge %s references missing node %s", w.EdgeID, w.Missing)
}

// CheckIntegrity returns one warning per dangling edge endpoint.
// Dangling edges are tolerated; callers decide whether to surface them.
func CheckIntegrity(nodes []Node, edges []Edge) []IntegrityWarning {
	_, warnings := DropDangling(nodes, edges)
	return warnings
}

// DropDangling returns the edges whose endpoints both exist in nodes, in
// order, and one warning per missing endpoint of every edge left out
func DropDangling(nodes []Node, edges []Edge) ([]Edge, []IntegrityWarning) {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}

	kept := make([]Edge, 0, len(edges))
	var warnings []IntegrityWarning
	for _, e := range edges {
		_, hasSource := ids[e.Source]
		_, hasTarget := ids[e.Target]
		if hasSource && hasTarget {
			kept = append(kept, e)
			continue
		}
		if !hasSource {
			warnings = append(warnings, IntegrityWarning{EdgeID: e.ID, Missing: e.Source})
		}
		if !hasTarget {
			warnings = append(warnings, IntegrityWarning{EdgeID: e.ID, Missing: e.Target})
		}
	}
	return kept, warnings
}

// Labels returns the labels of nodes in order, skipping blank ones
func Labels(nodes []Node) []string {
	labels := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Label != "" {
			labels = append(labels, n.Label)
		}
	}
	return labels
}

// Graph is the portable form of a node and edge collection. A serialized
// Snapshot also decodes as a Graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ParseGraph decodes a graph from JSON. Missing collections decode as empty.
func ParseGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("invalid graph: %w", err)
	}
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	return g, nil
}
