package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultTitlePrefix is used to build titles for snapshots saved without one
const DefaultTitlePrefix = "idea set"

// Snapshot is one durable, titled save of the whole graph
type Snapshot struct {
	Title        string    `json:"title"`
	Nodes        []Node    `json:"nodes"`
	Edges        []Edge    `json:"edges"`
	IdeaCount    int       `json:"ideaCount"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`

	StoreIndex int `json:"-"` // Position in store order, set by List
}

// NewSnapshot builds a snapshot stamped at now. Nil slices are normalized so
// the serialized form always carries arrays.
func NewSnapshot(title string, nodes []Node, edges []Edge, now time.Time) Snapshot {
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return Snapshot{
		Title:        title,
		Nodes:        nodes,
		Edges:        edges,
		IdeaCount:    len(nodes),
		CreatedAt:    now,
		LastModified: now,
	}
}

// DefaultTitle returns the title assigned when the caller supplies none.
// count is the number of snapshots currently stored.
func DefaultTitle(count int) string {
	return fmt.Sprintf("%s %d", DefaultTitlePrefix, count+1)
}

// ResolveTitle trims title and falls back to DefaultTitle when it is blank
func ResolveTitle(title string, count int) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return DefaultTitle(count)
}

// IsEmpty reports whether the snapshot holds no ideas
func (s Snapshot) IsEmpty() bool {
	return len(s.Nodes) == 0
}

// Integrity returns the dangling-edge warnings for this snapshot
func (s Snapshot) Integrity() []IntegrityWarning {
	return CheckIntegrity(s.Nodes, s.Edges)
}

// SortByLastModified sorts snapshots newest first. Ties keep store order.
func SortByLastModified(snapshots []Snapshot) {
	slices.SortStableFunc(snapshots, func(a, b Snapshot) int {
		return b.LastModified.Compare(a.LastModified)
	})
}

// IndexOfTitle returns the store-order position of title, or -1
func IndexOfTitle(snapshots []Snapshot, title string) int {
	return slices.IndexFunc(snapshots, func(s Snapshot) bool {
		return s.Title == title
	})
}

// Titles returns the snapshot titles in order
func Titles(snapshots []Snapshot) []string {
	titles := make([]string, len(snapshots))
	for i, s := range snapshots {
		titles[i] = s.Title
	}
	return titles
}
