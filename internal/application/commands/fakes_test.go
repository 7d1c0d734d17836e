package commands

import (
	"context"
	"errors"

	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// memStore is an in-memory SnapshotStore
type memStore struct {
	snapshots []domain.Snapshot
	held      *domain.Snapshot
	err       error
	storage   domain.StorageInfo
}

func (m *memStore) Save(nodes []domain.Node, edges []domain.Edge, title string) (*ports.SaveOutcome, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(nodes) == 0 {
		return &ports.SaveOutcome{Skipped: true, Storage: m.storage}, nil
	}
	title = domain.ResolveTitle(title, len(m.snapshots))
	snap := domain.Snapshot{Title: title, Nodes: nodes, Edges: edges, IdeaCount: len(nodes)}
	if i := domain.IndexOfTitle(m.snapshots, title); i >= 0 {
		m.snapshots[i] = snap
		return &ports.SaveOutcome{Snapshot: snap, Replaced: true, Storage: m.storage}, nil
	}
	m.snapshots = append(m.snapshots, snap)
	return &ports.SaveOutcome{Snapshot: snap, Storage: m.storage}, nil
}

func (m *memStore) List() ([]domain.Snapshot, error) {
	return m.snapshots, m.err
}

func (m *memStore) Get(title string) (*domain.Snapshot, error) {
	if i := domain.IndexOfTitle(m.snapshots, title); i >= 0 {
		s := m.snapshots[i]
		return &s, nil
	}
	return nil, &domain.NotFoundError{What: title}
}

func (m *memStore) DeleteAt(index int) (*domain.Snapshot, error) {
	if index < 0 || index >= len(m.snapshots) {
		return nil, domain.ErrNotFound
	}
	removed := m.snapshots[index]
	m.snapshots = append(m.snapshots[:index], m.snapshots[index+1:]...)
	m.held = &removed
	return &removed, nil
}

func (m *memStore) Delete(title string) (*domain.Snapshot, error) {
	i := domain.IndexOfTitle(m.snapshots, title)
	if i < 0 {
		return nil, &domain.NotFoundError{What: title}
	}
	return m.DeleteAt(i)
}

func (m *memStore) RestoreLast() (*domain.Snapshot, error) {
	if m.held == nil {
		return nil, domain.ErrNothingToRestore
	}
	restored := *m.held
	m.snapshots = append(m.snapshots, restored)
	m.held = nil
	return &restored, nil
}

func (m *memStore) Usage() (domain.StorageInfo, error) {
	return m.storage, m.err
}

// fakeAssistant returns canned text and records what it was asked
type fakeAssistant struct {
	reply       string
	err         error
	unavailable bool
	asked       []string
}

func (f *fakeAssistant) SuggestNextIdea(ctx context.Context, idea string) (string, error) {
	f.asked = append(f.asked, idea)
	return f.reply, f.err
}

func (f *fakeAssistant) AnalyzeIdeas(ctx context.Context, ideas []string) (string, error) {
	f.asked = append(f.asked, ideas...)
	return f.reply, f.err
}

func (f *fakeAssistant) SuggestCompletion(ctx context.Context, text string) (string, error) {
	f.asked = append(f.asked, text)
	return f.reply, f.err
}

func (f *fakeAssistant) IsAvailable() bool { return !f.unavailable }

var errBoom = errors.New("boom")

var (
	_ ports.SnapshotStore = (*memStore)(nil)
	_ ports.IdeaAssistant = (*fakeAssistant)(nil)
)
