package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ideagraph/internal/application"
	"ideagraph/internal/domain"
)

func TestSaveSnapshotCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
		errMsg  string
	}{
		{
			name:  "blank title uses default",
			title: "",
		},
		{
			name:  "regular title",
			title: "Weekend plans",
		},
		{
			name:    "multi-line title",
			title:   "first\nsecond",
			wantErr: true,
			errMsg:  "single line",
		},
		{
			name:    "overlong title",
			title:   strings.Repeat("x", application.MaxTitleLength+1),
			wantErr: true,
			errMsg:  "at most",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&SaveSnapshotCommand{Title: tt.title}).Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveSnapshotCommand_Execute(t *testing.T) {
	store := &memStore{}
	nodes := []domain.Node{{ID: "a", Label: "alpha"}}
	ctx := context.Background()

	result, err := NewSaveSnapshotCommand(store, nodes, nil, "").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Snapshot.Title != "idea set 1" {
		t.Errorf("expected default title, got %q", result.Snapshot.Title)
	}
	if result.Message != `Saved "idea set 1" (1 ideas)` {
		t.Errorf("unexpected message %q", result.Message)
	}

	result, err = NewSaveSnapshotCommand(store, nodes, nil, "idea set 1").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Replaced || !strings.HasPrefix(result.Message, "Updated") {
		t.Errorf("expected overwrite to be reported, got %+v", result)
	}
}

func TestSaveSnapshotCommand_EmptyGraph(t *testing.T) {
	store := &memStore{}

	result, err := NewSaveSnapshotCommand(store, nil, nil, "x").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Skipped {
		t.Error("expected empty graph to be skipped")
	}
	if len(store.snapshots) != 0 {
		t.Errorf("expected nothing stored, got %d", len(store.snapshots))
	}
}

func TestSaveSnapshotCommand_QuotaError(t *testing.T) {
	store := &memStore{err: &domain.QuotaError{Decision: domain.Decide(domain.MaxStorageSize, 1)}}

	_, err := NewSaveSnapshotCommand(store, []domain.Node{{ID: "a"}}, nil, "").Execute(context.Background())
	if !errors.Is(err, application.ErrQuotaExceeded) {
		t.Errorf("expected quota error, got %v", err)
	}
}

func TestUsageCommand_Execute(t *testing.T) {
	tests := []struct {
		name       string
		current    int64
		nearlyFull bool
	}{
		{name: "empty", current: 0},
		{name: "at threshold", current: domain.WarningThreshold},
		{name: "above threshold", current: domain.WarningThreshold + 1, nearlyFull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{storage: domain.StorageInfo{CurrentSize: tt.current, MaxSize: domain.MaxStorageSize}}

			result, err := NewUsageCommand(store).Execute(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.NearlyFull != tt.nearlyFull {
				t.Errorf("NearlyFull = %v, want %v", result.NearlyFull, tt.nearlyFull)
			}
			if !strings.Contains(result.Message, "5.00 MiB") {
				t.Errorf("expected cap in message, got %q", result.Message)
			}
		})
	}
}
