package application

import (
	"errors"
	"strings"
	"testing"

	"ideagraph/internal/domain"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "query",
			value:     "roadmap",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "query",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "nodeID",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
			}
		})
	}
}

func TestValidateRequired_FormatsFieldName(t *testing.T) {
	err := ValidateRequired("nodeID", "")
	if err == nil || !strings.Contains(err.Error(), "node ID is required") {
		t.Errorf("expected readable field name in error, got %v", err)
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"blank title allowed", "", false},
		{"normal title", "Q3 brainstorm", false},
		{"unicode counts runes", strings.Repeat("é", MaxTitleLength), false},
		{"too long", strings.Repeat("x", MaxTitleLength+1), true},
		{"multi-line", "first\nsecond", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTitle(%q) error = %v, wantErr %v", tt.title, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIndex(t *testing.T) {
	if err := ValidateIndex(0); err != nil {
		t.Errorf("expected index 0 to be valid, got %v", err)
	}
	if err := ValidateIndex(-1); err == nil {
		t.Error("expected negative index to be rejected")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"nothing to restore", ErrNothingToRestore, "Nothing to restore"},
		{"quota", &domain.QuotaError{Decision: domain.Decision{Message: "too big"}}, "too big. Delete some idea sets and try again."},
		{"io failure", &domain.IOError{Op: "read", Path: "ideas.json", Err: errors.New("boom")}, "Storage error: read ideas.json: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewResult(t *testing.T) {
	info := &StorageInfo{CurrentSize: 10, MaxSize: domain.MaxStorageSize}

	ok := NewResult("nearly full", info, nil)
	if !ok.Success || ok.Warning != "nearly full" || ok.Storage != info {
		t.Errorf("unexpected success result: %+v", ok)
	}
	if msg, isErr := ok.Notice(); msg != "nearly full" || isErr {
		t.Errorf("Notice() = %q, %v", msg, isErr)
	}

	failed := NewResult("ignored", nil, ErrNothingToRestore)
	if failed.Success || failed.Warning != "" || failed.Error != "Nothing to restore" {
		t.Errorf("unexpected failure result: %+v", failed)
	}
}
