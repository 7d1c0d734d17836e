package domain

import (
	"strings"
	"testing"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		current   int64
		candidate int64
		want      DecisionKind
	}{
		{"empty store small candidate", 0, 512, Admit},
		{"exactly at warning threshold", 0, WarningThreshold, Admit},
		{"one byte over warning threshold", WarningThreshold, 1, AdmitWithWarning},
		{"exactly at hard cap", 3 * MiB, 2 * MiB, AdmitWithWarning},
		{"one byte over hard cap", MaxStorageSize, 1, Reject},
		{"candidate alone exceeds cap", 0, MaxStorageSize + 1, Reject},
		{"split across current and candidate", 4 * MiB, MiB + MiB/2, Reject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.current, tt.candidate)
			if got.Kind != tt.want {
				t.Errorf("Decide(%d, %d) = %v, want %v", tt.current, tt.candidate, got.Kind, tt.want)
			}
			if got.Total() != tt.current+tt.candidate {
				t.Errorf("Total() = %d, want %d", got.Total(), tt.current+tt.candidate)
			}
		})
	}
}

func TestDecideMessages(t *testing.T) {
	t.Run("admit carries no message", func(t *testing.T) {
		d := Decide(0, 10)
		if d.Message != "" {
			t.Errorf("expected empty message, got %q", d.Message)
		}
		if !d.Admitted() {
			t.Error("expected decision to be admitted")
		}
	})

	t.Run("reject reason reports both sizes in MiB", func(t *testing.T) {
		d := Decide(3*MiB, 3*MiB)
		if d.Admitted() {
			t.Fatal("expected rejection")
		}
		for _, want := range []string{"3.00 MiB", "5.00 MiB"} {
			if !strings.Contains(d.Message, want) {
				t.Errorf("expected reason to contain %q, got %q", want, d.Message)
			}
		}
	})

	t.Run("warning reports projected usage", func(t *testing.T) {
		d := Decide(4*MiB, MiB/2)
		if d.Kind != AdmitWithWarning {
			t.Fatalf("expected warning, got %v", d.Kind)
		}
		if !strings.Contains(d.Message, "4.50 MiB") {
			t.Errorf("expected warning to contain 4.50 MiB, got %q", d.Message)
		}
	})
}

func TestFormatMiB(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0.00 MiB"},
		{MiB, "1.00 MiB"},
		{MiB + MiB/4, "1.25 MiB"},
		{MaxStorageSize, "5.00 MiB"},
	}

	for _, tt := range tests {
		if got := FormatMiB(tt.bytes); got != tt.want {
			t.Errorf("FormatMiB(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestStorageInfoPercent(t *testing.T) {
	info := StorageInfo{CurrentSize: MaxStorageSize / 2, MaxSize: MaxStorageSize}
	if got := info.Percent(); got != 50 {
		t.Errorf("Percent() = %v, want 50", got)
	}

	if got := (StorageInfo{}).Percent(); got != 0 {
		t.Errorf("Percent() with zero max = %v, want 0", got)
	}
}
