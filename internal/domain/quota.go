package domain

import "fmt"

const (
	// MiB is one mebibyte in bytes
	MiB int64 = 1024 * 1024

	// MaxStorageSize is the hard cap on persisted bytes
	MaxStorageSize = 5 * MiB

	// WarningThreshold is the level above which saves are admitted with a warning
	WarningThreshold = 4 * MiB
)

// DecisionKind is the verdict of an admission check
type DecisionKind int

const (
	Admit DecisionKind = iota
	AdmitWithWarning
	Reject
)

// String returns a human-readable representation of the decision kind
func (k DecisionKind) String() string {
	switch k {
	case Admit:
		return "admit"
	case AdmitWithWarning:
		return "admit-with-warning"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Decision is the outcome of checking a candidate write against the quota
type Decision struct {
	Kind          DecisionKind
	Message       string // Warning text or rejection reason
	CurrentSize   int64
	CandidateSize int64
}

// Admitted reports whether the write may proceed
func (d Decision) Admitted() bool {
	return d.Kind != Reject
}

// Total returns the projected usage after the write
func (d Decision) Total() int64 {
	return d.CurrentSize + d.CandidateSize
}

// Decide evaluates a candidate of candidateSize bytes against currentSize
// bytes already on disk. Overwrites are not credited: the caller passes the
// full current usage even when the candidate replaces an existing record.
func Decide(currentSize, candidateSize int64) Decision {
	d := Decision{CurrentSize: currentSize, CandidateSize: candidateSize}
	total := currentSize + candidateSize

	switch {
	case total > MaxStorageSize:
		d.Kind = Reject
		d.Message = fmt.Sprintf(
			"storage limit exceeded: %s in use plus %s for this save exceeds the %s limit",
			FormatMiB(currentSize), FormatMiB(candidateSize), FormatMiB(MaxStorageSize),
		)
	case total > WarningThreshold:
		d.Kind = AdmitWithWarning
		d.Message = fmt.Sprintf(
			"storage nearly full: %s of %s used",
			FormatMiB(total), FormatMiB(MaxStorageSize),
		)
	default:
		d.Kind = Admit
	}
	return d
}

// FormatMiB renders a byte count in MiB with two decimals
func FormatMiB(bytes int64) string {
	return fmt.Sprintf("%.2f MiB", float64(bytes)/float64(MiB))
}

// StorageInfo reports persisted usage against the hard cap
type StorageInfo struct {
	CurrentSize int64 `json:"currentSize"`
	MaxSize     int64 `json:"maxSize"`
}

// Percent returns usage as a percentage of the cap
func (s StorageInfo) Percent() float64 {
	if s.MaxSize == 0 {
		return 0
	}
	return float64(s.CurrentSize) / float64(s.MaxSize) * 100
}

// String formats usage as "used / max (pct)"
func (s StorageInfo) String() string {
	return fmt.Sprintf("%s / %s (%.1f%%)", FormatMiB(s.CurrentSize), FormatMiB(s.MaxSize), s.Percent())
}
