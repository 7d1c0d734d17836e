package filesystem

import (
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// QuotaGuard implements ports.QuotaGuard over a fixed set of files.
// Usage is measured with os.Stat on every call and never cached.
type QuotaGuard struct {
	paths []string
}

// Ensure QuotaGuard implements ports.QuotaGuard
var _ ports.QuotaGuard = (*QuotaGuard)(nil)

// NewQuotaGuard creates a guard that accounts for the given artifacts
func NewQuotaGuard(paths ...string) *QuotaGuard {
	return &QuotaGuard{paths: paths}
}

// CurrentSize sums the sizes of all persisted artifacts that exist
func (g *QuotaGuard) CurrentSize() (int64, error) {
	var total int64
	for _, p := range g.paths {
		size, err := fileSize(p)
		if err != nil {
			return 0, err
		}
		total += size
	}
	return total, nil
}

// CheckAdmission measures the candidate's exact encoded size and decides.
// A candidate that replaces an existing title is not credited for the bytes
// it frees.
func (g *QuotaGuard) CheckAdmission(candidate domain.Snapshot) (domain.Decision, error) {
	current, err := g.CurrentSize()
	if err != nil {
		return domain.Decision{}, err
	}

	size, err := EncodedSize(candidate)
	if err != nil {
		return domain.Decision{}, err
	}

	return domain.Decide(current, size), nil
}

// EncodedSize returns the UTF-8 byte length of the snapshot's on-disk form
func EncodedSize(s domain.Snapshot) (int64, error) {
	data, err := encodeJSON(s)
	if err != nil {
		return 0, &domain.IOError{Op: "encode", Path: s.Title, Err: err}
	}
	return int64(len(data)), nil
}
