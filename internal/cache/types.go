package cache

import "time"

// Entry is a stored value with its absolute expiry.
type Entry struct {
	Value     any
	ExpiresAt time.Time
}

// Stats is a point-in-time view of a Store.
type Stats struct {
	EntryCount int    `json:"entry_count"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Expired    uint64 `json:"expired"`
	Writes     uint64 `json:"writes"`
}

// HitRatio returns hits over lookups as a percentage.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

const (
	// MinSizeForCompression is the smallest payload worth gzipping.
	MinSizeForCompression = 1024
)
