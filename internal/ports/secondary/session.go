package secondary

import (
	"context"
	"time"
)

// SessionStore keeps per-session rating prompt state.
// Entries expire after their TTL; an expired or unknown key reads as nil.
type SessionStore interface {
	// Get returns the stored state, or nil, nil on a miss.
	Get(ctx context.Context, key string) (*RatingSessionRecord, error)

	// Put stores state under key for ttl.
	Put(ctx context.Context, key string, record *RatingSessionRecord, ttl time.Duration) error
}

// RatingSessionRecord is the rating prompt state of one session.
type RatingSessionRecord struct {
	HasRated          bool `json:"has_rated"`
	HasRatedKnown     bool `json:"has_rated_known"`
	PromptShown       bool `json:"prompt_shown"`
	Dismissed         bool `json:"dismissed"`
	ObservedCompleted bool `json:"observed_completed"`
}
