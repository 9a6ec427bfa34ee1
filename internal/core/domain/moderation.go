package domain

import "time"

// ModCacheEntry memoizes a positive "moderator moderates broadcaster's channel"
// result. Absence of an entry means unknown, not false; negatives are never
// cached.
type ModCacheEntry struct {
	BroadcasterID BroadcasterID `json:"broadcaster_id"`
	ModeratorID   UserID        `json:"moderator_id"`
	LastChecked   time.Time     `json:"last_checked"`
}

// FreshWithin reports whether the entry was verified recently enough to be
// trusted without re-checking.
func (e *ModCacheEntry) FreshWithin(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.LastChecked) < ttl
}
