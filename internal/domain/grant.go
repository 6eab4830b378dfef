package domain

import (
	"time"

	"github.com/google/uuid"
)

// PackGrant is a free pack owed to a user. FREE_PACK grants are issued once
// per user; DAILY_REWARD grants come from PACK daily rewards.
type PackGrant struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	PackType  PackType   `json:"pack_type"`
	Source    Source     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
}

// IsClaimed reports whether the grant was already opened.
func (g *PackGrant) IsClaimed() bool {
	return g.ClaimedAt != nil
}
