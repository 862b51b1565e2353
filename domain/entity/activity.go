package entity

import (
	"time"
)

// Activity actions recorded by the portal.
const (
	ActionAccountProvisioned  = "account.provisioned"
	ActionMembershipDisabled  = "membership.disabled"
	ActionMembershipEnabled   = "membership.enabled"
	ActionIdentityCompensated = "identity.compensated"
)

// ActivityLogEntry is one append-only audit record. Entries are
// write-once and never mutated.
type ActivityLogEntry struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	ActorEmail  string    `json:"actor_email"`
	Action      string    `json:"action"`
	TargetID    string    `json:"target_id"`
	TargetEmail string    `json:"target_email,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewActivityLogEntry(id, actorID, actorEmail, action, targetID, targetEmail string) *ActivityLogEntry {
	return &ActivityLogEntry{
		ID:          id,
		ActorID:     actorID,
		ActorEmail:  actorEmail,
		Action:      action,
		TargetID:    targetID,
		TargetEmail: targetEmail,
		OccurredAt:  time.Now(),
	}
}
