// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer for the account-activity stream.
package queue

// Activity event types published on the account.activity queue.
const (
	EventUserRegistered = "user.registered"
	EventUserActivated  = "user.activated"
	EventGuidePublished = "guide.published"
)

// AccountActivityEvent is published when something auditable happens to an
// account: registration, email verification, or a guide going live. It carries
// enough information for downstream consumers to log or trigger analytics
// without querying the primary database.
type AccountActivityEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Email      string `json:"email"`
	GuideID    uint64 `json:"guide_id,omitempty"`
	GuideTitle string `json:"guide_title,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
