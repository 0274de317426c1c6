package domain

import (
	"strings"
	"time"
)

type WebhookEventType string

const (
	EventParticipantJoined WebhookEventType = "PARTICIPANT_JOINED"
	EventParticipantLeft   WebhookEventType = "PARTICIPANT_LEFT"
)

// WebhookEvent is the provider's webhook payload. Delivery is at-least-once
// and unordered; Timestamp is the only ordering signal.
type WebhookEvent struct {
	EventType WebhookEventType `json:"eventType"`
	FQN       string           `json:"fqn"`
	Timestamp int64            `json:"timestamp"` // epoch milliseconds
	Data      WebhookData      `json:"data"`
}

type WebhookData struct {
	// ID carries "<userId>/<membershipId>", the identity the conference
	// token was minted with.
	ID            string `json:"id"`
	ParticipantID string `json:"participantId"`
}

// RoomID extracts the room from the fully-qualified conference name
// "<appId>/<roomId>". Empty when the fqn has no room segment.
func (e *WebhookEvent) RoomID() string {
	parts := strings.Split(e.FQN, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// Time converts the event timestamp to a time.Time.
func (e *WebhookEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Identity splits Data.ID into the user and membership identifiers.
func (d *WebhookData) Identity() (userID, membershipID string, ok bool) {
	parts := strings.SplitN(d.ID, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
