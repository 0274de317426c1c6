package domain

import "time"

// Membership is one (room, user) admission row. ParticipantID and JoinedAt
// stay nil until the conferencing provider confirms a live connection.
type Membership struct {
	ID            string     `db:"id"`
	RoomID        string     `db:"room_id"`
	UserID        string     `db:"user_id"`
	ParticipantID *string    `db:"participant_id"`
	JoinedAt      *time.Time `db:"joined_at"`
	Name          string     `db:"name"`
	LastName      string     `db:"last_name"`
	Anonymous     bool       `db:"anonymous"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// Pending reports whether the membership has no confirmed connection yet.
func (m *Membership) Pending() bool {
	return m.ParticipantID == nil && m.JoinedAt == nil
}

// JoinResolution is the outcome of matching a PARTICIPANT_JOINED event
// against the membership's current connection state.
type JoinResolution struct {
	// Apply means the event carries the latest connection and the row must
	// be stamped with its participant id and timestamp.
	Apply bool
	// KickParticipantID, when non-empty, is a provider connection that must
	// be forcibly disconnected after the transaction commits: either the
	// superseded previous connection or a stale incoming one.
	KickParticipantID string
}

// ResolveJoin decides what a PARTICIPANT_JOINED event means for a membership.
// Ordering is derived from the event timestamp, never from delivery order:
// a first connection or a strictly newer timestamp wins; anything else is a
// stale or duplicated delivery whose connection must not persist.
func ResolveJoin(current *Membership, participantID string, ts time.Time) JoinResolution {
	firstConnection := current.Pending()
	newer := current.JoinedAt != nil && ts.After(*current.JoinedAt)

	if firstConnection || newer {
		res := JoinResolution{Apply: true}
		if newer && current.ParticipantID != nil && *current.ParticipantID != participantID {
			// The user reconnected (second tab/device) before the previous
			// connection was cleaned up. The old one has to go.
			res.KickParticipantID = *current.ParticipantID
		}
		return res
	}

	// Older-or-equal event: keep the stored state, evict the connection the
	// late event is vouching for.
	return JoinResolution{KickParticipantID: participantID}
}
