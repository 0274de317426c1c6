package domain

import "time"

// RoomTTL is how long a room lives after its first confirmed connection.
const RoomTTL = 30 * 24 * time.Hour

type Room struct {
	ID              string     `db:"id"`
	HostID          string     `db:"host_id"`
	MaxUsersAllowed int        `db:"max_users_allowed"`
	IsClosed        bool       `db:"is_closed"`
	RemoveAt        *time.Time `db:"remove_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// Expired reports whether the room is past its removal deadline.
// Rooms with no deadline never expire.
func (r *Room) Expired(now time.Time) bool {
	return r.RemoveAt != nil && r.RemoveAt.Before(now)
}
