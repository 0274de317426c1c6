package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWebhookEventRoomID(t *testing.T) {
	tests := []struct {
		fqn  string
		want string
	}{
		{"appid/room-1", "room-1"},
		{"vpaas-magic-cookie/deadbeef", "deadbeef"},
		{"no-slash", ""},
		{"", ""},
	}
	for _, tt := range tests {
		ev := WebhookEvent{FQN: tt.fqn}
		assert.Equal(t, tt.want, ev.RoomID(), "fqn %q", tt.fqn)
	}
}

func TestWebhookDataIdentity(t *testing.T) {
	d := WebhookData{ID: "user-1/membership-1"}
	userID, membershipID, ok := d.Identity()
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "membership-1", membershipID)

	for _, bad := range []string{"", "user-only", "/m1", "u1/"} {
		d := WebhookData{ID: bad}
		_, _, ok := d.Identity()
		assert.False(t, ok, "id %q", bad)
	}
}

func TestWebhookEventTime(t *testing.T) {
	ev := WebhookEvent{Timestamp: 1735689600000}
	assert.Equal(t, time.UnixMilli(1735689600000), ev.Time())
}

func TestRoomExpired(t *testing.T) {
	now := time.Now()

	r := Room{}
	assert.False(t, r.Expired(now))

	past := now.Add(-time.Hour)
	r.RemoveAt = &past
	assert.True(t, r.Expired(now))

	future := now.Add(time.Hour)
	r.RemoveAt = &future
	assert.False(t, r.Expired(now))
}
