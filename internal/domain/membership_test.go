package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestResolveJoin(t *testing.T) {
	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	tests := []struct {
		name    string
		current Membership
		pid     string
		ts      time.Time
		want    JoinResolution
	}{
		{
			name:    "first connection",
			current: Membership{},
			pid:     "p1",
			ts:      t1,
			want:    JoinResolution{Apply: true},
		},
		{
			name:    "newer timestamp same participant",
			current: Membership{ParticipantID: strPtr("p1"), JoinedAt: timePtr(t1)},
			pid:     "p1",
			ts:      t2,
			want:    JoinResolution{Apply: true},
		},
		{
			name:    "newer timestamp different participant kicks old one",
			current: Membership{ParticipantID: strPtr("p1"), JoinedAt: timePtr(t1)},
			pid:     "p2",
			ts:      t2,
			want:    JoinResolution{Apply: true, KickParticipantID: "p1"},
		},
		{
			name:    "duplicate delivery is not applied",
			current: Membership{ParticipantID: strPtr("p1"), JoinedAt: timePtr(t1)},
			pid:     "p1",
			ts:      t1,
			want:    JoinResolution{KickParticipantID: "p1"},
		},
		{
			name:    "older event kicks its own connection",
			current: Membership{ParticipantID: strPtr("p2"), JoinedAt: timePtr(t2)},
			pid:     "p1",
			ts:      t1,
			want:    JoinResolution{KickParticipantID: "p1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveJoin(&tt.current, tt.pid, tt.ts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMembershipPending(t *testing.T) {
	m := Membership{}
	assert.True(t, m.Pending())

	m.ParticipantID = strPtr("p1")
	m.JoinedAt = timePtr(time.Now())
	assert.False(t, m.Pending())
}
