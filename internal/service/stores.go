package service

import (
	"context"
	"time"

	"github.com/internxt/meet-server/internal/domain"
)

// RoomStore is the query surface the lifecycle manager needs. Implemented by
// postgres.RoomRepository.
type RoomStore interface {
	Create(ctx context.Context, room *domain.Room) error
	Get(ctx context.Context, id string) (*domain.Room, error)
	GetOpenByHost(ctx context.Context, hostID string) (*domain.Room, error)
	SetClosed(ctx context.Context, id string, closed bool) error
	SetRemoveAtIfUnset(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// MembershipStore is the query surface for admission and reconciliation.
// Implemented by postgres.MembershipRepository; ReconcileJoined must run
// under an exclusive row lock on the membership.
type MembershipStore interface {
	Create(ctx context.Context, m *domain.Membership) error
	GetByRoomAndUser(ctx context.Context, roomID, userID string) (*domain.Membership, error)
	CountByRoom(ctx context.Context, roomID string) (int, error)
	ListByRoom(ctx context.Context, roomID string) ([]domain.Membership, error)
	DeleteByRoomAndUser(ctx context.Context, roomID, userID string) error
	ReconcileJoined(ctx context.Context, membershipID, participantID string, ts time.Time) (domain.JoinResolution, error)
	DeleteConnection(ctx context.Context, membershipID, participantID string, ts time.Time) (bool, error)
}

// Kicker forcibly disconnects a live connection at the provider.
type Kicker interface {
	Kick(ctx context.Context, roomID, participantID string) error
}

// UserDirectory batch-resolves user records.
type UserDirectory interface {
	FindManyByUUID(ctx context.Context, uuids []string) ([]domain.UserRecord, error)
}

// AvatarSigner produces a time-limited download URL for an avatar key.
type AvatarSigner interface {
	DownloadURL(ctx context.Context, key string) (string, error)
}

// TierLookup fetches the meet features of a user's subscription.
type TierLookup interface {
	GetUserTier(ctx context.Context, userID string) (*domain.Tier, error)
}
