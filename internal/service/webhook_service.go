package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/internxt/meet-server/internal/domain"
)

// WebhookService reconciles the provider's unordered, at-least-once
// connection events into the membership state. Missing rooms or memberships
// are expected race outcomes and short-circuit as no-ops; only unexpected
// failures are returned to the transport.
type WebhookService struct {
	rooms   RoomStore
	members MembershipStore
	kicker  Kicker

	now func() time.Time
}

func NewWebhookService(rooms RoomStore, members MembershipStore, kicker Kicker) *WebhookService {
	return &WebhookService{
		rooms:   rooms,
		members: members,
		kicker:  kicker,
		now:     time.Now,
	}
}

func (s *WebhookService) HandleEvent(ctx context.Context, ev *domain.WebhookEvent) error {
	switch ev.EventType {
	case domain.EventParticipantJoined:
		return s.handleJoined(ctx, ev)
	case domain.EventParticipantLeft:
		return s.handleLeft(ctx, ev)
	default:
		// The provider sends many event types; only presence matters here.
		return nil
	}
}

func (s *WebhookService) handleJoined(ctx context.Context, ev *domain.WebhookEvent) error {
	roomID := ev.RoomID()
	if roomID == "" {
		slog.Warn("joined webhook without room in fqn", "fqn", ev.FQN)
		return nil
	}
	_, membershipID, ok := ev.Data.Identity()
	if !ok {
		slog.Warn("joined webhook with malformed identity", "room", roomID, "id", ev.Data.ID)
		return nil
	}

	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			slog.Warn("joined webhook for unknown room", "room", roomID)
			return nil
		}
		return fmt.Errorf("roomRepo.Get: %w", err)
	}

	// First confirmed connection starts the removal clock.
	if room.RemoveAt == nil {
		if err := s.rooms.SetRemoveAtIfUnset(ctx, room.ID, s.now().Add(domain.RoomTTL)); err != nil {
			return fmt.Errorf("roomRepo.SetRemoveAtIfUnset: %w", err)
		}
	} else if room.Expired(s.now()) {
		// The room is being torn down; don't admit connections to it.
		slog.Info("deleting expired room", "room", room.ID)
		if err := s.rooms.Delete(ctx, room.ID); err != nil {
			return fmt.Errorf("roomRepo.Delete: %w", err)
		}
		return nil
	}

	res, err := s.members.ReconcileJoined(ctx, membershipID, ev.Data.ParticipantID, ev.Time())
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			slog.Warn("joined webhook for unknown membership",
				"room", roomID, "membership", membershipID)
			return nil
		}
		return fmt.Errorf("membershipRepo.ReconcileJoined: %w", err)
	}

	// The kick runs strictly after the reconcile transaction committed, so
	// it can neither roll back with it nor race the row lock.
	if res.KickParticipantID != "" {
		if err := s.kicker.Kick(ctx, roomID, res.KickParticipantID); err != nil {
			slog.Error("kick failed",
				"room", roomID, "participant", res.KickParticipantID, "err", err)
		}
	}
	return nil
}

func (s *WebhookService) handleLeft(ctx context.Context, ev *domain.WebhookEvent) error {
	roomID := ev.RoomID()
	if roomID == "" {
		slog.Warn("left webhook without room in fqn", "fqn", ev.FQN)
		return nil
	}
	userID, membershipID, ok := ev.Data.Identity()
	if !ok {
		slog.Warn("left webhook with malformed identity", "room", roomID, "id", ev.Data.ID)
		return nil
	}

	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			slog.Warn("left webhook for unknown room", "room", roomID)
			return nil
		}
		return fmt.Errorf("roomRepo.Get: %w", err)
	}

	// Conditional delete: a LEFT for a connection that has since been
	// superseded by a newer JOINED must not remove the membership.
	deleted, err := s.members.DeleteConnection(ctx, membershipID, ev.Data.ParticipantID, ev.Time())
	if err != nil {
		return fmt.Errorf("membershipRepo.DeleteConnection: %w", err)
	}

	if deleted && userID == room.HostID {
		if err := s.rooms.SetClosed(ctx, room.ID, true); err != nil {
			return fmt.Errorf("roomRepo.SetClosed: %w", err)
		}
	}

	count, err := s.members.CountByRoom(ctx, room.ID)
	if err != nil {
		return fmt.Errorf("membershipRepo.CountByRoom: %w", err)
	}
	if count == 0 {
		slog.Info("deleting empty room", "room", room.ID)
		if err := s.rooms.Delete(ctx, room.ID); err != nil {
			return fmt.Errorf("roomRepo.Delete: %w", err)
		}
	}
	return nil
}
