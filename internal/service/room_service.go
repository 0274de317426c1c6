package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/internxt/meet-server/internal/domain"

	"github.com/google/uuid"
)

// RoomService owns room lifecycle transitions.
type RoomService struct {
	rooms RoomStore

	now func() time.Time
}

func NewRoomService(rooms RoomStore) *RoomService {
	return &RoomService{rooms: rooms, now: time.Now}
}

// CreateRoom persists a new open room for the host. A host can own at most
// one open room at a time; the check is a lookup, not a constraint, so two
// racing creates can slip through (accepted, see the admission race note).
func (s *RoomService) CreateRoom(ctx context.Context, hostID string, capacity int) (*domain.Room, error) {
	_, err := s.rooms.GetOpenByHost(ctx, hostID)
	if err == nil {
		return nil, domain.ErrHostBusy
	}
	if !errors.Is(err, domain.ErrRoomNotFound) {
		return nil, fmt.Errorf("roomRepo.GetOpenByHost: %w", err)
	}

	room := &domain.Room{
		ID:              uuid.NewString(),
		HostID:          hostID,
		MaxUsersAllowed: capacity,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("roomRepo.Create: %w", err)
	}
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	return s.rooms.Get(ctx, id)
}

func (s *RoomService) GetOpenRoomByHost(ctx context.Context, hostID string) (*domain.Room, error) {
	return s.rooms.GetOpenByHost(ctx, hostID)
}

func (s *RoomService) CloseRoom(ctx context.Context, id string) error {
	return s.rooms.SetClosed(ctx, id, true)
}

func (s *RoomService) OpenRoom(ctx context.Context, id string) error {
	return s.rooms.SetClosed(ctx, id, false)
}

func (s *RoomService) RemoveRoom(ctx context.Context, id string) error {
	return s.rooms.Delete(ctx, id)
}

// SetExpirationIfUnset starts the 30-day removal clock on the room's first
// confirmed connection. The conditional update makes concurrent callers
// harmless: only the first one arms the deadline.
func (s *RoomService) SetExpirationIfUnset(ctx context.Context, id string) error {
	return s.rooms.SetRemoveAtIfUnset(ctx, id, s.now().Add(domain.RoomTTL))
}
