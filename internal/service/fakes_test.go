package service

import (
	"context"
	"time"

	"github.com/internxt/meet-server/internal/domain"

	"github.com/google/uuid"
)

// In-memory stores mirroring the postgres repositories' contracts, including
// the conditional-update and conditional-delete predicates.

type fakeRoomStore struct {
	rooms map[string]*domain.Room
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]*domain.Room)}
}

func (s *fakeRoomStore) Create(_ context.Context, room *domain.Room) error {
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	cp := *room
	s.rooms[room.ID] = &cp
	return nil
}

func (s *fakeRoomStore) Get(_ context.Context, id string) (*domain.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeRoomStore) GetOpenByHost(_ context.Context, hostID string) (*domain.Room, error) {
	for _, r := range s.rooms {
		if r.HostID == hostID && !r.IsClosed {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrRoomNotFound
}

func (s *fakeRoomStore) SetClosed(_ context.Context, id string, closed bool) error {
	if r, ok := s.rooms[id]; ok {
		r.IsClosed = closed
	}
	return nil
}

func (s *fakeRoomStore) SetRemoveAtIfUnset(_ context.Context, id string, at time.Time) error {
	if r, ok := s.rooms[id]; ok && r.RemoveAt == nil {
		r.RemoveAt = &at
	}
	return nil
}

func (s *fakeRoomStore) Delete(_ context.Context, id string) error {
	delete(s.rooms, id)
	return nil
}

type fakeMembershipStore struct {
	byID  map[string]*domain.Membership
	order []string
}

func newFakeMembershipStore() *fakeMembershipStore {
	return &fakeMembershipStore{byID: make(map[string]*domain.Membership)}
}

func (s *fakeMembershipStore) Create(_ context.Context, m *domain.Membership) error {
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	s.byID[m.ID] = &cp
	s.order = append(s.order, m.ID)
	return nil
}

func (s *fakeMembershipStore) GetByRoomAndUser(_ context.Context, roomID, userID string) (*domain.Membership, error) {
	for _, m := range s.byID {
		if m.RoomID == roomID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrMembershipNotFound
}

func (s *fakeMembershipStore) CountByRoom(_ context.Context, roomID string) (int, error) {
	count := 0
	for _, m := range s.byID {
		if m.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (s *fakeMembershipStore) ListByRoom(_ context.Context, roomID string) ([]domain.Membership, error) {
	var list []domain.Membership
	for _, id := range s.order {
		if m, ok := s.byID[id]; ok && m.RoomID == roomID {
			list = append(list, *m)
		}
	}
	return list, nil
}

func (s *fakeMembershipStore) DeleteByRoomAndUser(_ context.Context, roomID, userID string) error {
	for id, m := range s.byID {
		if m.RoomID == roomID && m.UserID == userID {
			delete(s.byID, id)
			return nil
		}
	}
	return domain.ErrNotInRoom
}

func (s *fakeMembershipStore) ReconcileJoined(_ context.Context, membershipID, participantID string, ts time.Time) (domain.JoinResolution, error) {
	m, ok := s.byID[membershipID]
	if !ok {
		return domain.JoinResolution{}, domain.ErrMembershipNotFound
	}
	res := domain.ResolveJoin(m, participantID, ts)
	if res.Apply {
		pid := participantID
		t := ts
		m.ParticipantID = &pid
		m.JoinedAt = &t
	}
	return res, nil
}

func (s *fakeMembershipStore) DeleteConnection(_ context.Context, membershipID, participantID string, ts time.Time) (bool, error) {
	m, ok := s.byID[membershipID]
	if !ok {
		return false, nil
	}
	if m.ParticipantID == nil || *m.ParticipantID != participantID {
		return false, nil
	}
	if m.JoinedAt == nil || m.JoinedAt.After(ts) {
		return false, nil
	}
	delete(s.byID, membershipID)
	return true, nil
}

type kickCall struct {
	roomID, participantID string
}

type fakeKicker struct {
	calls []kickCall
	err   error
}

func (k *fakeKicker) Kick(_ context.Context, roomID, participantID string) error {
	k.calls = append(k.calls, kickCall{roomID, participantID})
	return k.err
}

type fakeDirectory struct {
	records map[string]domain.UserRecord
	calls   int
}

func (d *fakeDirectory) FindManyByUUID(_ context.Context, uuids []string) ([]domain.UserRecord, error) {
	d.calls++
	var out []domain.UserRecord
	for _, id := range uuids {
		if rec, ok := d.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeSigner struct {
	calls []string
}

func (s *fakeSigner) DownloadURL(_ context.Context, key string) (string, error) {
	s.calls = append(s.calls, key)
	return "https://signed.example/" + key, nil
}

type fakeTierLookup struct {
	tier *domain.Tier
	err  error
}

func (l *fakeTierLookup) GetUserTier(_ context.Context, _ string) (*domain.Tier, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.tier, nil
}
