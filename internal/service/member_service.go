package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/internxt/meet-server/internal/domain"

	"github.com/google/uuid"
)

// MemberService admits users into rooms and lists members.
type MemberService struct {
	rooms   RoomStore
	members MembershipStore
	users   UserDirectory
	avatars AvatarSigner
}

func NewMemberService(rooms RoomStore, members MembershipStore, users UserDirectory, avatars AvatarSigner) *MemberService {
	return &MemberService{
		rooms:   rooms,
		members: members,
		users:   users,
		avatars: avatars,
	}
}

type AddMemberInput struct {
	UserID    string
	Name      string
	LastName  string
	Anonymous bool
}

// AddMember creates a pending membership: the user is admitted but has no
// confirmed connection until the provider's JOINED webhook lands. Capacity is
// count-then-insert, deliberately not atomic with the insert.
func (s *MemberService) AddMember(ctx context.Context, roomID string, in AddMemberInput) (*domain.Membership, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	count, err := s.members.CountByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.CountByRoom: %w", err)
	}
	if count >= room.MaxUsersAllowed {
		return nil, domain.ErrRoomFull
	}

	// Anonymous participants (and callers without an account) get a fresh
	// identity that sticks for the rest of the session.
	userID := in.UserID
	anonymous := in.Anonymous
	if anonymous || userID == "" {
		userID = uuid.NewString()
		anonymous = true
	}

	_, err = s.members.GetByRoomAndUser(ctx, roomID, userID)
	if err == nil {
		return nil, domain.ErrAlreadyJoined
	}
	if !errors.Is(err, domain.ErrMembershipNotFound) {
		return nil, fmt.Errorf("membershipRepo.GetByRoomAndUser: %w", err)
	}

	m := &domain.Membership{
		RoomID:    roomID,
		UserID:    userID,
		Name:      in.Name,
		LastName:  in.LastName,
		Anonymous: anonymous,
	}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("membershipRepo.Create: %w", err)
	}
	return m, nil
}

func (s *MemberService) CountMembers(ctx context.Context, roomID string) (int, error) {
	if _, err := s.rooms.Get(ctx, roomID); err != nil {
		return 0, err
	}
	return s.members.CountByRoom(ctx, roomID)
}

func (s *MemberService) RemoveMember(ctx context.Context, roomID, userID string) error {
	return s.members.DeleteByRoomAndUser(ctx, roomID, userID)
}

// GetMembersWithAvatars lists room members enriched with signed avatar URLs.
// The directory is hit once for all member ids and each distinct avatar key
// is signed once; members without an avatar skip signing and get a nil URL.
func (s *MemberService) GetMembersWithAvatars(ctx context.Context, roomID string) ([]domain.MemberProfile, error) {
	if _, err := s.rooms.Get(ctx, roomID); err != nil {
		return nil, err
	}

	memberships, err := s.members.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListByRoom: %w", err)
	}
	if len(memberships) == 0 {
		return []domain.MemberProfile{}, nil
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.UserID)
	}
	records, err := s.users.FindManyByUUID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("users.FindManyByUUID: %w", err)
	}

	avatarKeys := make(map[string]string, len(records)) // user id -> key
	for _, rec := range records {
		if rec.Avatar != "" {
			avatarKeys[rec.UUID] = rec.Avatar
		}
	}

	signed := make(map[string]string, len(avatarKeys)) // key -> url
	for _, key := range avatarKeys {
		if _, ok := signed[key]; ok {
			continue
		}
		url, err := s.avatars.DownloadURL(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("avatars.DownloadURL: %w", err)
		}
		signed[key] = url
	}

	profiles := make([]domain.MemberProfile, 0, len(memberships))
	for _, m := range memberships {
		p := domain.MemberProfile{
			ID:        m.UserID,
			Name:      m.Name,
			LastName:  m.LastName,
			Anonymous: m.Anonymous,
		}
		if key, ok := avatarKeys[m.UserID]; ok {
			url := signed[key]
			p.AvatarURL = &url
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
