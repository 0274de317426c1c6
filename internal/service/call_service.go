package service

import (
	"context"
	"fmt"

	"github.com/internxt/meet-server/internal/domain"
	"github.com/internxt/meet-server/internal/jaas"
)

// CallService orchestrates the create/join/leave call flows: tier gating,
// admission, and conference token minting.
type CallService struct {
	roomSvc   *RoomService
	memberSvc *MemberService
	tiers     TierLookup
	tokens    *jaas.TokenMinter
}

func NewCallService(roomSvc *RoomService, memberSvc *MemberService, tiers TierLookup, tokens *jaas.TokenMinter) *CallService {
	return &CallService{
		roomSvc:   roomSvc,
		memberSvc: memberSvc,
		tiers:     tiers,
		tokens:    tokens,
	}
}

// CallAccess is what a client needs to connect to the conference directly.
type CallAccess struct {
	Token  string
	Room   string
	UserID string
	AppID  string
}

// CreateCall opens a room for the host, sized by their subscription tier,
// admits the host and mints a moderator token.
func (s *CallService) CreateCall(ctx context.Context, host domain.UserPayload) (*CallAccess, error) {
	tier, err := s.tiers.GetUserTier(ctx, host.UUID)
	if err != nil {
		return nil, fmt.Errorf("payments.GetUserTier: %w", err)
	}
	if !tier.Enabled {
		return nil, domain.ErrMeetNotAllowed
	}

	room, err := s.roomSvc.CreateRoom(ctx, host.UUID, tier.PaxPerCall)
	if err != nil {
		return nil, err
	}

	m, err := s.memberSvc.AddMember(ctx, room.ID, AddMemberInput{
		UserID:   host.UUID,
		Name:     host.Name,
		LastName: host.LastName,
	})
	if err != nil {
		return nil, err
	}

	return s.access(room.ID, m, host.Email, true)
}

type JoinCallInput struct {
	UserID    string
	Email     string
	Name      string
	LastName  string
	Anonymous bool
}

// JoinCall admits a user (or a fresh anonymous identity) into an open room
// and mints a participant token. The membership stays pending until the
// provider confirms the connection.
func (s *CallService) JoinCall(ctx context.Context, roomID string, in JoinCallInput) (*CallAccess, error) {
	room, err := s.roomSvc.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.IsClosed {
		return nil, domain.ErrRoomClosed
	}

	m, err := s.memberSvc.AddMember(ctx, roomID, AddMemberInput{
		UserID:    in.UserID,
		Name:      in.Name,
		LastName:  in.LastName,
		Anonymous: in.Anonymous,
	})
	if err != nil {
		return nil, err
	}

	return s.access(roomID, m, in.Email, false)
}

// LeaveCall is the synchronous twin of the LEFT webhook: unconditional
// removal, host departure closes the room, empty rooms are deleted.
func (s *CallService) LeaveCall(ctx context.Context, roomID, userID string) error {
	room, err := s.roomSvc.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if err := s.memberSvc.RemoveMember(ctx, roomID, userID); err != nil {
		return err
	}

	if userID == room.HostID {
		if err := s.roomSvc.CloseRoom(ctx, roomID); err != nil {
			return fmt.Errorf("close room: %w", err)
		}
	}

	count, err := s.memberSvc.CountMembers(ctx, roomID)
	if err != nil {
		return err
	}
	if count == 0 {
		return s.roomSvc.RemoveRoom(ctx, roomID)
	}
	return nil
}

func (s *CallService) access(roomID string, m *domain.Membership, email string, moderator bool) (*CallAccess, error) {
	// The token identity is "<userId>/<membershipId>"; the provider echoes
	// it back in webhooks, which is how events find the admission row.
	token, err := s.tokens.ConferenceToken(jaas.Identity{
		ID:    m.UserID + "/" + m.ID,
		Name:  m.Name,
		Email: email,
	}, roomID, moderator)
	if err != nil {
		return nil, fmt.Errorf("mint conference token: %w", err)
	}

	return &CallAccess{
		Token:  token,
		Room:   roomID,
		UserID: m.UserID,
		AppID:  s.tokens.AppID(),
	}, nil
}
