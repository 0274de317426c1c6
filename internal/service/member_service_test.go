package service

import (
	"context"
	"testing"

	"github.com/internxt/meet-server/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRoom(t *testing.T, rooms *fakeRoomStore, capacity int) *domain.Room {
	t.Helper()
	room := &domain.Room{ID: uuid.NewString(), HostID: "host-1", MaxUsersAllowed: capacity}
	require.NoError(t, rooms.Create(context.Background(), room))
	return room
}

func newMemberService(rooms *fakeRoomStore, members *fakeMembershipStore) (*MemberService, *fakeDirectory, *fakeSigner) {
	dir := &fakeDirectory{records: make(map[string]domain.UserRecord)}
	signer := &fakeSigner{}
	return NewMemberService(rooms, members, dir, signer), dir, signer
}

func TestAddMemberCapacity(t *testing.T) {
	ctx := context.Background()
	rooms, members := newFakeRoomStore(), newFakeMembershipStore()
	svc, _, _ := newMemberService(rooms, members)
	room := seedRoom(t, rooms, 3)

	for i := 0; i < 3; i++ {
		_, err := svc.AddMember(ctx, room.ID, AddMemberInput{Anonymous: true})
		require.NoError(t, err)
	}

	_, err := svc.AddMember(ctx, room.ID, AddMemberInput{Anonymous: true})
	assert.ErrorIs(t, err, domain.ErrRoomFull)
}

func TestAddMemberDuplicate(t *testing.T) {
	ctx := context.Background()
	rooms, members := newFakeRoomStore(), newFakeMembershipStore()
	svc, _, _ := newMemberService(rooms, members)
	room := seedRoom(t, rooms, 10)

	_, err := svc.AddMember(ctx, room.ID, AddMemberInput{UserID: "user-1"})
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, room.ID, AddMemberInput{UserID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)
}

func TestAddMemberRoomMissing(t *testing.T) {
	rooms, members := newFakeRoomStore(), newFakeMembershipStore()
	svc, _, _ := newMemberService(rooms, members)

	_, err := svc.AddMember(context.Background(), "nope", AddMemberInput{UserID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestAddMemberAnonymousIdentity(t *testing.T) {
	ctx := context.Background()
	rooms, members := newFakeRoomStore(), newFakeMembershipStore()
	svc, _, _ := newMemberService(rooms, members)
	room := seedRoom(t, rooms, 10)

	m1, err := svc.AddMember(ctx, room.ID, AddMemberInput{Anonymous: true})
	require.NoError(t, err)
	m2, err := svc.AddMember(ctx, room.ID, AddMemberInput{Anonymous: true})
	require.NoError(t, err)

	assert.True(t, m1.Anonymous)
	assert.True(t, m2.Anonymous)
	assert.NotEqual(t, m1.UserID, m2.UserID)
	_, err = uuid.Parse(m1.UserID)
	assert.NoError(t, err)

	// no user id at all is treated as anonymous too
	m3, err := svc.AddMember(ctx, room.ID, AddMemberInput{})
	require.NoError(t, err)
	assert.True(t, m3.Anonymous)
	assert.NotEmpty(t, m3.UserID)
}

func TestAddMemberStartsPending(t *testing.T) {
	ctx := context.Background()
	rooms, members := newFakeRoomStore(), newFakeMembershipStore()
	svc, _, _ := newMemberService(rooms, members)
	room := seedRoom(t, rooms, 10)

	m, err := svc.AddMember(ctx, room.ID, AddMemberInput{UserID: "user-1"})
	require.NoError(t, err)
	assert.Nil(t, m.ParticipantID)
	assert.Nil(t, m.JoinedAt)
}

func TestGetMembersWithAvatars(t *testing.T) {
	ctx := context.Background()
	rooms, members := newFakeRoomStore(), newFakeMembershipStore()
	svc, dir, signer := newMemberService(rooms, members)
	room := seedRoom(t, rooms, 10)

	_, err := svc.AddMember(ctx, room.ID, AddMemberInput{UserID: "user-1", Name: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, room.ID, AddMemberInput{UserID: "user-2", Name: "Grace"})
	require.NoError(t, err)

	dir.records["user-1"] = domain.UserRecord{UUID: "user-1", Avatar: "avatars/user-1.png"}
	dir.records["user-2"] = domain.UserRecord{UUID: "user-2"} // no avatar stored

	profiles, err := svc.GetMembersWithAvatars(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "user-1", profiles[0].ID)
	assert.Equal(t, "Ada", profiles[0].Name)
	assert.Equal(t, "Lovelace", profiles[0].LastName)
	assert.False(t, profiles[0].Anonymous)
	require.NotNil(t, profiles[0].AvatarURL)
	assert.Equal(t, "https://signed.example/avatars/user-1.png", *profiles[0].AvatarURL)

	assert.Equal(t, "user-2", profiles[1].ID)
	assert.Nil(t, profiles[1].AvatarURL)

	// one directory round-trip, one presign for the single stored avatar
	assert.Equal(t, 1, dir.calls)
	assert.Equal(t, []string{"avatars/user-1.png"}, signer.calls)
}

func TestGetMembersWithAvatarsRoomMissing(t *testing.T) {
	rooms, members := newFakeRoomStore(), newFakeMembershipStore()
	svc, _, _ := newMemberService(rooms, members)

	_, err := svc.GetMembersWithAvatars(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	rooms, members := newFakeRoomStore(), newFakeMembershipStore()
	svc, _, _ := newMemberService(rooms, members)
	room := seedRoom(t, rooms, 10)

	_, err := svc.AddMember(ctx, room.ID, AddMemberInput{UserID: "user-1"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMember(ctx, room.ID, "user-1"))
	assert.ErrorIs(t, svc.RemoveMember(ctx, room.ID, "user-1"), domain.ErrNotInRoom)

	count, err := svc.CountMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
