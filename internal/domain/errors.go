package domain

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrRoomClosed         = errors.New("room is closed")
	ErrHostBusy           = errors.New("host already has an open room")
	ErrAlreadyJoined      = errors.New("user already joined the room")
	ErrNotInRoom          = errors.New("user not in the room")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMeetNotAllowed     = errors.New("meet is not enabled for this tier")
)
