package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/internxt/meet-server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (id, host_id, max_users_allowed)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query, room.ID, room.HostID, room.MaxUsersAllowed).
		Scan(&room.CreatedAt, &room.UpdatedAt)
}

func (r *RoomRepository) Get(ctx context.Context, id string) (*domain.Room, error) {
	var rm domain.Room
	query := `
		SELECT id, host_id, max_users_allowed, is_closed, remove_at, created_at, updated_at
		FROM rooms WHERE id=$1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rm.ID, &rm.HostID, &rm.MaxUsersAllowed, &rm.IsClosed,
		&rm.RemoveAt, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) GetOpenByHost(ctx context.Context, hostID string) (*domain.Room, error) {
	var rm domain.Room
	query := `
		SELECT id, host_id, max_users_allowed, is_closed, remove_at, created_at, updated_at
		FROM rooms WHERE host_id=$1 AND is_closed=false
		LIMIT 1`
	err := r.db.QueryRow(ctx, query, hostID).Scan(
		&rm.ID, &rm.HostID, &rm.MaxUsersAllowed, &rm.IsClosed,
		&rm.RemoveAt, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) SetClosed(ctx context.Context, id string, closed bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE rooms SET is_closed=$2, updated_at=now() WHERE id=$1`, id, closed)
	return err
}

// SetRemoveAtIfUnset arms the removal deadline only when none is set yet, so
// concurrent first-connection events cannot push an existing deadline forward.
func (r *RoomRepository) SetRemoveAtIfUnset(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE rooms SET remove_at=$2, updated_at=now() WHERE id=$1 AND remove_at IS NULL`,
		id, at)
	return err
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	return err
}
