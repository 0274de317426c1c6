package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/internxt/meet-server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MembershipRepository struct {
	db *pgxpool.Pool
}

func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	query := `
		INSERT INTO room_users (room_id, user_id, name, last_name, anonymous)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, m.RoomID, m.UserID, m.Name, m.LastName, m.Anonymous).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *MembershipRepository) GetByRoomAndUser(ctx context.Context, roomID, userID string) (*domain.Membership, error) {
	var m domain.Membership
	query := `
		SELECT id, room_id, user_id, participant_id, joined_at, name, last_name, anonymous, created_at, updated_at
		FROM room_users WHERE room_id=$1 AND user_id=$2`
	err := r.db.QueryRow(ctx, query, roomID, userID).Scan(
		&m.ID, &m.RoomID, &m.UserID, &m.ParticipantID, &m.JoinedAt,
		&m.Name, &m.LastName, &m.Anonymous, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepository) CountByRoom(ctx context.Context, roomID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM room_users WHERE room_id=$1`, roomID).Scan(&count)
	return count, err
}

func (r *MembershipRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Membership, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, user_id, participant_id, joined_at, name, last_name, anonymous, created_at, updated_at
		FROM room_users WHERE room_id=$1 ORDER BY created_at ASC`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(
			&m.ID, &m.RoomID, &m.UserID, &m.ParticipantID, &m.JoinedAt,
			&m.Name, &m.LastName, &m.Anonymous, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *MembershipRepository) DeleteByRoomAndUser(ctx context.Context, roomID, userID string) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM room_users WHERE room_id=$1 AND user_id=$2`, roomID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}
	return nil
}

// ReconcileJoined applies a PARTICIPANT_JOINED event under an exclusive row
// lock. Two concurrently delivered events for the same membership serialize on
// the lock, so only one of them can observe the "first connection" state and
// the kick decision is made exactly once.
func (r *MembershipRepository) ReconcileJoined(ctx context.Context, membershipID, participantID string, ts time.Time) (domain.JoinResolution, error) {
	var res domain.JoinResolution

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return res, err
	}
	defer tx.Rollback(ctx)

	var m domain.Membership
	err = tx.QueryRow(ctx, `
		SELECT id, participant_id, joined_at
		FROM room_users WHERE id=$1
		FOR UPDATE`, membershipID).
		Scan(&m.ID, &m.ParticipantID, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return res, domain.ErrMembershipNotFound
		}
		return res, err
	}

	res = domain.ResolveJoin(&m, participantID, ts)
	if res.Apply {
		if _, err := tx.Exec(ctx, `
			UPDATE room_users SET participant_id=$2, joined_at=$3, updated_at=now()
			WHERE id=$1`, membershipID, participantID, ts); err != nil {
			return domain.JoinResolution{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.JoinResolution{}, fmt.Errorf("commit reconcile: %w", err)
	}
	return res, nil
}

// DeleteConnection removes the membership only when the stored connection is
// the one the PARTICIPANT_LEFT event refers to and has not been superseded by
// a newer join. A stale LEFT deletes nothing.
func (r *MembershipRepository) DeleteConnection(ctx context.Context, membershipID, participantID string, ts time.Time) (bool, error) {
	cmd, err := r.db.Exec(ctx, `
		DELETE FROM room_users
		WHERE id=$1 AND participant_id=$2 AND joined_at <= $3`,
		membershipID, participantID, ts)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
