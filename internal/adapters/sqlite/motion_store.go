package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/usecase"
)

var _ usecase.MotionStore = (*MotionStore)(nil)

// MotionStore persists motions, their options and votes
type MotionStore struct {
	db *sql.DB
}

// NewMotionStore creates a motion store on db
func NewMotionStore(db *DB) *MotionStore {
	return &MotionStore{db: db.sqlDB}
}

func (s *MotionStore) CreateMotion(ctx context.Context, draft domain.MotionDraft, now time.Time) (*domain.Motion, error) {
	if err := draft.Validate(now); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create motion: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO motions (description, expires_at, created_by, created_at) VALUES (?, ?, ?, ?)`,
		draft.Description, toMillis(draft.Expires), string(draft.CreatedBy), toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert motion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("motion id: %w", err)
	}

	options := draft.NumberedOptions()
	for _, opt := range options {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO motion_options (motion_id, number, description) VALUES (?, ?, ?)`,
			id, opt.Number, opt.Description,
		); err != nil {
			return nil, fmt.Errorf("insert option %d: %w", opt.Number, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create motion: %w", err)
	}

	return &domain.Motion{
		ID:          domain.MotionID(id),
		Description: draft.Description,
		Expires:     draft.Expires.UTC(),
		Options:     options,
		CreatedBy:   draft.CreatedBy,
	}, nil
}

func (s *MotionStore) ListActiveMotions(ctx context.Context, now time.Time) ([]*domain.Motion, error) {
	return s.query(ctx,
		`SELECT id, description, expires_at, created_by, archived FROM motions WHERE expires_at > ? ORDER BY id`,
		toMillis(now))
}

func (s *MotionStore) ListExpiredUnarchived(ctx context.Context, now time.Time) ([]*domain.Motion, error) {
	return s.query(ctx,
		`SELECT id, description, expires_at, created_by, archived FROM motions WHERE expires_at <= ? AND archived = 0 ORDER BY id`,
		toMillis(now))
}

func (s *MotionStore) GetMotion(ctx context.Context, id domain.MotionID) (*domain.Motion, error) {
	motions, err := s.query(ctx,
		`SELECT id, description, expires_at, created_by, archived FROM motions WHERE id = ?`,
		int64(id))
	if err != nil {
		return nil, err
	}
	if len(motions) == 0 {
		return nil, fmt.Errorf("motion %d: %w", id, domain.ErrNotFound)
	}
	return motions[0], nil
}

// RecordVote checks the motion and option and upserts the vote in one
// transaction
func (s *MotionStore) RecordVote(ctx context.Context, member domain.MemberID, motion domain.MotionID, option int, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record vote: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var expires int64
	err = tx.QueryRowContext(ctx, `SELECT expires_at FROM motions WHERE id = ?`, int64(motion)).Scan(&expires)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("motion %d: %w", motion, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load motion %d: %w", motion, err)
	}
	if !now.Before(fromMillis(expires)) {
		return fmt.Errorf("motion %d: %w", motion, domain.ErrAlreadyExpired)
	}

	var found int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM motion_options WHERE motion_id = ? AND number = ?`, int64(motion), option,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("motion %d option %d: %w", motion, option, domain.ErrInvalidOption)
	}
	if err != nil {
		return fmt.Errorf("load option: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO votes (member_id, motion_id, selection, cast_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (member_id, motion_id) DO UPDATE SET selection = excluded.selection, cast_at = excluded.cast_at`,
		string(member), int64(motion), option, toMillis(now),
	); err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record vote: %w", err)
	}
	return nil
}

func (s *MotionStore) GetVotes(ctx context.Context, motion domain.MotionID) ([]domain.Vote, error) {
	if _, err := s.GetMotion(ctx, motion); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id, selection FROM votes WHERE motion_id = ? ORDER BY member_id`, int64(motion))
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var (
			member    string
			selection int
		)
		if err := rows.Scan(&member, &selection); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, domain.Vote{MemberID: domain.MemberID(member), MotionID: motion, Selection: selection})
	}
	return votes, rows.Err()
}

func (s *MotionStore) MarkArchived(ctx context.Context, id domain.MotionID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE motions SET archived = 1 WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("archive motion %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive motion %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("motion %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *MotionStore) query(ctx context.Context, query string, args ...any) ([]*domain.Motion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query motions: %w", err)
	}

	var motions []*domain.Motion
	for rows.Next() {
		var (
			m         domain.Motion
			id        int64
			expires   int64
			createdBy string
			archived  int
		)
		if err := rows.Scan(&id, &m.Description, &expires, &createdBy, &archived); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan motion: %w", err)
		}
		m.ID = domain.MotionID(id)
		m.Expires = fromMillis(expires)
		m.CreatedBy = domain.MemberID(createdBy)
		m.Archived = archived != 0
		motions = append(motions, &m)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	// options are read after the rows are closed; the pool holds one connection
	for _, m := range motions {
		if m.Options, err = s.options(ctx, m.ID); err != nil {
			return nil, err
		}
	}
	return motions, nil
}

func (s *MotionStore) options(ctx context.Context, id domain.MotionID) ([]domain.Option, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT number, description FROM motion_options WHERE motion_id = ? ORDER BY number`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	var options []domain.Option
	for rows.Next() {
		var opt domain.Option
		if err := rows.Scan(&opt.Number, &opt.Description); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}
