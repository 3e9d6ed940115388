package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pithos-gov/pithos/internal/domain"
	"github.com/pithos-gov/pithos/internal/usecase"
)

var _ usecase.MemberStore = (*MemberStore)(nil)

// MemberStore persists members and their delegation edge
type MemberStore struct {
	db *sql.DB
}

// NewMemberStore creates a member store on db
func NewMemberStore(db *DB) *MemberStore {
	return &MemberStore{db: db.sqlDB}
}

func (s *MemberStore) ListMembers(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, accepts_delegates, delegate_id, delegation_type FROM members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var (
			id       string
			accepts  int
			delegate sql.NullString
			dtype    int
		)
		if err := rows.Scan(&id, &accepts, &delegate, &dtype); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m := domain.Member{
			ID:               domain.MemberID(id),
			AcceptsDelegates: accepts != 0,
			DelegationType:   domain.DelegationType(dtype),
		}
		if delegate.Valid {
			d := domain.MemberID(delegate.String)
			m.Delegate = &d
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *MemberStore) SaveMember(ctx context.Context, m domain.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}

	var delegate sql.NullString
	dtype := domain.DelegationUnset
	if m.Delegate != nil {
		delegate = sql.NullString{String: string(*m.Delegate), Valid: true}
		dtype = m.DelegationType
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, accepts_delegates, delegate_id, delegation_type) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   accepts_delegates = excluded.accepts_delegates,
		   delegate_id = excluded.delegate_id,
		   delegation_type = excluded.delegation_type`,
		string(m.ID), boolToInt(m.AcceptsDelegates), delegate, int(dtype),
	)
	if err != nil {
		return fmt.Errorf("save member %s: %w", m.ID, err)
	}
	return nil
}
