package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/vietnoy/pantry/internal/domain"
	"github.com/vietnoy/pantry/internal/model"
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

func scanGroup(scanner interface{ Scan(...any) error }) (*model.Group, error) {
	var g model.Group
	var description sql.NullString
	var isActive int

	err := scanner.Scan(
		&g.ID, &g.Name, &description, &g.OwnerID, &g.InviteCode,
		&isActive, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.IsActive = isActive != 0
	if description.Valid {
		g.Description = &description.String
	}
	return &g, nil
}

const groupCols = `id, name, description, owner_id, invite_code, is_active, created_at, updated_at`

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateInviteCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}

// Create inserts the group, an owner membership row, and points the
// creator's active group at the new group, all in one transaction.
func (s *GroupStore) Create(name string, description *string, ownerID int64) (*model.Group, error) {
	code, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO groups (name, description, owner_id, invite_code) VALUES (?, ?, ?, ?)`,
		name, nullString(description), ownerID, code,
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	groupID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO group_members (group_id, user_id, role) VALUES (?, ?, ?)`,
		groupID, ownerID, string(domain.RoleOwner),
	); err != nil {
		return nil, fmt.Errorf("insert owner membership: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE group_members SET is_active = 0, left_at = CURRENT_TIMESTAMP WHERE user_id = ? AND group_id != ? AND is_active = 1 AND role != ?`,
		ownerID, groupID, string(domain.RoleOwner),
	); err != nil {
		return nil, fmt.Errorf("deactivate other memberships: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE users SET active_group_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		groupID, ownerID,
	); err != nil {
		return nil, fmt.Errorf("set active group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(groupID)
}

func (s *GroupStore) GetByID(id int64) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// GetOwnedByName looks up an active group the user owns with this name.
func (s *GroupStore) GetOwnedByName(ownerID int64, name string) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE owner_id = ? AND name = ? AND is_active = 1`, ownerID, name)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get owned group by name: %w", err)
	}
	return g, nil
}

func (s *GroupStore) GetByInviteCode(code string) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE invite_code = ? AND is_active = 1`, code)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group by invite code: %w", err)
	}
	return g, nil
}

func (s *GroupStore) Update(id int64, name string, description *string) (*model.Group, error) {
	_, err := s.db.Exec(
		`UPDATE groups SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, nullString(description), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return s.GetByID(id)
}

// ActiveMembership returns the user's active membership in the group, or
// nil when there is none. With multiple active rows the most recently
// joined one wins.
func (s *GroupStore) ActiveMembership(groupID, userID int64) (*model.GroupMember, error) {
	row := s.db.QueryRow(
		`SELECT id, group_id, user_id, role, is_active, joined_at, left_at FROM group_members
		 WHERE group_id = ? AND user_id = ? AND is_active = 1
		 ORDER BY joined_at DESC, id DESC LIMIT 1`,
		groupID, userID,
	)
	m, err := scanGroupMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

func scanGroupMember(scanner interface{ Scan(...any) error }) (*model.GroupMember, error) {
	var m model.GroupMember
	var isActive int
	var leftAt sql.NullTime

	err := scanner.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &isActive, &m.JoinedAt, &leftAt)
	if err != nil {
		return nil, err
	}

	m.IsActive = isActive != 0
	if leftAt.Valid {
		m.LeftAt = &leftAt.Time
	}
	return &m, nil
}

// Member is a membership row joined with the member's user profile.
type Member struct {
	UserID   int64     `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Username *string   `json:"username"`
	PhotoURL *string   `json:"photo_url"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func (s *GroupStore) ListMembers(groupID int64) ([]Member, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, u.email, u.username, u.photo_url, m.role, m.joined_at
		 FROM group_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.group_id = ? AND m.is_active = 1
		 ORDER BY m.joined_at ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		var username, photoURL sql.NullString
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &username, &photoURL, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		if username.Valid {
			m.Username = &username.String
		}
		if photoURL.Valid {
			m.PhotoURL = &photoURL.String
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *GroupStore) ListForUser(userID int64) ([]model.Group, error) {
	rows, err := s.db.Query(
		`SELECT g.id, g.name, g.description, g.owner_id, g.invite_code, g.is_active, g.created_at, g.updated_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ? AND m.is_active = 1 AND g.is_active = 1
		 ORDER BY g.created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups for user: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// JoinByInviteCode adds the user to the group as a member. Joining a group
// the user already belongs to is a conflict. Other active non-owner
// memberships are deactivated so the user shops in one household at a time,
// and a previously left membership in this group is reactivated instead of
// inserting a second row.
func (s *GroupStore) JoinByInviteCode(code string, userID int64) (*model.Group, error) {
	g, err := s.GetByInviteCode(code)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.NotFound("group not found for invite code")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRow(
		`SELECT id FROM group_members WHERE group_id = ? AND user_id = ? AND is_active = 1 LIMIT 1`,
		g.ID, userID,
	).Scan(&existing)
	if err == nil {
		return nil, domain.Conflict("user is already a member of this group")
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("check membership: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE group_members SET is_active = 0, left_at = CURRENT_TIMESTAMP WHERE user_id = ? AND is_active = 1 AND role != ?`,
		userID, string(domain.RoleOwner),
	); err != nil {
		return nil, fmt.Errorf("deactivate memberships: %w", err)
	}

	var prior int64
	err = tx.QueryRow(
		`SELECT id FROM group_members WHERE group_id = ? AND user_id = ? ORDER BY joined_at DESC, id DESC LIMIT 1`,
		g.ID, userID,
	).Scan(&prior)
	switch {
	case err == nil:
		if _, err := tx.Exec(
			`UPDATE group_members SET is_active = 1, left_at = NULL, joined_at = CURRENT_TIMESTAMP, role = ? WHERE id = ?`,
			string(domain.RoleMember), prior,
		); err != nil {
			return nil, fmt.Errorf("reactivate membership: %w", err)
		}
	case err == sql.ErrNoRows:
		if _, err := tx.Exec(
			`INSERT INTO group_members (group_id, user_id, role) VALUES (?, ?, ?)`,
			g.ID, userID, string(domain.RoleMember),
		); err != nil {
			return nil, fmt.Errorf("insert membership: %w", err)
		}
	default:
		return nil, fmt.Errorf("find prior membership: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE users SET active_group_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		g.ID, userID,
	); err != nil {
		return nil, fmt.Errorf("set active group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return g, nil
}

// RemoveMember soft-deletes the target's membership and clears their
// active-group pointer if it still points at this group. Permission checks
// belong to the caller.
func (s *GroupStore) RemoveMember(groupID, targetUserID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE group_members SET is_active = 0, left_at = CURRENT_TIMESTAMP WHERE group_id = ? AND user_id = ? AND is_active = 1`,
		groupID, targetUserID,
	)
	if err != nil {
		return fmt.Errorf("deactivate membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(
		`UPDATE users SET active_group_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND active_group_id = ?`,
		targetUserID, groupID,
	); err != nil {
		return fmt.Errorf("clear active group: %w", err)
	}

	return tx.Commit()
}
