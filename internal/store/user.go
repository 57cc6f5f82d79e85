package store

import (
	"database/sql"
	"fmt"

	"github.com/vietnoy/pantry/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var username, gender, countryCode, birthDate, photoURL, deviceID sql.NullString
	var activeGroupID sql.NullInt64
	var isActivated, isVerified int

	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &username, &u.Language,
		&gender, &countryCode, &u.Timezone, &birthDate, &photoURL, &deviceID,
		&isActivated, &isVerified, &activeGroupID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.IsActivated = isActivated != 0
	u.IsVerified = isVerified != 0
	if username.Valid {
		u.Username = &username.String
	}
	if gender.Valid {
		u.Gender = &gender.String
	}
	if countryCode.Valid {
		u.CountryCode = &countryCode.String
	}
	if birthDate.Valid {
		u.BirthDate = &birthDate.String
	}
	if photoURL.Valid {
		u.PhotoURL = &photoURL.String
	}
	if deviceID.Valid {
		u.DeviceID = &deviceID.String
	}
	if activeGroupID.Valid {
		u.ActiveGroupID = &activeGroupID.Int64
	}
	return &u, nil
}

const userCols = `id, email, password_hash, name, username, language, gender, country_code, timezone, birth_date, photo_url, device_id, is_activated, is_verified, active_group_id, created_at, updated_at`

type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	Username     *string
	Language     string
	Timezone     int
	DeviceID     *string
}

func (s *UserStore) Create(u NewUser) (*model.User, error) {
	if u.Language == "" {
		u.Language = "en"
	}
	result, err := s.db.Exec(
		`INSERT INTO users (email, password_hash, name, username, language, timezone, device_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.PasswordHash, u.Name, nullString(u.Username), u.Language, u.Timezone, nullString(u.DeviceID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

type ProfileUpdate struct {
	Name        *string
	Username    *string
	Language    *string
	Gender      *string
	CountryCode *string
	Timezone    *int
	BirthDate   *string
}

// UpdateProfile applies the non-nil fields and returns the updated row.
func (s *UserStore) UpdateProfile(id int64, p ProfileUpdate) (*model.User, error) {
	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Username != nil {
		u.Username = p.Username
	}
	if p.Language != nil {
		u.Language = *p.Language
	}
	if p.Gender != nil {
		u.Gender = p.Gender
	}
	if p.CountryCode != nil {
		u.CountryCode = p.CountryCode
	}
	if p.Timezone != nil {
		u.Timezone = *p.Timezone
	}
	if p.BirthDate != nil {
		u.BirthDate = p.BirthDate
	}

	_, err = s.db.Exec(
		`UPDATE users SET name = ?, username = ?, language = ?, gender = ?, country_code = ?, timezone = ?, birth_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		u.Name, nullString(u.Username), u.Language, nullString(u.Gender),
		nullString(u.CountryCode), u.Timezone, nullString(u.BirthDate), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update user profile: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) UpdatePassword(id int64, passwordHash string) error {
	_, err := s.db.Exec(
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *UserStore) UpdatePhotoURL(id int64, photoURL string) error {
	_, err := s.db.Exec(
		`UPDATE users SET photo_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		photoURL, id,
	)
	if err != nil {
		return fmt.Errorf("update photo url: %w", err)
	}
	return nil
}

func (s *UserStore) MarkVerified(email string) error {
	_, err := s.db.Exec(
		`UPDATE users SET is_verified = 1, updated_at = CURRENT_TIMESTAMP WHERE email = ?`,
		email,
	)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
