package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/vietnoy/pantry/internal/domain"
)

const (
	codeTTL         = 15 * time.Minute
	maxCodeAttempts = 5
)

type VerificationStore struct {
	db *sql.DB
}

func NewVerificationStore(db *sql.DB) *VerificationStore {
	return &VerificationStore{db: db}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue creates a fresh code for the email and purpose, invalidating any
// earlier unused codes so only the latest one can succeed.
func (s *VerificationStore) Issue(email, purpose string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE verification_codes SET used = 1 WHERE email = ? AND purpose = ? AND used = 0`,
		email, purpose,
	); err != nil {
		return "", fmt.Errorf("invalidate old codes: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO verification_codes (email, code, purpose, expires_at) VALUES (?, ?, ?, ?)`,
		email, code, purpose, time.Now().UTC().Add(codeTTL),
	); err != nil {
		return "", fmt.Errorf("insert verification code: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	return code, nil
}

// Verify consumes the latest live code for the email and purpose. Every
// wrong guess counts against the attempt cap; a used, expired, or
// over-tried code never verifies.
func (s *VerificationStore) Verify(email, purpose, code string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	var stored string
	var attempts int
	var expiresAt time.Time
	err = tx.QueryRow(
		`SELECT id, code, attempts, expires_at FROM verification_codes
		 WHERE email = ? AND purpose = ? AND used = 0
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		email, purpose,
	).Scan(&id, &stored, &attempts, &expiresAt)
	if err == sql.ErrNoRows {
		return domain.Invalid("no verification code pending for this email")
	}
	if err != nil {
		return fmt.Errorf("get verification code: %w", err)
	}

	if time.Now().UTC().After(expiresAt) {
		return domain.Invalid("verification code has expired")
	}
	if attempts >= maxCodeAttempts {
		return domain.Invalid("too many attempts, request a new code")
	}

	if stored != code {
		if _, err := tx.Exec(
			`UPDATE verification_codes SET attempts = attempts + 1 WHERE id = ?`, id,
		); err != nil {
			return fmt.Errorf("bump attempts: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return domain.Invalid("incorrect verification code")
	}

	if _, err := tx.Exec(
		`UPDATE verification_codes SET used = 1, attempts = attempts + 1 WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	return tx.Commit()
}
