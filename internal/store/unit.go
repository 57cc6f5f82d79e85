package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vietnoy/pantry/internal/model"
)

type UnitStore struct {
	db *sql.DB
}

func NewUnitStore(db *sql.DB) *UnitStore {
	return &UnitStore{db: db}
}

func scanUnit(scanner interface{ Scan(...any) error }) (*model.Unit, error) {
	var u model.Unit
	var baseUnitID sql.NullInt64
	var factor sql.NullString

	err := scanner.Scan(&u.ID, &u.Name, &u.Type, &baseUnitID, &factor, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	if baseUnitID.Valid {
		u.BaseUnitID = &baseUnitID.Int64
	}
	if factor.Valid {
		d, err := decimal.NewFromString(factor.String)
		if err != nil {
			return nil, fmt.Errorf("parse conversion factor: %w", err)
		}
		u.ConversionFactor = &d
	}
	return &u, nil
}

const unitCols = `id, name, type, base_unit_id, conversion_factor, created_at`

func (s *UnitStore) Create(name, unitType string, baseUnitID *int64, factor *decimal.Decimal) (*model.Unit, error) {
	result, err := s.db.Exec(
		`INSERT INTO units (name, type, base_unit_id, conversion_factor) VALUES (?, ?, ?, ?)`,
		name, unitType, nullInt64(baseUnitID), nullDecimal(factor),
	)
	if err != nil {
		return nil, fmt.Errorf("insert unit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UnitStore) GetByID(id int64) (*model.Unit, error) {
	row := s.db.QueryRow(`SELECT `+unitCols+` FROM units WHERE id = ?`, id)
	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

func (s *UnitStore) GetByName(name string) (*model.Unit, error) {
	row := s.db.QueryRow(`SELECT `+unitCols+` FROM units WHERE name = ?`, name)
	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get unit by name: %w", err)
	}
	return u, nil
}

func (s *UnitStore) List() ([]model.Unit, error) {
	rows, err := s.db.Query(`SELECT ` + unitCols + ` FROM units ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []model.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

func (s *UnitStore) Update(id int64, name, unitType string, baseUnitID *int64, factor *decimal.Decimal) (*model.Unit, error) {
	_, err := s.db.Exec(
		`UPDATE units SET name = ?, type = ?, base_unit_id = ?, conversion_factor = ? WHERE id = ?`,
		name, unitType, nullInt64(baseUnitID), nullDecimal(factor), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update unit: %w", err)
	}
	return s.GetByID(id)
}

func (s *UnitStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM units WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return nil
}

// HasDependents reports whether other units derive from this one.
func (s *UnitStore) HasDependents(id int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM units WHERE base_unit_id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count dependent units: %w", err)
	}
	return n > 0, nil
}

// InUse reports whether any food still references the unit.
func (s *UnitStore) InUse(id int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM foods WHERE unit_id = ? AND is_active = 1`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count unit references: %w", err)
	}
	return n > 0, nil
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}
