package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vietnoy/pantry/internal/model"
)

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

func scanMealPlan(scanner interface{ Scan(...any) error }) (*model.MealPlan, error) {
	var m model.MealPlan
	var servingSize, note sql.NullString
	var unitID sql.NullInt64
	var foodName, unitName sql.NullString
	var isPrepared int
	var preparedAt sql.NullTime

	err := scanner.Scan(
		&m.ID, &m.FoodID, &foodName, &m.GroupID, &m.MealType, &m.MealDate, &servingSize,
		&unitID, &unitName, &note, &isPrepared, &preparedAt, &m.CreatedBy,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.IsPrepared = isPrepared != 0
	if foodName.Valid {
		m.FoodName = foodName.String
	}
	if servingSize.Valid {
		d, err := decimal.NewFromString(servingSize.String)
		if err != nil {
			return nil, fmt.Errorf("parse serving size: %w", err)
		}
		m.ServingSize = &d
	}
	if unitID.Valid {
		m.UnitID = &unitID.Int64
	}
	if unitName.Valid {
		m.UnitName = &unitName.String
	}
	if note.Valid {
		m.Note = &note.String
	}
	if preparedAt.Valid {
		m.PreparedAt = &preparedAt.Time
	}
	return &m, nil
}

const mealPlanCols = `m.id, m.food_id, f.name, m.group_id, m.meal_type, m.meal_date, m.serving_size, m.unit_id, u.name, m.note, m.is_prepared, m.prepared_at, m.created_by, m.created_at, m.updated_at`

const mealPlanFrom = ` FROM meal_plans m
	JOIN foods f ON f.id = m.food_id
	LEFT JOIN units u ON u.id = m.unit_id`

type MealPlanInput struct {
	FoodID      int64
	MealType    string
	MealDate    string
	ServingSize *decimal.Decimal
	UnitID      *int64
	Note        *string
}

func (s *MealPlanStore) Create(groupID, createdBy int64, in MealPlanInput) (*model.MealPlan, error) {
	result, err := s.db.Exec(
		`INSERT INTO meal_plans (food_id, group_id, meal_type, meal_date, serving_size, unit_id, note, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.FoodID, groupID, in.MealType, in.MealDate, nullDecimal(in.ServingSize),
		nullInt64(in.UnitID), nullString(in.Note), createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MealPlanStore) GetByID(id int64) (*model.MealPlan, error) {
	row := s.db.QueryRow(`SELECT `+mealPlanCols+mealPlanFrom+` WHERE m.id = ?`, id)
	m, err := scanMealPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	return m, nil
}

type MealPlanFilter struct {
	DateFrom string
	DateTo   string
	MealType string
}

func (s *MealPlanStore) ListByGroup(groupID int64, filter MealPlanFilter) ([]model.MealPlan, error) {
	query := `SELECT ` + mealPlanCols + mealPlanFrom + ` WHERE m.group_id = ?`
	args := []any{groupID}
	if filter.DateFrom != "" {
		query += ` AND m.meal_date >= ?`
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += ` AND m.meal_date <= ?`
		args = append(args, filter.DateTo)
	}
	if filter.MealType != "" {
		query += ` AND m.meal_type = ?`
		args = append(args, filter.MealType)
	}
	query += ` ORDER BY m.meal_date ASC, m.id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	defer rows.Close()

	var plans []model.MealPlan
	for rows.Next() {
		m, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}
		plans = append(plans, *m)
	}
	return plans, rows.Err()
}

func (s *MealPlanStore) Update(id int64, in MealPlanInput) (*model.MealPlan, error) {
	_, err := s.db.Exec(
		`UPDATE meal_plans SET food_id = ?, meal_type = ?, meal_date = ?, serving_size = ?, unit_id = ?, note = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		in.FoodID, in.MealType, in.MealDate, nullDecimal(in.ServingSize),
		nullInt64(in.UnitID), nullString(in.Note), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal plan: %w", err)
	}
	return s.GetByID(id)
}

func (s *MealPlanStore) SetPrepared(id int64, prepared bool) (*model.MealPlan, error) {
	var err error
	if prepared {
		_, err = s.db.Exec(
			`UPDATE meal_plans SET is_prepared = 1, prepared_at = COALESCE(prepared_at, CURRENT_TIMESTAMP), updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			id,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE meal_plans SET is_prepared = 0, prepared_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("set meal plan prepared: %w", err)
	}
	return s.GetByID(id)
}

func (s *MealPlanStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM meal_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete meal plan: %w", err)
	}
	return nil
}
