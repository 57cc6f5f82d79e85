package store

import (
	"database/sql"
	"fmt"

	"github.com/vietnoy/pantry/internal/model"
)

type FoodStore struct {
	db *sql.DB
}

func NewFoodStore(db *sql.DB) *FoodStore {
	return &FoodStore{db: db}
}

func scanFood(scanner interface{ Scan(...any) error }) (*model.Food, error) {
	var f model.Food
	var description, categoryName, unitName, imageURL, brand, storage sql.NullString
	var categoryID, unitID sql.NullInt64
	var shelfLife sql.NullInt64
	var isActive int

	err := scanner.Scan(
		&f.ID, &f.Name, &description, &categoryID, &categoryName, &unitID, &unitName,
		&imageURL, &brand, &shelfLife, &storage, &f.GroupID, &isActive, &f.CreatedBy,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.IsActive = isActive != 0
	if description.Valid {
		f.Description = &description.String
	}
	if categoryID.Valid {
		f.CategoryID = &categoryID.Int64
	}
	if categoryName.Valid {
		f.CategoryName = &categoryName.String
	}
	if unitID.Valid {
		f.UnitID = &unitID.Int64
	}
	if unitName.Valid {
		f.UnitName = &unitName.String
	}
	if imageURL.Valid {
		f.ImageURL = &imageURL.String
	}
	if brand.Valid {
		f.Brand = &brand.String
	}
	if shelfLife.Valid {
		days := int(shelfLife.Int64)
		f.DefaultShelfLifeDays = &days
	}
	if storage.Valid {
		f.StorageInstructions = &storage.String
	}
	return &f, nil
}

const foodCols = `id, name, description, category_id, category_name, unit_id, unit_name, image_url, brand, default_shelf_life_days, storage_instructions, group_id, is_active, created_by, created_at, updated_at`

type FoodInput struct {
	Name                 string
	Description          *string
	CategoryID           *int64
	CategoryName         *string
	UnitID               *int64
	UnitName             *string
	ImageURL             *string
	Brand                *string
	DefaultShelfLifeDays *int
	StorageInstructions  *string
}

func (s *FoodStore) Create(groupID, createdBy int64, in FoodInput) (*model.Food, error) {
	result, err := s.db.Exec(
		`INSERT INTO foods (name, description, category_id, category_name, unit_id, unit_name, image_url, brand, default_shelf_life_days, storage_instructions, group_id, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, nullString(in.Description), nullInt64(in.CategoryID), nullString(in.CategoryName),
		nullInt64(in.UnitID), nullString(in.UnitName), nullString(in.ImageURL), nullString(in.Brand),
		nullInt(in.DefaultShelfLifeDays), nullString(in.StorageInstructions), groupID, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert food: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *FoodStore) GetByID(id int64) (*model.Food, error) {
	row := s.db.QueryRow(`SELECT `+foodCols+` FROM foods WHERE id = ?`, id)
	f, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food: %w", err)
	}
	return f, nil
}

// GetActiveByName looks up a live food by name within the group. Used to
// enforce one active food per name per group.
func (s *FoodStore) GetActiveByName(groupID int64, name string) (*model.Food, error) {
	row := s.db.QueryRow(`SELECT `+foodCols+` FROM foods WHERE group_id = ? AND name = ? AND is_active = 1`, groupID, name)
	f, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food by name: %w", err)
	}
	return f, nil
}

type FoodFilter struct {
	CategoryID *int64
	Search     string
}

func (s *FoodStore) ListByGroup(groupID int64, filter FoodFilter) ([]model.Food, error) {
	query := `SELECT ` + foodCols + ` FROM foods WHERE group_id = ? AND is_active = 1`
	args := []any{groupID}
	if filter.CategoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *filter.CategoryID)
	}
	if filter.Search != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+filter.Search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	var foods []model.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		foods = append(foods, *f)
	}
	return foods, rows.Err()
}

func (s *FoodStore) Update(id int64, in FoodInput) (*model.Food, error) {
	_, err := s.db.Exec(
		`UPDATE foods SET name = ?, description = ?, category_id = ?, category_name = ?, unit_id = ?, unit_name = ?, image_url = ?, brand = ?, default_shelf_life_days = ?, storage_instructions = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		in.Name, nullString(in.Description), nullInt64(in.CategoryID), nullString(in.CategoryName),
		nullInt64(in.UnitID), nullString(in.UnitName), nullString(in.ImageURL), nullString(in.Brand),
		nullInt(in.DefaultShelfLifeDays), nullString(in.StorageInstructions), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update food: %w", err)
	}
	return s.GetByID(id)
}

func (s *FoodStore) UpdateImageURL(id int64, imageURL string) error {
	_, err := s.db.Exec(
		`UPDATE foods SET image_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		imageURL, id,
	)
	if err != nil {
		return fmt.Errorf("update food image: %w", err)
	}
	return nil
}

// SoftDelete hides the food from listings while keeping history rows valid.
func (s *FoodStore) SoftDelete(id int64) error {
	_, err := s.db.Exec(
		`UPDATE foods SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete food: %w", err)
	}
	return nil
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
