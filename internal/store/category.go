package store

import (
	"database/sql"
	"fmt"

	"github.com/vietnoy/pantry/internal/model"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	var description sql.NullString

	err := scanner.Scan(&c.ID, &c.Name, &description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		c.Description = &description.String
	}
	return &c, nil
}

const categoryCols = `id, name, description, created_at`

func (s *CategoryStore) Create(name string, description *string) (*model.Category, error) {
	result, err := s.db.Exec(
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		name, nullString(description),
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CategoryStore) GetByID(id int64) (*model.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) GetByName(name string) (*model.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE name = ?`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) List() ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryCols + ` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) Update(id int64, name string, description *string) (*model.Category, error) {
	_, err := s.db.Exec(
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		name, nullString(description), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.GetByID(id)
}

func (s *CategoryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// InUse reports whether any food still references the category.
func (s *CategoryStore) InUse(id int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM foods WHERE category_id = ? AND is_active = 1`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count category references: %w", err)
	}
	return n > 0, nil
}
