package store

import (
	"database/sql"
	"fmt"

	"github.com/vietnoy/pantry/internal/model"
)

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	var foodID sql.NullInt64
	var prepTime, cookTime, servings sql.NullInt64
	var difficulty, imageURL sql.NullString
	var isPublic int

	err := scanner.Scan(
		&r.ID, &r.Name, &r.Description, &r.HTMLContent, &foodID, &r.GroupID,
		&prepTime, &cookTime, &servings, &difficulty, &imageURL, &isPublic,
		&r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.IsPublic = isPublic != 0
	if foodID.Valid {
		r.FoodID = &foodID.Int64
	}
	if prepTime.Valid {
		v := int(prepTime.Int64)
		r.PrepTimeMinutes = &v
	}
	if cookTime.Valid {
		v := int(cookTime.Int64)
		r.CookTimeMinutes = &v
	}
	if servings.Valid {
		v := int(servings.Int64)
		r.Servings = &v
	}
	if difficulty.Valid {
		r.Difficulty = &difficulty.String
	}
	if imageURL.Valid {
		r.ImageURL = &imageURL.String
	}
	return &r, nil
}

const recipeCols = `id, name, description, html_content, food_id, group_id, prep_time_minutes, cook_time_minutes, servings, difficulty, image_url, is_public, created_by, created_at, updated_at`

type RecipeInput struct {
	Name            string
	Description     string
	HTMLContent     string
	FoodID          *int64
	PrepTimeMinutes *int
	CookTimeMinutes *int
	Servings        *int
	Difficulty      *string
	ImageURL        *string
	IsPublic        bool
}

func (s *RecipeStore) Create(groupID, createdBy int64, in RecipeInput) (*model.Recipe, error) {
	result, err := s.db.Exec(
		`INSERT INTO recipes (name, description, html_content, food_id, group_id, prep_time_minutes, cook_time_minutes, servings, difficulty, image_url, is_public, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Description, in.HTMLContent, nullInt64(in.FoodID), groupID,
		nullInt(in.PrepTimeMinutes), nullInt(in.CookTimeMinutes), nullInt(in.Servings),
		nullString(in.Difficulty), nullString(in.ImageURL), boolToInt(in.IsPublic), createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RecipeStore) GetByID(id int64) (*model.Recipe, error) {
	row := s.db.QueryRow(`SELECT `+recipeCols+` FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}

type RecipeFilter struct {
	FoodID *int64
	Search string
}

// ListVisible returns the group's own recipes plus public recipes from
// other groups.
func (s *RecipeStore) ListVisible(groupID int64, filter RecipeFilter) ([]model.Recipe, error) {
	query := `SELECT ` + recipeCols + ` FROM recipes WHERE (group_id = ? OR is_public = 1)`
	args := []any{groupID}
	if filter.FoodID != nil {
		query += ` AND food_id = ?`
		args = append(args, *filter.FoodID)
	}
	if filter.Search != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+filter.Search+"%")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

func (s *RecipeStore) Update(id int64, in RecipeInput) (*model.Recipe, error) {
	_, err := s.db.Exec(
		`UPDATE recipes SET name = ?, description = ?, html_content = ?, food_id = ?, prep_time_minutes = ?, cook_time_minutes = ?, servings = ?, difficulty = ?, image_url = ?, is_public = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		in.Name, in.Description, in.HTMLContent, nullInt64(in.FoodID),
		nullInt(in.PrepTimeMinutes), nullInt(in.CookTimeMinutes), nullInt(in.Servings),
		nullString(in.Difficulty), nullString(in.ImageURL), boolToInt(in.IsPublic), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return s.GetByID(id)
}

func (s *RecipeStore) UpdateImageURL(id int64, imageURL string) error {
	_, err := s.db.Exec(
		`UPDATE recipes SET image_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		imageURL, id,
	)
	if err != nil {
		return fmt.Errorf("update recipe image: %w", err)
	}
	return nil
}

func (s *RecipeStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
