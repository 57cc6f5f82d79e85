package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vietnoy/pantry/internal/domain"
	"github.com/vietnoy/pantry/internal/model"
)

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

func scanShoppingList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var description, dueDate, budget, totalCost sql.NullString
	var assignTo sql.NullInt64
	var assignToUsername sql.NullString
	var isArchived int

	err := scanner.Scan(
		&l.ID, &l.Name, &description, &l.GroupID, &assignTo, &assignToUsername, &dueDate,
		&l.Priority, &l.Status, &budget, &totalCost, &isArchived, &l.CreatedBy,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.IsArchived = isArchived != 0
	if description.Valid {
		l.Description = &description.String
	}
	if assignTo.Valid {
		l.AssignToUserID = &assignTo.Int64
	}
	if assignToUsername.Valid {
		l.AssignToUsername = &assignToUsername.String
	}
	if dueDate.Valid {
		l.DueDate = &dueDate.String
	}
	if budget.Valid {
		d, err := decimal.NewFromString(budget.String)
		if err != nil {
			return nil, fmt.Errorf("parse budget: %w", err)
		}
		l.Budget = &d
	}
	if totalCost.Valid {
		l.TotalCost, err = decimal.NewFromString(totalCost.String)
		if err != nil {
			return nil, fmt.Errorf("parse total cost: %w", err)
		}
	}
	return &l, nil
}

const shoppingListCols = `l.id, l.name, l.description, l.group_id, l.assign_to_user_id, a.username, l.due_date, l.priority, l.status, l.budget, l.total_cost, l.is_archived, l.created_by, l.created_at, l.updated_at`

const shoppingListFrom = ` FROM shopping_lists l
	LEFT JOIN users a ON a.id = l.assign_to_user_id`

type ShoppingListInput struct {
	Name           string
	Description    *string
	AssignToUserID *int64
	DueDate        *string
	Priority       string
	Budget         *decimal.Decimal
}

func (s *ShoppingStore) CreateList(groupID, createdBy int64, in ShoppingListInput) (*model.ShoppingList, error) {
	result, err := s.db.Exec(
		`INSERT INTO shopping_lists (name, description, group_id, assign_to_user_id, due_date, priority, budget, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, nullString(in.Description), groupID, nullInt64(in.AssignToUserID),
		nullString(in.DueDate), in.Priority, nullDecimal(in.Budget), createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetList(id)
}

func (s *ShoppingStore) GetList(id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+shoppingListCols+shoppingListFrom+` WHERE l.id = ?`, id)
	l, err := scanShoppingList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	return l, nil
}

type ShoppingListFilter struct {
	Status          string
	AssignToUserID  *int64
	IncludeArchived bool
}

func (s *ShoppingStore) ListByGroup(groupID int64, filter ShoppingListFilter) ([]model.ShoppingList, error) {
	query := `SELECT ` + shoppingListCols + shoppingListFrom + ` WHERE l.group_id = ?`
	args := []any{groupID}
	if filter.Status != "" {
		query += ` AND l.status = ?`
		args = append(args, filter.Status)
	}
	if filter.AssignToUserID != nil {
		query += ` AND l.assign_to_user_id = ?`
		args = append(args, *filter.AssignToUserID)
	}
	if !filter.IncludeArchived {
		query += ` AND l.is_archived = 0`
	}
	query += ` ORDER BY l.created_at DESC, l.id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanShoppingList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *ShoppingStore) UpdateList(id int64, in ShoppingListInput, status string, isArchived bool) (*model.ShoppingList, error) {
	_, err := s.db.Exec(
		`UPDATE shopping_lists SET name = ?, description = ?, assign_to_user_id = ?, due_date = ?, priority = ?, status = ?, budget = ?, is_archived = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		in.Name, nullString(in.Description), nullInt64(in.AssignToUserID), nullString(in.DueDate),
		in.Priority, status, nullDecimal(in.Budget), boolToInt(isArchived), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update shopping list: %w", err)
	}
	return s.GetList(id)
}

// DeleteList removes the list; its tasks go with it via ON DELETE CASCADE.
func (s *ShoppingStore) DeleteList(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}
	return nil
}

func scanShoppingTask(scanner interface{ Scan(...any) error }) (*model.ShoppingTask, error) {
	var t model.ShoppingTask
	var quantity string
	var unitID, doneBy sql.NullInt64
	var note, estimated, actual sql.NullString
	var foodName, unitName sql.NullString
	var isDone int
	var doneAt sql.NullTime

	err := scanner.Scan(
		&t.ID, &t.ListID, &t.FoodID, &foodName, &quantity, &unitID, &unitName, &note,
		&estimated, &actual, &t.Priority, &isDone, &doneAt, &doneBy,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Quantity, err = decimal.NewFromString(quantity)
	if err != nil {
		return nil, fmt.Errorf("parse quantity: %w", err)
	}
	t.IsDone = isDone != 0
	if foodName.Valid {
		t.FoodName = foodName.String
	}
	if unitID.Valid {
		t.UnitID = &unitID.Int64
	}
	if unitName.Valid {
		t.UnitName = &unitName.String
	}
	if note.Valid {
		t.Note = &note.String
	}
	if estimated.Valid {
		d, err := decimal.NewFromString(estimated.String)
		if err != nil {
			return nil, fmt.Errorf("parse estimated cost: %w", err)
		}
		t.EstimatedCost = &d
	}
	if actual.Valid {
		d, err := decimal.NewFromString(actual.String)
		if err != nil {
			return nil, fmt.Errorf("parse actual cost: %w", err)
		}
		t.ActualCost = &d
	}
	if doneAt.Valid {
		t.DoneAt = &doneAt.Time
	}
	if doneBy.Valid {
		t.DoneBy = &doneBy.Int64
	}
	return &t, nil
}

const shoppingTaskCols = `t.id, t.list_id, t.food_id, f.name, t.quantity, t.unit_id, u.name, t.note, t.estimated_cost, t.actual_cost, t.priority, t.is_done, t.done_at, t.done_by, t.created_at, t.updated_at`

const shoppingTaskFrom = ` FROM shopping_tasks t
	JOIN foods f ON f.id = t.food_id
	LEFT JOIN units u ON u.id = t.unit_id`

type ShoppingTaskInput struct {
	FoodID        int64
	Quantity      decimal.Decimal
	UnitID        *int64
	Note          *string
	EstimatedCost *decimal.Decimal
	ActualCost    *decimal.Decimal
	Priority      string
}

// CreateTasks inserts the batch and recomputes the list total in one
// transaction, so readers never observe a stale total alongside new tasks.
func (s *ShoppingStore) CreateTasks(listID int64, inputs []ShoppingTaskInput) ([]model.ShoppingTask, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		result, err := tx.Exec(
			`INSERT INTO shopping_tasks (list_id, food_id, quantity, unit_id, note, estimated_cost, actual_cost, priority)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			listID, in.FoodID, in.Quantity.String(), nullInt64(in.UnitID), nullString(in.Note),
			nullDecimal(in.EstimatedCost), nullDecimal(in.ActualCost), in.Priority,
		)
		if err != nil {
			return nil, fmt.Errorf("insert shopping task: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := recomputeListTotal(tx, listID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	tasks := make([]model.ShoppingTask, 0, len(ids))
	for _, id := range ids {
		t, err := s.GetTask(id)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (s *ShoppingStore) GetTask(id int64) (*model.ShoppingTask, error) {
	row := s.db.QueryRow(`SELECT `+shoppingTaskCols+shoppingTaskFrom+` WHERE t.id = ?`, id)
	t, err := scanShoppingTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping task: %w", err)
	}
	return t, nil
}

func (s *ShoppingStore) ListTasks(listID int64) ([]model.ShoppingTask, error) {
	rows, err := s.db.Query(
		`SELECT `+shoppingTaskCols+shoppingTaskFrom+` WHERE t.list_id = ? ORDER BY t.created_at ASC, t.id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shopping tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.ShoppingTask
	for rows.Next() {
		t, err := scanShoppingTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *ShoppingStore) UpdateTask(id, listID int64, in ShoppingTaskInput) (*model.ShoppingTask, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE shopping_tasks SET food_id = ?, quantity = ?, unit_id = ?, note = ?, estimated_cost = ?, actual_cost = ?, priority = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		in.FoodID, in.Quantity.String(), nullInt64(in.UnitID), nullString(in.Note),
		nullDecimal(in.EstimatedCost), nullDecimal(in.ActualCost), in.Priority, id,
	); err != nil {
		return nil, fmt.Errorf("update shopping task: %w", err)
	}

	if err := recomputeListTotal(tx, listID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetTask(id)
}

// SetTaskDone toggles completion. Marking done records who and when, and an
// actual cost may land in the same write. Clearing done clears both stamps.
func (s *ShoppingStore) SetTaskDone(id, listID int64, done bool, doneBy int64, actualCost *decimal.Decimal) (*model.ShoppingTask, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if done {
		if actualCost != nil {
			_, err = tx.Exec(
				`UPDATE shopping_tasks SET is_done = 1, done_at = CURRENT_TIMESTAMP, done_by = ?, actual_cost = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				doneBy, actualCost.String(), id,
			)
		} else {
			_, err = tx.Exec(
				`UPDATE shopping_tasks SET is_done = 1, done_at = CURRENT_TIMESTAMP, done_by = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				doneBy, id,
			)
		}
	} else {
		_, err = tx.Exec(
			`UPDATE shopping_tasks SET is_done = 0, done_at = NULL, done_by = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("set shopping task done: %w", err)
	}

	if err := recomputeListTotal(tx, listID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetTask(id)
}

func (s *ShoppingStore) DeleteTask(id, listID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM shopping_tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete shopping task: %w", err)
	}
	if err := recomputeListTotal(tx, listID); err != nil {
		return err
	}
	return tx.Commit()
}

// recomputeListTotal rebuilds total_cost from every task on the list,
// preferring actual_cost over estimated_cost per task. Costs are TEXT
// columns, so the sum runs through decimal arithmetic rather than SQL.
func recomputeListTotal(tx *sql.Tx, listID int64) error {
	rows, err := tx.Query(
		`SELECT estimated_cost, actual_cost FROM shopping_tasks WHERE list_id = ?`,
		listID,
	)
	if err != nil {
		return fmt.Errorf("query task costs: %w", err)
	}
	defer rows.Close()

	var costs []domain.TaskCost
	for rows.Next() {
		var estimated, actual sql.NullString
		if err := rows.Scan(&estimated, &actual); err != nil {
			return fmt.Errorf("scan task costs: %w", err)
		}
		var tc domain.TaskCost
		if estimated.Valid {
			d, err := decimal.NewFromString(estimated.String)
			if err != nil {
				return fmt.Errorf("parse estimated cost: %w", err)
			}
			tc.EstimatedCost = &d
		}
		if actual.Valid {
			d, err := decimal.NewFromString(actual.String)
			if err != nil {
				return fmt.Errorf("parse actual cost: %w", err)
			}
			tc.ActualCost = &d
		}
		costs = append(costs, tc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate task costs: %w", err)
	}

	total := domain.TotalCost(costs)
	if _, err := tx.Exec(
		`UPDATE shopping_lists SET total_cost = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		total.String(), listID,
	); err != nil {
		return fmt.Errorf("update list total: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
