package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vietnoy/pantry/internal/model"
)

type FridgeStore struct {
	db *sql.DB
}

func NewFridgeStore(db *sql.DB) *FridgeStore {
	return &FridgeStore{db: db}
}

func scanFridgeItem(scanner interface{ Scan(...any) error }) (*model.FridgeItem, error) {
	var item model.FridgeItem
	var quantity string
	var unitID sql.NullInt64
	var note, purchaseDate, location, cost sql.NullString
	var foodName, unitName sql.NullString
	var isOpened int
	var openedAt sql.NullTime

	err := scanner.Scan(
		&item.ID, &item.FoodID, &foodName, &item.GroupID, &quantity, &unitID, &unitName,
		&note, &purchaseDate, &item.UseWithinDate, &location, &isOpened, &openedAt,
		&cost, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Quantity, err = decimal.NewFromString(quantity)
	if err != nil {
		return nil, fmt.Errorf("parse quantity: %w", err)
	}
	item.IsOpened = isOpened != 0
	if foodName.Valid {
		item.FoodName = foodName.String
	}
	if unitID.Valid {
		item.UnitID = &unitID.Int64
	}
	if unitName.Valid {
		item.UnitName = &unitName.String
	}
	if note.Valid {
		item.Note = &note.String
	}
	if purchaseDate.Valid {
		item.PurchaseDate = &purchaseDate.String
	}
	if location.Valid {
		item.Location = &location.String
	}
	if openedAt.Valid {
		item.OpenedAt = &openedAt.Time
	}
	if cost.Valid {
		d, err := decimal.NewFromString(cost.String)
		if err != nil {
			return nil, fmt.Errorf("parse cost: %w", err)
		}
		item.Cost = &d
	}
	return &item, nil
}

const fridgeItemCols = `i.id, i.food_id, f.name, i.group_id, i.quantity, i.unit_id, u.name, i.note, i.purchase_date, i.use_within_date, i.location, i.is_opened, i.opened_at, i.cost, i.created_by, i.created_at, i.updated_at`

const fridgeItemFrom = ` FROM fridge_items i
	JOIN foods f ON f.id = i.food_id
	LEFT JOIN units u ON u.id = i.unit_id`

type FridgeItemInput struct {
	FoodID        int64
	Quantity      decimal.Decimal
	UnitID        *int64
	Note          *string
	PurchaseDate  *string
	UseWithinDate string
	Location      *string
	Cost          *decimal.Decimal
}

func (s *FridgeStore) Create(groupID, createdBy int64, in FridgeItemInput) (*model.FridgeItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO fridge_items (food_id, group_id, quantity, unit_id, note, purchase_date, use_within_date, location, cost, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.FoodID, groupID, in.Quantity.String(), nullInt64(in.UnitID), nullString(in.Note),
		nullString(in.PurchaseDate), in.UseWithinDate, nullString(in.Location),
		nullDecimal(in.Cost), createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert fridge item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *FridgeStore) GetByID(id int64) (*model.FridgeItem, error) {
	row := s.db.QueryRow(`SELECT `+fridgeItemCols+fridgeItemFrom+` WHERE i.id = ?`, id)
	item, err := scanFridgeItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get fridge item: %w", err)
	}
	return item, nil
}

type FridgeFilter struct {
	Location      string
	ExpiringUntil string
}

func (s *FridgeStore) ListByGroup(groupID int64, filter FridgeFilter) ([]model.FridgeItem, error) {
	query := `SELECT ` + fridgeItemCols + fridgeItemFrom + ` WHERE i.group_id = ?`
	args := []any{groupID}
	if filter.Location != "" {
		query += ` AND i.location = ?`
		args = append(args, filter.Location)
	}
	if filter.ExpiringUntil != "" {
		query += ` AND i.use_within_date <= ?`
		args = append(args, filter.ExpiringUntil)
	}
	query += ` ORDER BY i.use_within_date ASC, i.id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fridge items: %w", err)
	}
	defer rows.Close()

	var items []model.FridgeItem
	for rows.Next() {
		item, err := scanFridgeItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fridge item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *FridgeStore) Update(id int64, in FridgeItemInput) (*model.FridgeItem, error) {
	_, err := s.db.Exec(
		`UPDATE fridge_items SET food_id = ?, quantity = ?, unit_id = ?, note = ?, purchase_date = ?, use_within_date = ?, location = ?, cost = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		in.FoodID, in.Quantity.String(), nullInt64(in.UnitID), nullString(in.Note),
		nullString(in.PurchaseDate), in.UseWithinDate, nullString(in.Location),
		nullDecimal(in.Cost), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update fridge item: %w", err)
	}
	return s.GetByID(id)
}

// MarkOpened records first opening. Already-opened items keep their
// original opened_at.
func (s *FridgeStore) MarkOpened(id int64) (*model.FridgeItem, error) {
	_, err := s.db.Exec(
		`UPDATE fridge_items SET is_opened = 1, opened_at = COALESCE(opened_at, CURRENT_TIMESTAMP), updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("mark fridge item opened: %w", err)
	}
	return s.GetByID(id)
}

func (s *FridgeStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM fridge_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete fridge item: %w", err)
	}
	return nil
}
