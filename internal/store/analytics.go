package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vietnoy/pantry/internal/domain"
)

type AnalyticsStore struct {
	db *sql.DB
}

func NewAnalyticsStore(db *sql.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

type MonthlySpending struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
	Tasks int             `json:"tasks"`
}

// MonthlySpending groups completed purchases by calendar month of done_at.
// Costs live in TEXT columns, so sums run through decimal arithmetic
// instead of SQL aggregation.
func (s *AnalyticsStore) MonthlySpending(groupID int64, from, to string) ([]MonthlySpending, error) {
	query := `SELECT strftime('%Y-%m', t.done_at), t.estimated_cost, t.actual_cost
		FROM shopping_tasks t
		JOIN shopping_lists l ON l.id = t.list_id
		WHERE l.group_id = ? AND t.is_done = 1 AND t.done_at IS NOT NULL`
	args := []any{groupID}
	if from != "" {
		query += ` AND t.done_at >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND t.done_at <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY t.done_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query monthly spending: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]*MonthlySpending)
	var order []string
	for rows.Next() {
		var month string
		var estimated, actual sql.NullString
		if err := rows.Scan(&month, &estimated, &actual); err != nil {
			return nil, fmt.Errorf("scan monthly spending: %w", err)
		}
		cost, err := effectiveCost(estimated, actual)
		if err != nil {
			return nil, err
		}
		m, ok := totals[month]
		if !ok {
			m = &MonthlySpending{Month: month}
			totals[month] = m
			order = append(order, month)
		}
		m.Total = domain.MoneyRound(m.Total.Add(cost))
		m.Tasks++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly spending: %w", err)
	}

	result := make([]MonthlySpending, 0, len(order))
	for _, month := range order {
		result = append(result, *totals[month])
	}
	return result, nil
}

type CategorySpending struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Tasks    int             `json:"tasks"`
}

// CategoryBreakdown groups completed purchases by the food's category name.
// Foods without a category land under "uncategorized".
func (s *AnalyticsStore) CategoryBreakdown(groupID int64, from, to string) ([]CategorySpending, error) {
	query := `SELECT COALESCE(f.category_name, 'uncategorized'), t.estimated_cost, t.actual_cost
		FROM shopping_tasks t
		JOIN shopping_lists l ON l.id = t.list_id
		JOIN foods f ON f.id = t.food_id
		WHERE l.group_id = ? AND t.is_done = 1 AND t.done_at IS NOT NULL`
	args := []any{groupID}
	if from != "" {
		query += ` AND t.done_at >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND t.done_at <= ?`
		args = append(args, to)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category breakdown: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]*CategorySpending)
	var order []string
	for rows.Next() {
		var category string
		var estimated, actual sql.NullString
		if err := rows.Scan(&category, &estimated, &actual); err != nil {
			return nil, fmt.Errorf("scan category breakdown: %w", err)
		}
		cost, err := effectiveCost(estimated, actual)
		if err != nil {
			return nil, err
		}
		c, ok := totals[category]
		if !ok {
			c = &CategorySpending{Category: category}
			totals[category] = c
			order = append(order, category)
		}
		c.Total = domain.MoneyRound(c.Total.Add(cost))
		c.Tasks++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category breakdown: %w", err)
	}

	result := make([]CategorySpending, 0, len(order))
	for _, category := range order {
		result = append(result, *totals[category])
	}
	return result, nil
}

type Summary struct {
	TotalSpent     decimal.Decimal `json:"total_spent"`
	CompletedTasks int             `json:"completed_tasks"`
	PendingTasks   int             `json:"pending_tasks"`
	ActiveLists    int             `json:"active_lists"`
	FridgeItems    int             `json:"fridge_items"`
}

func (s *AnalyticsStore) Summary(groupID int64) (*Summary, error) {
	var sum Summary

	rows, err := s.db.Query(
		`SELECT t.estimated_cost, t.actual_cost
		 FROM shopping_tasks t
		 JOIN shopping_lists l ON l.id = t.list_id
		 WHERE l.group_id = ? AND t.is_done = 1`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("query completed tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var estimated, actual sql.NullString
		if err := rows.Scan(&estimated, &actual); err != nil {
			return nil, fmt.Errorf("scan completed task: %w", err)
		}
		cost, err := effectiveCost(estimated, actual)
		if err != nil {
			return nil, err
		}
		sum.TotalSpent = domain.MoneyRound(sum.TotalSpent.Add(cost))
		sum.CompletedTasks++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed tasks: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*)
		 FROM shopping_tasks t
		 JOIN shopping_lists l ON l.id = t.list_id
		 WHERE l.group_id = ? AND t.is_done = 0`,
		groupID,
	).Scan(&sum.PendingTasks)
	if err != nil {
		return nil, fmt.Errorf("count pending tasks: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM shopping_lists WHERE group_id = ? AND status = 'active' AND is_archived = 0`,
		groupID,
	).Scan(&sum.ActiveLists)
	if err != nil {
		return nil, fmt.Errorf("count active lists: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM fridge_items WHERE group_id = ?`,
		groupID,
	).Scan(&sum.FridgeItems)
	if err != nil {
		return nil, fmt.Errorf("count fridge items: %w", err)
	}

	return &sum, nil
}

func effectiveCost(estimated, actual sql.NullString) (decimal.Decimal, error) {
	raw := estimated
	if actual.Valid {
		raw = actual
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse cost: %w", err)
	}
	return d, nil
}
