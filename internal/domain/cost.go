package domain

import "github.com/shopspring/decimal"

// TaskCost is the slice of a shopping task that matters for list totals.
type TaskCost struct {
	EstimatedCost *decimal.Decimal
	ActualCost    *decimal.Decimal
}

// TotalCost sums task costs for a list: the actual cost when recorded,
// otherwise the estimate, otherwise zero. Always a full recomputation over
// the current tasks, never an incremental delta, so the stored total cannot
// drift from its inputs. Rounded half-up to two decimal places.
func TotalCost(tasks []TaskCost) decimal.Decimal {
	total := decimal.Zero
	for _, t := range tasks {
		switch {
		case t.ActualCost != nil:
			total = total.Add(*t.ActualCost)
		case t.EstimatedCost != nil:
			total = total.Add(*t.EstimatedCost)
		}
	}
	return MoneyRound(total)
}

// MoneyRound applies the repository-wide rounding policy for money:
// half-up to 2 decimal places.
func MoneyRound(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
