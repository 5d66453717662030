package core

// CategoryAmount pairs a category name with its monthly total.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthReport is the aggregated reporting view for one month: debit/credit
// totals plus per-category debit breakdowns, as returned by the backend.
type MonthReport struct {
	Year       int
	Month      int
	Debits     Money
	Credits    Money
	ByCategory []CategoryAmount
}

// Net returns credits minus debits for the month.
func (r MonthReport) Net() Money {
	return Money{Cents: r.Credits.Cents - r.Debits.Cents}
}
