package billing

import (
	"fmt"

	"github.com/nurpe/rental-desk/internal/model"
)

// Period is a billing period with inclusive bounds.
type Period struct {
	From model.Date `json:"from"`
	To   model.Date `json:"to"`
}

func (p Period) Valid() bool {
	return p.From.Valid() && p.To.Valid()
}

// Overlaps reports whether two inclusive periods share at least one day.
func (p Period) Overlaps(o Period) bool {
	if !p.Valid() || !o.Valid() {
		return false
	}
	return !p.From.Time.After(o.To.Time) && !p.To.Time.Before(o.From.Time)
}

func (p Period) String() string {
	switch {
	case p.Valid():
		return fmt.Sprintf("%s - %s", p.From, p.To)
	case p.From.Valid():
		return fmt.Sprintf("from %s", p.From)
	case p.To.Valid():
		return fmt.Sprintf("until %s", p.To)
	}
	return "the automatically derived period"
}

func PeriodOf(b model.BillingData) Period {
	return Period{From: b.BillingPeriodFrom, To: b.BillingPeriodTo}
}

// CheckHistory returns an overlap rejection for the first earlier billing
// that shares a day with the requested period.
func CheckHistory(requested Period, history []model.BillingData) *OverlapRejection {
	for _, record := range history {
		if requested.Overlaps(PeriodOf(record)) {
			return &OverlapRejection{Existing: record, Requested: requested}
		}
	}
	return nil
}
