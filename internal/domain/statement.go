package domain

import (
	"time"

	"banking-service/pkg/xerrors"
)

// Statement is a period-scoped snapshot derived from the transaction log.
// It is a cache artifact: regenerating it replays the log prefix, it never
// feeds back into live balances.
type Statement struct {
	ID                  int64     `json:"id"`
	AccountID           int64     `json:"account_id"`
	PeriodStart         time.Time `json:"period_start"` // inclusive
	PeriodEnd           time.Time `json:"period_end"`   // exclusive
	OpeningBalanceCents int64     `json:"opening_balance_cents"`
	ClosingBalanceCents int64     `json:"closing_balance_cents"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// ParsePeriod validates a "YYYY-MM" label and returns the period bounds:
// first instant of the month and first instant of the following month, UTC.
func ParsePeriod(label string) (start, end time.Time, err error) {
	if len(label) != 7 {
		return time.Time{}, time.Time{}, xerrors.ErrInvalidPeriod
	}
	t, perr := time.Parse("2006-01", label)
	if perr != nil {
		return time.Time{}, time.Time{}, xerrors.ErrInvalidPeriod
	}

	year, month := t.Year(), t.Month()
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	if month == time.December {
		end = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	} else {
		end = time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return start, end, nil
}
