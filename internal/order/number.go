package order

import (
	"fmt"
	"time"
)

// FormatOrderNumber renders the display identifier for the seq-th order of a
// day: ORD-YYYYMMDD-NNN. The sequence resets daily and is zero-padded to
// three digits; beyond 999 the number simply grows wider.
//
// The sequence itself comes from the order_counters upsert inside the
// creation transaction, so two concurrent creations can never observe the
// same value.
func FormatOrderNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%03d", day.UTC().Format("20060102"), seq)
}
