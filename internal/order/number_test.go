package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Format", func(t *testing.T) {
		assert.Equal(t, "ORD-20260901-001", FormatOrderNumber(day, 1))
		assert.Equal(t, "ORD-20260901-042", FormatOrderNumber(day, 42))
		assert.Equal(t, "ORD-20260901-999", FormatOrderNumber(day, 999))
	})

	t.Run("GrowsPastPadding", func(t *testing.T) {
		assert.Equal(t, "ORD-20260901-1000", FormatOrderNumber(day, 1000))
	})

	t.Run("NormalizesToUTC", func(t *testing.T) {
		jakarta := time.FixedZone("WIB", 7*3600)
		// 02:00 on Sep 2 in UTC+7 is still Sep 1 in UTC.
		local := time.Date(2026, 9, 2, 2, 0, 0, 0, jakarta)
		assert.Equal(t, "ORD-20260901-005", FormatOrderNumber(local, 5))
	})

	t.Run("DistinctAcrossSequences", func(t *testing.T) {
		seen := make(map[string]bool)
		for seq := int64(1); seq <= 500; seq++ {
			n := FormatOrderNumber(day, seq)
			assert.False(t, seen[n], "duplicate order number %s", n)
			seen[n] = true
		}
	})

	t.Run("DailyReset", func(t *testing.T) {
		next := day.AddDate(0, 0, 1)
		assert.NotEqual(t, FormatOrderNumber(day, 1), FormatOrderNumber(next, 1))
	})
}
