package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecurrence(t *testing.T) {
	valid := []string{
		"daily", "Every Day", "weekly", "monthly", "every month", "yearly",
		"weekdays", "every other week", "every 3 days", "every 2 weeks",
		"every 6 months", "every friday", "FREQ=MONTHLY;BYMONTHDAY=1",
		"RRULE:FREQ=WEEKLY;BYDAY=MO",
	}
	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			_, err := ParseRecurrence(s)
			require.NoError(t, err)
		})
	}

	invalid := []string{"", "sometimes", "every blursday", "FREQ=FORTNIGHTLY"}
	for _, s := range invalid {
		t.Run("invalid "+s, func(t *testing.T) {
			_, err := ParseRecurrence(s)
			require.Error(t, err)
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	// Wednesday.
	from := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		rule string
		want time.Time
	}{
		{"daily", from},
		{"every friday", time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)},
		{"every wednesday", from},
		{"FREQ=MONTHLY;BYMONTHDAY=1", time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			got, err := NextOccurrence(tt.rule, from)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestNextOccurrence_Exhausted(t *testing.T) {
	from := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	_, err := NextOccurrence("FREQ=DAILY;UNTIL=20200105T000000Z", from)
	require.ErrorIs(t, err, ErrNoOccurrence)
}
