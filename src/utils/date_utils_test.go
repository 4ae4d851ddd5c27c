package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayFirst(t *testing.T) {
	jan2 := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"slashes", "02/01/2025", jan2},
		{"single digits", "2/1/2025", jan2},
		{"dashes", "02-01-2025", jan2},
		{"dots", "02.01.2025", jan2},
		{"with time", "02/01/2025 18:30", jan2},
		{"with seconds", "02/01/2025 18:30:59", jan2},
		{"two digit year", "02/01/25", jan2},
		{"iso", "2025-01-02", jan2},
		{"padded", "  02/01/2025 ", jan2},
		{"day above twelve", "31/12/2024", time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayFirst(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseDayFirstRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "32/01/2025", "12/13/2025", "Total"} {
		_, err := ParseDayFirst(input)
		assert.Error(t, err, input)
	}
}

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2025, time.March, 9, 23, 59, 59, 999, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), TruncateToDay(in))
}
