package rollup_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

func TestNewPeriod_Validates(t *testing.T) {
	t.Parallel()

	_, err := rollup.NewPeriod(2025, 13)
	require.ErrorIs(t, err, rollup.ErrInvalidMonth)

	_, err = rollup.NewPeriod(2025, 0)
	require.ErrorIs(t, err, rollup.ErrInvalidMonth)

	_, err = rollup.NewPeriod(0, time.May)
	require.ErrorIs(t, err, rollup.ErrInvalidYear)

	p, err := rollup.NewPeriod(2025, time.November)
	require.NoError(t, err)
	assert.Equal(t, rollup.Period{Year: 2025, Month: time.November}, p)
}

func TestResolvePeriod(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		month int
		year  int
		auto  bool
		want  rollup.Period
	}{
		{name: "current month", want: rollup.Period{Year: 2026, Month: time.January}},
		{name: "auto wraps to previous year", auto: true, want: rollup.Period{Year: 2025, Month: time.December}},
		{name: "explicit month", month: 3, want: rollup.Period{Year: 2026, Month: time.March}},
		{name: "explicit month and year", month: 11, year: 2024, want: rollup.Period{Year: 2024, Month: time.November}},
		{name: "explicit overrides auto", month: 6, auto: true, want: rollup.Period{Year: 2025, Month: time.June}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := rollup.ResolvePeriod(now, tt.month, tt.year, tt.auto)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePeriod_RejectsBadMonth(t *testing.T) {
	t.Parallel()

	_, err := rollup.ResolvePeriod(time.Now(), 14, 0, false)
	require.ErrorIs(t, err, rollup.ErrInvalidMonth)
}

func TestPeriod_Formatting(t *testing.T) {
	t.Parallel()

	p := rollup.Period{Year: 2025, Month: time.November}

	assert.Equal(t, "November 2025", p.String())
	assert.Equal(t, "2025-11", p.Key())
	assert.Equal(t, rollup.Period{Year: 2025, Month: time.October}, p.Previous())
	assert.True(t, p.Contains(time.Date(2025, time.November, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, time.November, 3, 0, 0, 0, 0, time.UTC)))
}
