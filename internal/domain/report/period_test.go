package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger/internal/shared/apperror"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriod(t *testing.T) {
	// Wednesday
	now := time.Date(2026, 3, 18, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		token     string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{PeriodToday, day(2026, 3, 18), day(2026, 3, 19)},
		{PeriodThisWeek, day(2026, 3, 15), day(2026, 3, 22)},
		{PeriodLast7Days, day(2026, 3, 11), day(2026, 3, 19)},
		{PeriodThisMonth, day(2026, 3, 1), day(2026, 4, 1)},
		{"", day(2026, 3, 1), day(2026, 4, 1)},
		{PeriodLastMonth, day(2026, 2, 1), day(2026, 3, 1)},
		{PeriodThisYear, day(2026, 1, 1), day(2027, 1, 1)},
		{PeriodLastYear, day(2025, 1, 1), day(2026, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p, err := ResolvePeriod(tt.token, "", "", now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantEnd, p.End)
		})
	}
}

func TestResolvePeriod_LastMonthInJanuary(t *testing.T) {
	p, err := ResolvePeriod(PeriodLastMonth, "", "", time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 12, 1), p.Start)
	assert.Equal(t, day(2026, 1, 1), p.End)
}

func TestResolvePeriod_UsesLocationOfNow(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	// 23:30 UTC on the 31st is already the 1st in Lagos.
	now := time.Date(2026, 3, 31, 23, 30, 0, 0, time.UTC).In(lagos)
	p, err := ResolvePeriod(PeriodThisMonth, "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, lagos), p.Start)
}

func TestResolvePeriod_Custom(t *testing.T) {
	now := time.Date(2026, 3, 18, 14, 30, 0, 0, time.UTC)

	p, err := ResolvePeriod(PeriodCustom, "2026-01-10", "2026-02-10", now)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 1, 10), p.Start)
	assert.Equal(t, day(2026, 2, 10), p.End)

	// Missing sides default to today, giving an empty range.
	p, err = ResolvePeriod(PeriodCustom, "", "", now)
	require.NoError(t, err)
	assert.Equal(t, p.Start, p.End)

	_, err = ResolvePeriod(PeriodCustom, "10/01/2026", "", now)
	assert.True(t, apperror.IsValidation(err))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ResolvePeriod(PeriodCustom, "2026-03-01", "2026-02-01", now)
	assert.ErrorIs(t, err, ErrReversedPeriod)
}

func TestResolvePeriod_Unknown(t *testing.T) {
	_, err := ResolvePeriod("fortnight", "", "", time.Now())
	assert.True(t, apperror.IsValidation(err))
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestResolvePeriod_AllTime(t *testing.T) {
	p, err := ResolvePeriod(PeriodAllTime, "", "", time.Now())
	require.NoError(t, err)
	assert.True(t, p.Start.IsZero())
	assert.True(t, p.End.IsZero())
}
