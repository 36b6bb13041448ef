package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bizledger/internal/domain/ledger"
	"bizledger/internal/shared/apperror"
)

// Period tokens accepted by ResolvePeriod
const (
	PeriodToday      = "today"
	PeriodThisWeek   = "this_week"
	PeriodLast7Days  = "last_7_days"
	PeriodThisMonth  = "this_month"
	PeriodLastMonth  = "last_month"
	PeriodThisYear   = "this_year"
	PeriodLastYear   = "last_year"
	PeriodCustom     = "custom"
	PeriodAllTime    = "all_time"
	customDateLayout = "2006-01-02"
)

var (
	ErrUnknownPeriod  = errors.New("unknown period")
	ErrInvalidDate    = errors.New("dates must be formatted YYYY-MM-DD")
	ErrReversedPeriod = errors.New("start date must not be after end date")
)

// ResolvePeriod turns a period token into a half-open range in now's location.
// An empty token means this_month. For custom, a missing side defaults to today
// and end is exclusive, so start == end yields an empty range.
func ResolvePeriod(token, customStart, customEnd string, now time.Time) (ledger.Period, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)

	switch strings.ToLower(strings.TrimSpace(token)) {
	case PeriodToday:
		return ledger.Period{Start: today, End: today.AddDate(0, 0, 1)}, nil
	case PeriodThisWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return ledger.Period{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case PeriodLast7Days:
		return ledger.Period{Start: today.AddDate(0, 0, -7), End: today.AddDate(0, 0, 1)}, nil
	case PeriodThisMonth, "":
		return ledger.Period{Start: monthStart, End: monthStart.AddDate(0, 1, 0)}, nil
	case PeriodLastMonth:
		return ledger.Period{Start: monthStart.AddDate(0, -1, 0), End: monthStart}, nil
	case PeriodThisYear:
		return ledger.Period{Start: yearStart, End: yearStart.AddDate(1, 0, 0)}, nil
	case PeriodLastYear:
		return ledger.Period{Start: yearStart.AddDate(-1, 0, 0), End: yearStart}, nil
	case PeriodAllTime:
		return ledger.Period{}, nil
	case PeriodCustom:
		start, err := parseDay(customStart, today, loc)
		if err != nil {
			return ledger.Period{}, err
		}
		end, err := parseDay(customEnd, today, loc)
		if err != nil {
			return ledger.Period{}, err
		}
		if start.After(end) {
			return ledger.Period{}, apperror.Validation("report.ResolvePeriod", ErrReversedPeriod)
		}
		return ledger.Period{Start: start, End: end}, nil
	default:
		return ledger.Period{}, apperror.Validation("report.ResolvePeriod", fmt.Errorf("%w %q", ErrUnknownPeriod, token))
	}
}

func parseDay(s string, fallback time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(customDateLayout, s, loc)
	if err != nil {
		return time.Time{}, apperror.Validation("report.ResolvePeriod", ErrInvalidDate)
	}
	return t, nil
}
