package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

var (
	everyNDays   = regexp.MustCompile(`^every (\d+) days?$`)
	everyNWeeks  = regexp.MustCompile(`^every (\d+) weeks?$`)
	everyNMonths = regexp.MustCompile(`^every (\d+) months?$`)
)

var ErrNoOccurrence = errors.New("recurrence has no further occurrence")

var weekdays = map[string]rrule.Weekday{
	"sunday":    rrule.SU,
	"monday":    rrule.MO,
	"tuesday":   rrule.TU,
	"wednesday": rrule.WE,
	"thursday":  rrule.TH,
	"friday":    rrule.FR,
	"saturday":  rrule.SA,
}

func isRawRRule(s string) bool {
	s = strings.ToUpper(s)
	return strings.HasPrefix(s, "RRULE:") || strings.HasPrefix(s, "FREQ=")
}

func interval(m []string) int {
	n, _ := strconv.Atoi(m[1])
	return n
}

// ParseRecurrence accepts a raw RRULE ("FREQ=MONTHLY;BYMONTHDAY=1") or a
// short phrase: daily, weekly, monthly, yearly, weekdays, "every monday",
// "every 2 weeks", "every 3 months".
func ParseRecurrence(s string) (*rrule.RRule, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return nil, errors.New("empty recurrence")
	}

	if isRawRRule(s) {
		raw := strings.TrimPrefix(strings.ToUpper(s), "RRULE:")
		r, err := rrule.StrToRRule(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RRULE %q: %w", raw, err)
		}
		return r, nil
	}

	switch s {
	case "daily", "every day":
		return rrule.NewRRule(rrule.ROption{Freq: rrule.DAILY})
	case "weekly", "every week":
		return rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY})
	case "monthly", "every month":
		return rrule.NewRRule(rrule.ROption{Freq: rrule.MONTHLY})
	case "yearly", "annually", "every year":
		return rrule.NewRRule(rrule.ROption{Freq: rrule.YEARLY})
	case "weekdays", "every weekday":
		return rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
		})
	case "every other week", "biweekly":
		return rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Interval: 2})
	}

	if m := everyNDays.FindStringSubmatch(s); m != nil {
		return rrule.NewRRule(rrule.ROption{Freq: rrule.DAILY, Interval: interval(m)})
	}
	if m := everyNWeeks.FindStringSubmatch(s); m != nil {
		return rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Interval: interval(m)})
	}
	if m := everyNMonths.FindStringSubmatch(s); m != nil {
		return rrule.NewRRule(rrule.ROption{Freq: rrule.MONTHLY, Interval: interval(m)})
	}
	if wd, ok := weekdays[strings.TrimPrefix(s, "every ")]; ok && strings.HasPrefix(s, "every ") {
		return rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{wd}})
	}

	return nil, fmt.Errorf("unrecognized recurrence %q", s)
}

// NextOccurrence returns the first occurrence of rule at or after from. The
// rule is anchored at from.
func NextOccurrence(rule string, from time.Time) (time.Time, error) {
	r, err := ParseRecurrence(rule)
	if err != nil {
		return time.Time{}, err
	}
	r.DTStart(from)
	next := r.After(from, true)
	if next.IsZero() {
		return time.Time{}, ErrNoOccurrence
	}
	return next, nil
}
