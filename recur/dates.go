package recur

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// resolveDate turns a non-recurring phrase into a concrete timestamp. Ordinal
// singleton shapes ("3rd friday of may") are tried first, then strict layout
// parsing, then casual phrases ("tomorrow", "next tuesday").
func (p *Parser) resolveDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(normalize(s))
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := p.resolveSingleton(s).Get(); ok {
		return t, true
	}
	if t, ok := p.resolveMonthPhrase(s); ok {
		return t, true
	}

	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, true
	}

	if r, err := p.casual.Parse(s, p.now); err == nil && r != nil {
		return r.Time.UTC(), true
	}
	return time.Time{}, false
}

// resolveMonthPhrase handles month-anchored dates the downstream parsers
// miss: "july" is the first of the next july, "january 12" the named day.
// A year-less month that already passed rolls into the next year.
func (p *Parser) resolveMonthPhrase(s string) (time.Time, bool) {
	day := 1
	m := matchGroups(reMonthDay, s)
	if m != nil {
		d, err := strconv.Atoi(m["day"])
		if err != nil || d < 1 || d > 31 {
			return time.Time{}, false
		}
		day = d
	} else if m = matchGroups(rePartialMonth, s); m == nil {
		return time.Time{}, false
	}
	month, err := getMonth(m["moy"])
	if err != nil {
		return time.Time{}, false
	}
	year := p.now.Year()
	if m["year"] != "" {
		year, _ = strconv.Atoi(m["year"])
	} else if time.Month(month) < p.now.Month() {
		year++
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// mergeTime looks for an unambiguous time-of-day mention in s and applies it
// to base. Bare numbers only count as times when the match carries a colon,
// an am/pm marker or o'clock, or follows "at".
func (p *Parser) mergeTime(s string, base time.Time) (time.Time, bool) {
	m := matchGroups(reAtTime, s)
	if m == nil {
		m = matchGroups(reTime, s)
		if m == nil || !reDefTime.MatchString(reTime.FindString(s)) {
			return base, false
		}
	}
	hour, err := getNumber(m["hour"])
	if err != nil || hour > 23 {
		return base, false
	}
	minute := 0
	if m["minute"] != "" {
		if minute, err = getNumber(m["minute"]); err != nil || minute > 59 {
			return base, false
		}
	}
	hour = p.resolveHour(hour, m["mod"])
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, time.UTC), true
}

// resolveHour applies an am/pm modifier, or, absent one, shifts early hours
// into the preferred daytime window: "at 3" means 15:00 when the window
// starts at 8.
func (p *Parser) resolveHour(hour int, mod string) int {
	switch {
	case strings.HasPrefix(mod, "p"):
		if hour < 12 {
			hour += 12
		}
	case strings.HasPrefix(mod, "a"):
		if hour == 12 {
			hour = 0
		}
	default:
		if hour > 0 && hour < p.daytimeStart && hour <= 12 {
			hour += 12
		}
	}
	return hour
}

// addUnits advances t by n calendar units named by a week/month/year word.
func (p *Parser) addUnits(t time.Time, unit string, n int) time.Time {
	switch {
	case strings.HasPrefix(unit, "week"):
		return t.AddDate(0, 0, 7*n)
	case strings.HasPrefix(unit, "month"):
		return addMonthsClipped(t, n)
	case strings.HasPrefix(unit, "year"):
		return addYearsClipped(t, n)
	}
	return t
}

// addMonthsClipped advances by whole months, clipping the day-of-month to the
// target month's length instead of letting it roll over.
func addMonthsClipped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	shifted := first.AddDate(0, n, 0)
	if last := daysIn(shifted.Year(), shifted.Month()); d > last {
		d = last
	}
	return time.Date(shifted.Year(), shifted.Month(), d, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}

func addYearsClipped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	if last := daysIn(y+n, m); d > last {
		d = last
	}
	return time.Date(y+n, m, d, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// fixUntil repairs an end date that resolved before the start, which happens
// when a year-less phrase like "from december to february" lands both dates
// in the same year. It tries the smallest forward adjustment that puts the
// end after the start: a week, a month, then a year.
func fixUntil(start, end time.Time) time.Time {
	if end.After(start) {
		return end
	}
	if w := end.AddDate(0, 0, 7); w.After(start) {
		return w
	}
	if m := addMonthsClipped(end, 1); m.After(start) {
		return m
	}
	return addYearsClipped(end, 1)
}
