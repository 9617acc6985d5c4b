package recur

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/calwerks/librecur/internal/expand"
)

// maxTilePulls bounds the expansion walk used to test whether a set of
// exception dates tiles whole months.
const maxTilePulls = 10000

// Formatter renders canonical recurrence records and timestamps back into
// English phrases. Output is chosen so that parsing it again yields an
// equivalent record.
type Formatter struct {
	now    time.Time
	logger *slog.Logger
	engine *expand.Engine
}

// NewFormatter creates a formatter; DaytimeStart and DaytimeEnd in the
// config are ignored.
func NewFormatter(cfg Config) *Formatter {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Formatter{now: cfg.Now, logger: cfg.Logger, engine: expand.New()}
}

// Format renders a canonical record or timestamp string with the parser's
// reference time.
func (p *Parser) Format(s string) string {
	f := &Formatter{now: p.now, logger: p.logger, engine: p.engine}
	return f.Format(s)
}

// Format turns a canonical recurrence record or a parseable timestamp back
// into an English phrase. Unrecognized input is returned unchanged.
func (f *Formatter) Format(s string) string {
	if reRRuleLine.MatchString(s) {
		if out, ok := f.formatRecord(s); ok {
			return out
		}
		return s
	}
	if t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC); err == nil {
		return f.FormatTime(t)
	}
	return s
}

// FormatTime renders a timestamp, omitting the clock when it is midnight.
func (f *Formatter) FormatTime(t time.Time) string {
	date := t.Format("January 2, 2006")
	switch {
	case t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0:
		return date
	case t.Second() == 0:
		return date + " at " + clock(t.Hour(), t.Minute())
	default:
		return date + " at " + t.Format("3:04:05pm")
	}
}

// recordFields is the decomposed form of a canonical record.
type recordFields struct {
	dtstart    *time.Time
	until      *time.Time
	count      int
	interval   int
	freq       string
	byday      []string
	bymonthday []int
	byyearday  []int
	bymonth    []int
	byhour     []int
	byminute   []int
	bysetpos   []int
	byweekno   []int
	exrule     string
	exdates    []time.Time
}

func parseRecordFields(s string) (*recordFields, error) {
	rf := &recordFields{}
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "DTSTART:"):
			t, err := parseFieldDate(strings.TrimPrefix(line, "DTSTART:"))
			if err != nil {
				return nil, fmt.Errorf("bad DTSTART: %w", err)
			}
			rf.dtstart = &t
		case strings.HasPrefix(line, "RRULE:"):
			if err := rf.parseRule(strings.TrimPrefix(line, "RRULE:")); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "EXRULE:"):
			rf.exrule = strings.TrimPrefix(line, "EXRULE:")
		case strings.HasPrefix(line, "EXDATE:"):
			for _, ds := range strings.Split(strings.TrimPrefix(line, "EXDATE:"), ",") {
				t, err := parseFieldDate(ds)
				if err != nil {
					return nil, fmt.Errorf("bad EXDATE entry %q: %w", ds, err)
				}
				rf.exdates = append(rf.exdates, t)
			}
		}
	}
	if rf.freq == "" {
		return nil, fmt.Errorf("record has no FREQ")
	}
	return rf, nil
}

func parseFieldDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, "20060102T150405Z", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q", s)
}

func (rf *recordFields) parseRule(body string) error {
	for _, part := range strings.Split(body, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return fmt.Errorf("malformed rule part %q", part)
		}
		var err error
		switch key {
		case "FREQ":
			rf.freq = strings.ToLower(value)
		case "INTERVAL":
			rf.interval, err = strconv.Atoi(value)
		case "COUNT":
			rf.count, err = strconv.Atoi(value)
		case "UNTIL":
			var t time.Time
			if t, err = parseFieldDate(value); err == nil {
				rf.until = &t
			}
		case "BYDAY":
			rf.byday = strings.Split(value, ",")
		case "BYMONTHDAY":
			rf.bymonthday, err = parseIntList(value)
		case "BYYEARDAY":
			rf.byyearday, err = parseIntList(value)
		case "BYMONTH":
			rf.bymonth, err = parseIntList(value)
		case "BYHOUR":
			rf.byhour, err = parseIntList(value)
		case "BYMINUTE":
			rf.byminute, err = parseIntList(value)
		case "BYSETPOS":
			rf.bysetpos, err = parseIntList(value)
		case "BYWEEKNO":
			rf.byweekno, err = parseIntList(value)
		}
		if err != nil {
			return fmt.Errorf("bad rule part %q: %w", part, err)
		}
	}
	return nil
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func (f *Formatter) formatRecord(s string) (string, bool) {
	rf, err := parseRecordFields(s)
	if err != nil {
		f.logger.Debug("cannot format record", "error", err)
		return "", false
	}
	interval := rf.interval
	if interval == 0 {
		interval = 1
	}
	base := intervalPhrase(rf.freq, interval)

	var phrase string
	switch rf.freq {
	case FreqWeekly:
		phrase = f.weekly(rf, interval, base)
	case FreqMonthly:
		phrase = f.monthly(rf, base)
	case FreqYearly:
		phrase = f.yearly(rf, interval, base)
	default:
		phrase = base
	}
	if len(rf.bysetpos) > 0 {
		phrase += " for the " + ordinalList(rf.bysetpos) + " instance"
	}
	if len(rf.byhour) > 0 {
		minute := 0
		if len(rf.byminute) > 0 {
			minute = rf.byminute[0]
		}
		phrase += " at " + clock(rf.byhour[0], minute)
	}
	phrase += f.boundsSuffix(rf, s)
	phrase += f.exceptionSuffix(rf, s)
	return phrase, true
}

// intervalPhrase names the base cycle: "every week", "every other month",
// "every 3 days".
func intervalPhrase(freq string, interval int) string {
	unit := freqUnit(freq)
	switch {
	case interval <= 1 && freq == FreqDaily:
		return "daily"
	case interval <= 1:
		return "every " + unit
	case interval == 2:
		return "every other " + unit
	default:
		return fmt.Sprintf("every %d %ss", interval, unit)
	}
}

func freqUnit(freq string) string {
	switch freq {
	case FreqDaily:
		return "day"
	case FreqWeekly:
		return "week"
	case FreqMonthly:
		return "month"
	case FreqYearly:
		return "year"
	case FreqHourly:
		return "hour"
	case FreqMinutely:
		return "minute"
	default:
		return "second"
	}
}

func (f *Formatter) weekly(rf *recordFields, interval int, base string) string {
	if len(rf.byday) == 0 {
		return base
	}
	names, special := renderDayList(rf.byday)
	if interval == 1 {
		if special != "" {
			return "every " + special
		}
		return "every " + names
	}
	return base + " on " + names
}

func (f *Formatter) monthly(rf *recordFields, base string) string {
	switch {
	case len(rf.bymonthday) > 0:
		return ordinalList(rf.bymonthday) + " of " + base
	case hasOrdinalByDay(rf.byday):
		return ordinalDayPhrase(rf.byday) + " of " + base
	case len(rf.byday) > 0:
		names, _ := renderDayList(rf.byday)
		return base + " on " + names
	default:
		return base
	}
}

func (f *Formatter) yearly(rf *recordFields, interval int, base string) string {
	switch {
	case len(rf.bymonth) > 0 && hasOrdinalByDay(rf.byday):
		part := ordinalDayPhrase(rf.byday) + " of " + monthList(rf.bymonth)
		if interval == 1 {
			return "every " + part
		}
		return base + " on the " + part
	case len(rf.bymonth) > 0 && len(rf.bymonthday) > 0:
		part := monthList(rf.bymonth) + " " + ordinalList(rf.bymonthday)
		if interval == 1 {
			return "every " + part
		}
		return base + " on " + part
	case len(rf.bymonth) > 0:
		if interval == 1 {
			return "every " + monthList(rf.bymonth)
		}
		return base + " in " + monthList(rf.bymonth)
	case len(rf.byyearday) > 0:
		return base + " on day " + intList(rf.byyearday)
	case len(rf.byweekno) > 0:
		out := base + " in week " + intList(rf.byweekno)
		if len(rf.byday) > 0 {
			names, _ := renderDayList(rf.byday)
			out += " on " + names
		}
		return out
	default:
		return base
	}
}

// boundsSuffix renders the start, end, and count bounds. A start date the
// schedule would reach on its own is left implicit.
func (f *Formatter) boundsSuffix(rf *recordFields, record string) string {
	showStart := rf.dtstart != nil && !f.impliedStart(rf, record)
	if showStart && rf.until != nil {
		return " from " + rf.dtstart.Format(dateLayout) + " to " + rf.until.Format(dateLayout)
	}
	var out string
	switch {
	case rf.until != nil:
		out = " until " + rf.until.Format(dateLayout)
	case rf.count == 2:
		out = " twice"
	case rf.count > 0:
		out = fmt.Sprintf(" for %d times", rf.count)
	}
	if showStart {
		out += " starting " + rf.dtstart.Format(dateLayout)
	}
	return out
}

// impliedStart reports whether dropping the DTSTART line leaves the first
// occurrence unchanged when expanding from the formatter's reference time.
func (f *Formatter) impliedStart(rf *recordFields, record string) bool {
	if sameDate(*rf.dtstart, f.now) {
		return true
	}
	with, okW, errW := f.engine.First(record, f.now)
	without, okO, errO := f.engine.First(stripRecordLine(record, "DTSTART:"), f.now)
	return errW == nil && errO == nil && okW && okO && sameDate(with, without)
}

func stripRecordLine(record, prefix string) string {
	var kept []string
	for _, line := range strings.Split(record, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), prefix) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func (f *Formatter) exceptionSuffix(rf *recordFields, record string) string {
	if rf.exrule != "" {
		if inner, ok := f.formatRecord("RRULE:" + rf.exrule); ok {
			return " except " + inner
		}
		return ""
	}
	if len(rf.exdates) == 0 {
		return ""
	}
	if months, ok := f.monthsTiled(rf, record); ok {
		return " except in " + strings.Join(months, " and ")
	}
	strs := make([]string, len(rf.exdates))
	for i, t := range rf.exdates {
		strs[i] = t.Format(dateLayout)
	}
	return " except on " + strings.Join(strs, " and ")
}

// monthsTiled reports whether the exception dates are exactly the rule's
// occurrences in some set of whole months, and names those months. Months
// whose inferred year differs from the natural one carry the year.
func (f *Formatter) monthsTiled(rf *recordFields, record string) ([]string, bool) {
	if len(rf.exdates) < 3 {
		return nil, false
	}
	type ym struct {
		y int
		m time.Month
	}
	inMonths := map[ym]bool{}
	var order []ym
	dateSet := map[string]bool{}
	for _, t := range rf.exdates {
		k := ym{t.Year(), t.Month()}
		if !inMonths[k] {
			inMonths[k] = true
			order = append(order, k)
		}
		dateSet[t.Format(dateLayout)] = true
	}
	last := order[0]
	for _, k := range order[1:] {
		if k.y > last.y || (k.y == last.y && k.m > last.m) {
			last = k
		}
	}

	start := f.now
	if rf.dtstart != nil {
		start = *rf.dtstart
	}
	next, err := f.engine.Iterator(stripRecordLine(record, "EXDATE:"), start)
	if err != nil {
		return nil, false
	}
	matched := 0
	for pulls := 0; pulls < maxTilePulls; pulls++ {
		t, ok := next()
		if !ok {
			break
		}
		k := ym{t.Year(), t.Month()}
		if k.y > last.y || (k.y == last.y && k.m > last.m) {
			break
		}
		if !inMonths[k] {
			continue
		}
		if !dateSet[t.Format(dateLayout)] {
			return nil, false
		}
		matched++
	}
	if matched != len(dateSet) {
		return nil, false
	}

	names := make([]string, len(order))
	for i, k := range order {
		names[i] = monthNames[k.m-1]
		natural := start.Year()
		if k.m < start.Month() {
			natural++
		}
		if k.y != natural {
			names[i] += " " + strconv.Itoa(k.y)
		}
	}
	return names, true
}

// parseByDay splits a BYDAY entry like "+3FR" or "MO" into its ordinal and
// day code; the ordinal is 0 when absent.
func parseByDay(entry string) (int, string) {
	if len(entry) < 2 {
		return 0, entry
	}
	code := entry[len(entry)-2:]
	ord := strings.TrimPrefix(entry[:len(entry)-2], "+")
	if ord == "" {
		return 0, code
	}
	n, err := strconv.Atoi(ord)
	if err != nil {
		return 0, code
	}
	return n, code
}

func hasOrdinalByDay(byday []string) bool {
	for _, e := range byday {
		if n, _ := parseByDay(e); n != 0 {
			return true
		}
	}
	return false
}

// renderDayList names plain day codes, collapsing the weekday and weekend
// sets to their collective nouns.
func renderDayList(byday []string) (names string, special string) {
	codes := make([]string, len(byday))
	set := map[string]bool{}
	for i, e := range byday {
		_, c := parseByDay(e)
		codes[i] = c
		set[c] = true
	}
	if len(set) == 5 && set["MO"] && set["TU"] && set["WE"] && set["TH"] && set["FR"] {
		return "weekdays", "weekday"
	}
	if len(set) == 2 && set["SA"] && set["SU"] {
		return "weekends", "weekend"
	}
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = dayNames[c]
	}
	return strings.Join(parts, " and "), ""
}

// ordinalDayPhrase renders ordinal BYDAY entries, grouping ordinals that
// share a day: "1st and 3rd Fri".
func ordinalDayPhrase(byday []string) string {
	ordsByCode := map[string][]int{}
	var order []string
	for _, e := range byday {
		n, c := parseByDay(e)
		if len(ordsByCode[c]) == 0 {
			order = append(order, c)
		}
		ordsByCode[c] = append(ordsByCode[c], n)
	}
	parts := make([]string, len(order))
	for i, c := range order {
		parts[i] = ordinalList(ordsByCode[c]) + " " + dayNames[c]
	}
	return strings.Join(parts, " and ")
}

func ordinalList(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = ordinalPhrase(n)
	}
	return strings.Join(parts, " and ")
}

func ordinalPhrase(n int) string {
	switch {
	case n == -1:
		return "last"
	case n < -1:
		return ordinalSuffix(-n) + " to the last"
	default:
		return ordinalSuffix(n)
	}
}

func ordinalSuffix(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

func intList(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " and ")
}

func monthList(ms []int) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = monthNames[m-1]
	}
	return strings.Join(parts, " and ")
}

func clock(hour, minute int) string {
	mod := "am"
	h := hour
	switch {
	case hour == 0:
		h = 12
	case hour == 12:
		mod = "pm"
	case hour > 12:
		h = hour - 12
		mod = "pm"
	}
	if minute == 0 {
		return fmt.Sprintf("%d%s", h, mod)
	}
	return fmt.Sprintf("%d:%02d%s", h, minute, mod)
}
