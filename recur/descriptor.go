package recur

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Frequency names as they appear in the descriptor; serialization upper-cases
// them into the RRULE FREQ value.
const (
	FreqDaily    = "daily"
	FreqWeekly   = "weekly"
	FreqMonthly  = "monthly"
	FreqYearly   = "yearly"
	FreqHourly   = "hourly"
	FreqMinutely = "minutely"
	FreqSecondly = "secondly"
)

const dateLayout = "2006-01-02"

// descriptor is the mutable accumulator built while parsing one phrase. One
// instance lives per Parse call; it is reset on entry and consumed once by
// the serializer.
type descriptor struct {
	dtstart *time.Time
	until   *time.Time
	count   int
	// interval 0 means "never set"; only explicitly set intervals serialize.
	interval int
	freq     string

	weekdays        []string // plain day codes, e.g. "MO"
	ordinalWeekdays []string // signed-ordinal-prefixed codes, e.g. "+3FR"
	byMonthDay      []int
	byYearDay       []int
	byMonth         []int
	byHour          []int
	byMinute        []int
	bySetPos        []int
	byWeekNo        []int

	exrule  string
	exdates []exceptionDate
}

// rfcRecord serializes the descriptor into the canonical line-oriented text
// record. An empty string means the descriptor never became a recurrence.
// Partial exception markers are reconciled against the expanded rule by the
// owning parser.
func (d *descriptor) rfcRecord(p *Parser) string {
	if d.freq == "" {
		return ""
	}

	parts := []string{"FREQ=" + strings.ToUpper(d.freq)}
	if d.interval > 0 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(d.interval))
	}
	if len(d.ordinalWeekdays) > 0 {
		parts = append(parts, "BYDAY="+strings.Join(d.ordinalWeekdays, ","))
	} else if len(d.weekdays) > 0 {
		parts = append(parts, "BYDAY="+strings.Join(d.weekdays, ","))
	}
	appendInts := func(key string, vals []int) {
		if len(vals) > 0 {
			parts = append(parts, key+"="+joinInts(vals))
		}
	}
	appendInts("BYMONTHDAY", d.byMonthDay)
	appendInts("BYYEARDAY", d.byYearDay)
	appendInts("BYMONTH", d.byMonth)
	appendInts("BYHOUR", d.byHour)
	appendInts("BYMINUTE", d.byMinute)
	appendInts("BYSETPOS", d.bySetPos)
	appendInts("BYWEEKNO", d.byWeekNo)
	switch {
	case d.until != nil:
		parts = append(parts, "UNTIL="+d.until.Format(dateLayout))
	case d.count > 0:
		parts = append(parts, "COUNT="+strconv.Itoa(d.count))
	}

	var b strings.Builder
	if d.dtstart != nil {
		fmt.Fprintf(&b, "DTSTART:%s\n", d.dtstart.Format(dateLayout))
	}
	b.WriteString("RRULE:")
	b.WriteString(strings.Join(parts, ";"))
	if d.exrule != "" {
		b.WriteString("\nEXRULE:")
		b.WriteString(d.exrule)
	}

	if len(d.exdates) > 0 {
		dates := p.resolveExdates(b.String(), d.exdates)
		if len(dates) > 0 {
			strs := make([]string, len(dates))
			for i, t := range dates {
				strs[i] = t.Format(dateLayout)
			}
			b.WriteString("\nEXDATE:")
			b.WriteString(strings.Join(strs, ","))
		}
	}
	return b.String()
}

func joinInts(vals []int) string {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = strconv.Itoa(v)
	}
	return strings.Join(strs, ",")
}
