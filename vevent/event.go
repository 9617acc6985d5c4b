// Package vevent bridges canonical recurrence records and iCalendar VEVENT
// components, so parsed schedules can be dropped into calendar files and
// events coming back from a calendar can be formatted as phrases.
package vevent

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const (
	compactDate     = "20060102"
	compactDateTime = "20060102T150405Z"
	recordDate      = "2006-01-02"
)

// FromRecord builds a VEVENT carrying the record's rule. The event gets a
// fresh UID; start is used when the record has no DTSTART of its own.
func FromRecord(record, summary string, start time.Time) (*ical.Event, error) {
	dtstart := start
	var rule, exrule string
	var exdates []time.Time

	for _, line := range strings.Split(strings.TrimSpace(record), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "DTSTART:"):
			t, err := parseRecordDate(strings.TrimPrefix(line, "DTSTART:"))
			if err != nil {
				return nil, fmt.Errorf("bad DTSTART: %w", err)
			}
			dtstart = t
		case strings.HasPrefix(line, "RRULE:"):
			rule = strings.TrimPrefix(line, "RRULE:")
		case strings.HasPrefix(line, "EXRULE:"):
			exrule = strings.TrimPrefix(line, "EXRULE:")
		case strings.HasPrefix(line, "EXDATE:"):
			for _, ds := range strings.Split(strings.TrimPrefix(line, "EXDATE:"), ",") {
				t, err := parseRecordDate(ds)
				if err != nil {
					return nil, fmt.Errorf("bad EXDATE entry %q: %w", ds, err)
				}
				exdates = append(exdates, t)
			}
		}
	}
	if rule == "" {
		return nil, fmt.Errorf("record has no RRULE line")
	}

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uuid.NewString())
	if summary != "" {
		ev.Props.SetText(ical.PropSummary, summary)
	}
	ev.Props.SetDateTime(ical.PropDateTimeStart, dtstart.UTC())
	setRecur(ev, ical.PropRecurrenceRule, ruleToICal(rule))
	if exrule != "" {
		setRecur(ev, "EXRULE", ruleToICal(exrule))
	}
	if len(exdates) > 0 {
		strs := make([]string, len(exdates))
		for i, t := range exdates {
			strs[i] = t.Format(compactDate)
		}
		prop := ical.NewProp(ical.PropExceptionDates)
		prop.Params.Set(ical.ParamValue, "DATE")
		prop.Value = strings.Join(strs, ",")
		ev.Props.Set(prop)
	}
	return ev, nil
}

// setRecur sets a RECUR-typed property. The rule body is used verbatim;
// SetText would escape the semicolons and produce an invalid property.
func setRecur(ev *ical.Event, name, body string) {
	prop := ical.NewProp(name)
	prop.Value = body
	ev.Props.Set(prop)
}

// ToRecord extracts the canonical recurrence record from a component. The
// component must carry an RRULE.
func ToRecord(comp *ical.Component) (string, error) {
	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil || rruleProp.Value == "" {
		return "", fmt.Errorf("component has no RRULE property")
	}

	var b strings.Builder
	if dtstart, err := comp.Props.DateTime(ical.PropDateTimeStart, nil); err == nil && !dtstart.IsZero() {
		fmt.Fprintf(&b, "DTSTART:%s\n", dtstart.UTC().Format(recordDate))
	}
	b.WriteString("RRULE:")
	b.WriteString(ruleFromICal(rruleProp.Value))

	if exruleProp := comp.Props.Get("EXRULE"); exruleProp != nil && exruleProp.Value != "" {
		b.WriteString("\nEXRULE:")
		b.WriteString(ruleFromICal(exruleProp.Value))
	}
	if exdateProp := comp.Props.Get(ical.PropExceptionDates); exdateProp != nil && exdateProp.Value != "" {
		var strs []string
		for _, ds := range strings.Split(exdateProp.Value, ",") {
			t, err := parseICalDate(strings.TrimSpace(ds))
			if err != nil {
				return "", fmt.Errorf("bad EXDATE entry %q: %w", ds, err)
			}
			strs = append(strs, t.Format(recordDate))
		}
		if len(strs) > 0 {
			b.WriteString("\nEXDATE:")
			b.WriteString(strings.Join(strs, ","))
		}
	}
	return b.String(), nil
}

// ruleToICal rewrites a canonical rule body into RFC 5545 form: UNTIL dates
// lose their dashes.
func ruleToICal(body string) string {
	return mapRuleUntil(body, func(t time.Time) string {
		return t.Format(compactDate)
	})
}

// ruleFromICal rewrites an RFC 5545 rule body into canonical form: UNTIL
// values become YYYY-MM-DD.
func ruleFromICal(body string) string {
	return mapRuleUntil(body, func(t time.Time) string {
		return t.Format(recordDate)
	})
}

func mapRuleUntil(body string, render func(time.Time) string) string {
	parts := strings.Split(body, ";")
	for i, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key != "UNTIL" {
			continue
		}
		if t, err := parseAnyDate(value); err == nil {
			parts[i] = "UNTIL=" + render(t)
		}
	}
	return strings.Join(parts, ";")
}

func parseRecordDate(s string) (time.Time, error) {
	return time.Parse(recordDate, strings.TrimSpace(s))
}

func parseICalDate(s string) (time.Time, error) {
	for _, layout := range []string{compactDateTime, compactDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q", s)
}

func parseAnyDate(s string) (time.Time, error) {
	if t, err := parseRecordDate(s); err == nil {
		return t, nil
	}
	return parseICalDate(s)
}
