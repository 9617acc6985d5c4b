/*
Package recur converts natural-language schedule phrases into canonical
recurrence records and back.

# Basic Usage

	p := recur.New()
	res, err := p.Parse("every other tuesday at 3pm")
	if err != nil || res == nil {
		// phrase not recognized
	}
	if res.IsRecurrence() {
		fmt.Println(res.Rule)
		// RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=TU;BYHOUR=15;BYMINUTE=0
	} else {
		fmt.Println(res.Date)
	}

# Record Format

A recurrence record is line-oriented text in iCalendar style:

	DTSTART:2026-01-05
	RRULE:FREQ=WEEKLY;BYDAY=MO
	EXDATE:2026-07-06,2026-07-13,2026-07-20,2026-07-27

The DTSTART line appears only when the phrase named an explicit start.
Dates use YYYY-MM-DD. Rule fields always serialize in the same order, so
equal schedules produce byte-equal records.

# Singleton Dates

Phrases that name exactly one day resolve to a timestamp instead of a
rule:

	res, _ := p.Parse("3rd friday of may")
	// res.Date is that friday in the current year

Absolute dates and casual phrases ("june 1 2027", "next tuesday") fall
through to date parsing and resolve the same way.

# Formatting

Format is the inverse direction; it renders a record or timestamp as a
phrase that parses back to an equivalent record:

	p.Format("RRULE:FREQ=MONTHLY;BYDAY=+3FR")
	// "3rd Fri of every month"

# Reference Time

Ambiguous phrases resolve against the parser's reference time, which
defaults to the wall clock:

	p := recur.NewWithConfig(recur.Config{Now: someTime})
*/
package recur
