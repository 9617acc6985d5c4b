package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFormatter() *Formatter {
	return NewFormatter(Config{Now: testNow})
}

func TestFormat_Records(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   string
	}{
		{
			name:   "every other week with day",
			record: "RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=TU",
			want:   "every other week on Tue",
		},
		{
			name:   "ordinal day of month",
			record: "RRULE:FREQ=MONTHLY;BYDAY=+3FR",
			want:   "3rd Fri of every month",
		},
		{
			name:   "last day of month",
			record: "RRULE:FREQ=MONTHLY;BYDAY=-1FR",
			want:   "last Fri of every month",
		},
		{
			name:   "nth to last day of month",
			record: "RRULE:FREQ=MONTHLY;BYDAY=-2FR",
			want:   "2nd to the last Fri of every month",
		},
		{
			name:   "day of month number",
			record: "RRULE:FREQ=MONTHLY;BYMONTHDAY=1",
			want:   "1st of every month",
		},
		{
			name:   "daily with time",
			record: "RRULE:FREQ=DAILY;INTERVAL=1;BYHOUR=15;BYMINUTE=0",
			want:   "daily at 3pm",
		},
		{
			name:   "daily with minutes",
			record: "RRULE:FREQ=DAILY;BYHOUR=9;BYMINUTE=30",
			want:   "daily at 9:30am",
		},
		{
			name:   "yearly ordinal day of month",
			record: "RRULE:FREQ=YEARLY;BYDAY=+3FR;BYMONTH=5",
			want:   "every 3rd Fri of May",
		},
		{
			name:   "yearly month and day",
			record: "RRULE:FREQ=YEARLY;BYMONTHDAY=5;BYMONTH=1",
			want:   "every January 5th",
		},
		{
			name:   "yearly day number",
			record: "RRULE:FREQ=YEARLY;BYYEARDAY=100",
			want:   "every year on day 100",
		},
		{
			name:   "weekday set collapses",
			record: "RRULE:FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR",
			want:   "every weekday",
		},
		{
			name:   "weekend set collapses",
			record: "RRULE:FREQ=WEEKLY;BYDAY=SA,SU",
			want:   "every weekend",
		},
		{
			name:   "plain day list",
			record: "RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR",
			want:   "every Mon and Wed and Fri",
		},
		{
			name:   "count twice",
			record: "RRULE:FREQ=DAILY;COUNT=2",
			want:   "daily twice",
		},
		{
			name:   "count times",
			record: "RRULE:FREQ=DAILY;COUNT=3",
			want:   "daily for 3 times",
		},
		{
			name:   "until bound",
			record: "RRULE:FREQ=DAILY;UNTIL=2025-03-01",
			want:   "daily until 2025-03-01",
		},
		{
			name:   "explicit start and end",
			record: "DTSTART:2025-02-01\nRRULE:FREQ=DAILY;UNTIL=2025-03-01",
			want:   "daily from 2025-02-01 to 2025-03-01",
		},
		{
			name:   "start matching reference time stays implicit",
			record: "DTSTART:2025-01-06\nRRULE:FREQ=DAILY",
			want:   "daily",
		},
		{
			name:   "instance selection",
			record: "RRULE:FREQ=MONTHLY;BYSETPOS=2",
			want:   "every month for the 2nd instance",
		},
		{
			name:   "exception rule",
			record: "RRULE:FREQ=DAILY\nEXRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=TU",
			want:   "daily except every other week on Tue",
		},
		{
			name:   "exception dates tiling a month",
			record: "RRULE:FREQ=WEEKLY;BYDAY=MO\nEXDATE:2025-07-07,2025-07-14,2025-07-21,2025-07-28",
			want:   "every Mon except in July",
		},
		{
			name:   "sparse exception dates listed",
			record: "RRULE:FREQ=DAILY\nEXDATE:2025-01-07,2025-01-09",
			want:   "daily except on 2025-01-07 and 2025-01-09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFormatter()
			assert.Equal(t, tt.want, f.Format(tt.record))
		})
	}
}

func TestFormat_Passthrough(t *testing.T) {
	f := testFormatter()
	assert.Equal(t, "not a schedule", f.Format("not a schedule"))
}

func TestFormat_Dates(t *testing.T) {
	f := testFormatter()

	assert.Equal(t, "May 16, 2025", f.Format("2025-05-16"))
	assert.Equal(t, "May 16, 2025", f.FormatTime(time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "May 16, 2025 at 3pm", f.FormatTime(time.Date(2025, 5, 16, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "May 16, 2025 at 9:30am", f.FormatTime(time.Date(2025, 5, 16, 9, 30, 0, 0, time.UTC)))
}

// Formatted output should parse back to the exact record it came from.
func TestFormat_RoundTrip(t *testing.T) {
	phrases := []string{
		"every other tuesday",
		"the 3rd friday of every month",
		"mondays and wednesdays",
		"weekdays at 9:30am",
		"every year on day 100",
		"every january 5th",
		"every month for the 2nd instance",
		"weekly on monday except in july",
		"first of the month",
	}

	for _, phrase := range phrases {
		t.Run(phrase, func(t *testing.T) {
			p := testParser()
			res, err := p.Parse(phrase)
			require.NoError(t, err)
			require.NotNil(t, res)
			require.True(t, res.IsRecurrence())

			rendered := p.Format(res.Rule)
			again, err := p.Parse(rendered)
			require.NoError(t, err, "reparsing %q", rendered)
			require.NotNil(t, again, "reparsing %q", rendered)
			assert.Equal(t, res.Rule, again.Rule, "round trip through %q", rendered)
		})
	}
}

func TestOrdinalPhrase(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{-1, "last"},
		{-2, "2nd to the last"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ordinalPhrase(tt.n), "ordinalPhrase(%d)", tt.n)
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{0, 0, "12am"},
		{12, 0, "12pm"},
		{15, 0, "3pm"},
		{9, 30, "9:30am"},
		{23, 5, "11:05pm"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clock(tt.hour, tt.minute), "clock(%d, %d)", tt.hour, tt.minute)
	}
}
