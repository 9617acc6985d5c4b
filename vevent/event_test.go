package vevent

import (
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func TestFromRecord(t *testing.T) {
	record := "DTSTART:2025-02-01\nRRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=TU;UNTIL=2025-06-01"

	ev, err := FromRecord(record, "Standup", eventStart)
	require.NoError(t, err)

	assert.NotEmpty(t, ev.Props.Get(ical.PropUID).Value)
	assert.Equal(t, "Standup", ev.Props.Get(ical.PropSummary).Value)
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2;BYDAY=TU;UNTIL=20250601",
		ev.Props.Get(ical.PropRecurrenceRule).Value)

	dtstart, err := ev.Props.DateTime(ical.PropDateTimeStart, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), dtstart.UTC())
}

func TestFromRecord_SeedsStart(t *testing.T) {
	ev, err := FromRecord("RRULE:FREQ=DAILY", "", eventStart)
	require.NoError(t, err)

	assert.Nil(t, ev.Props.Get(ical.PropSummary))
	dtstart, err := ev.Props.DateTime(ical.PropDateTimeStart, nil)
	require.NoError(t, err)
	assert.Equal(t, eventStart, dtstart.UTC())
}

func TestFromRecord_Exceptions(t *testing.T) {
	record := "RRULE:FREQ=WEEKLY;BYDAY=MO\nEXRULE:FREQ=MONTHLY;BYDAY=-1MO\nEXDATE:2025-07-07,2025-07-14"

	ev, err := FromRecord(record, "", eventStart)
	require.NoError(t, err)

	assert.Equal(t, "FREQ=MONTHLY;BYDAY=-1MO", ev.Props.Get("EXRULE").Value)

	exdate := ev.Props.Get(ical.PropExceptionDates)
	require.NotNil(t, exdate)
	assert.Equal(t, "20250707,20250714", exdate.Value)
	assert.Equal(t, "DATE", exdate.Params.Get(ical.ParamValue))
}

func TestFromRecord_Invalid(t *testing.T) {
	_, err := FromRecord("no rule in here", "", eventStart)
	assert.Error(t, err)

	_, err = FromRecord("DTSTART:tomorrow\nRRULE:FREQ=DAILY", "", eventStart)
	assert.Error(t, err)
}

func TestToRecord_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{
			name:   "rule only",
			record: "DTSTART:2025-01-06\nRRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=TU",
		},
		{
			name:   "until bound",
			record: "DTSTART:2025-02-01\nRRULE:FREQ=DAILY;UNTIL=2025-03-01",
		},
		{
			name:   "exceptions",
			record: "DTSTART:2025-01-06\nRRULE:FREQ=WEEKLY;BYDAY=MO\nEXRULE:FREQ=MONTHLY;BYDAY=-1MO\nEXDATE:2025-07-07,2025-07-14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := FromRecord(tt.record, "", eventStart)
			require.NoError(t, err)

			got, err := ToRecord(ev.Component)
			require.NoError(t, err)
			assert.Equal(t, tt.record, got)
		})
	}
}

func TestToRecord_NoRule(t *testing.T) {
	ev := ical.NewEvent()
	_, err := ToRecord(ev.Component)
	assert.Error(t, err)
}

func TestRuleUntilMapping(t *testing.T) {
	assert.Equal(t, "FREQ=DAILY;UNTIL=20250301", ruleToICal("FREQ=DAILY;UNTIL=2025-03-01"))
	assert.Equal(t, "FREQ=DAILY;UNTIL=2025-03-01", ruleFromICal("FREQ=DAILY;UNTIL=20250301T235959Z"))
	assert.Equal(t, "FREQ=DAILY", ruleFromICal("FREQ=DAILY"))
}
