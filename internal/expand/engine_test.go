package expand

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func collect(t *testing.T, e *Engine, rec string, seed time.Time, max int) []time.Time {
	t.Helper()
	next, err := e.Iterator(rec, seed)
	require.NoError(t, err)
	var out []time.Time
	for len(out) < max {
		occ, ok := next()
		if !ok {
			break
		}
		out = append(out, occ)
	}
	return out
}

func TestIterator_Daily(t *testing.T) {
	e := New()
	got := collect(t, e, "RRULE:FREQ=DAILY;COUNT=3", start, 10)
	want := []time.Time{
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, want, got)
}

func TestIterator_DTStartOverridesSeed(t *testing.T) {
	e := New()
	got := collect(t, e, "DTSTART:2025-02-01\nRRULE:FREQ=DAILY;COUNT=2", start, 10)
	want := []time.Time{
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, want, got)
}

func TestIterator_Until(t *testing.T) {
	e := New()
	got := collect(t, e, "RRULE:FREQ=WEEKLY;UNTIL=2025-01-20", start, 10)
	want := []time.Time{
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, want, got)
}

func TestIterator_ByDayOrdinal(t *testing.T) {
	e := New()
	got := collect(t, e, "RRULE:FREQ=MONTHLY;BYDAY=+3FR;COUNT=2", start, 10)
	want := []time.Time{
		time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, want, got)
}

func TestIterator_ExdateFilters(t *testing.T) {
	e := New()
	got := collect(t, e, "RRULE:FREQ=DAILY;COUNT=3\nEXDATE:2025-01-07", start, 10)
	want := []time.Time{
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, want, got)
}

func TestIterator_ExruleFilters(t *testing.T) {
	e := New()
	rec := "RRULE:FREQ=DAILY;COUNT=5\nEXRULE:FREQ=WEEKLY;BYDAY=TU"
	got := collect(t, e, rec, start, 10)
	want := []time.Time{
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, want, got)
}

func TestIterator_MaxPulls(t *testing.T) {
	e := NewWithConfig(Config{MaxPulls: 5})
	got := collect(t, e, "RRULE:FREQ=DAILY", start, 100)
	assert.Len(t, got, 5)
}

func TestIterator_BadRecord(t *testing.T) {
	e := New()

	_, err := e.Iterator("no rule here", start)
	assert.Error(t, err)

	_, err = e.Iterator("RRULE:FREQ=NOPE", start)
	assert.Error(t, err)

	_, err = e.Iterator("DTSTART:whenever\nRRULE:FREQ=DAILY", start)
	assert.Error(t, err)
}

func TestFirst(t *testing.T) {
	e := New()

	first, ok, err := e.First("RRULE:FREQ=MONTHLY;BYDAY=+3FR", start)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), first)

	// Second lookup hits the cache and must agree.
	again, ok, err := e.First("RRULE:FREQ=MONTHLY;BYDAY=+3FR", start)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, again)
}

func TestFirst_Exhausted(t *testing.T) {
	e := New()
	_, ok, err := e.First("RRULE:FREQ=DAILY;COUNT=1\nEXDATE:2025-01-06", start)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFirstCache_Bounded(t *testing.T) {
	c := newFirstCache(2)
	c.put("a", start, start, true)
	c.put("b", start, start, true)
	c.put("c", start, start, true)
	assert.LessOrEqual(t, len(c.entries), 2)
}

func TestNormalizeRule(t *testing.T) {
	assert.Equal(t, "FREQ=WEEKLY;UNTIL=20250301T235959Z", normalizeRule("FREQ=WEEKLY;UNTIL=2025-03-01"))
	assert.Equal(t, "BYDAY=3FR,-1MO", normalizeRule("BYDAY=+3FR,-1MO"))
}
