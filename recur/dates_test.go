package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDate(t *testing.T) {
	p := testParser()

	tests := []struct {
		name   string
		phrase string
		want   time.Time
		found  bool
	}{
		{name: "singleton", phrase: "3rd friday of may", want: time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC), found: true},
		{name: "day of year", phrase: "100th day of the year", want: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), found: true},
		{name: "bare month", phrase: "july", want: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), found: true},
		{name: "month and day", phrase: "january 12", want: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), found: true},
		{name: "later month same year", phrase: "december 5", want: time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC), found: true},
		{name: "strict layout", phrase: "2025-06-15", want: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), found: true},
		{name: "casual", phrase: "tomorrow", want: time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), found: true},
		{name: "nonsense", phrase: "purple elephant", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := p.resolveDate(tt.phrase)
			require.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// Singleton shapes need at least an ordinal and one anchor token; a bare
// ordinal is not a date.
func TestResolveSingleton_BareOrdinal(t *testing.T) {
	p := testParser()

	_, ok := p.resolveSingleton("the 1st").Get()
	assert.False(t, ok)

	got, ok := p.resolveSingleton("the 1st 2027").Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestMergeTime(t *testing.T) {
	p := testParser()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("at clause", func(t *testing.T) {
		got, ok := p.mergeTime("june 1 at 5pm", base)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC), got)
	})

	t.Run("colon time", func(t *testing.T) {
		got, ok := p.mergeTime("9:30am on june 1", base)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), got)
	})

	t.Run("bare number is not a time", func(t *testing.T) {
		_, ok := p.mergeTime("june 1", base)
		assert.False(t, ok)
	})
}

func TestAddUnits(t *testing.T) {
	p := testParser()

	assert.Equal(t, time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC), p.addUnits(testNow, "weeks", 3))
	assert.Equal(t, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), p.addUnits(testNow, "month", 2))
	assert.Equal(t, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), p.addUnits(testNow, "year", 1))
}

func TestAddMonthsClipped(t *testing.T) {
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), addMonthsClipped(jan31, 1))
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), addMonthsClipped(jan31, 2))
}

func TestAddYearsClipped(t *testing.T) {
	leap := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), addYearsClipped(leap, 1))
}

func TestFixUntil(t *testing.T) {
	t.Run("ordered bounds untouched", func(t *testing.T) {
		start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, end, fixUntil(start, end))
	})

	t.Run("year-wrapped end rolls forward", func(t *testing.T) {
		start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), fixUntil(start, end))
	})
}
