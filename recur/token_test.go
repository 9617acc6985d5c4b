package recur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		want   []TokenKind
	}{
		{
			name:   "alternating weekday with time",
			phrase: "every other tuesday at 3pm",
			want:   []TokenKind{KindEvery, KindOther, KindDayOfWeek, KindSeparator, KindTime},
		},
		{
			name:   "ordinal day of month",
			phrase: "the 3rd friday of every month",
			want:   []TokenKind{KindSeparator, KindOrdinal, KindDayOfWeek, KindSeparator, KindEvery, KindUnit},
		},
		{
			name:   "plural weekdays",
			phrase: "mondays and wednesdays",
			want:   []TokenKind{KindPluralWeekday, KindSeparator, KindPluralWeekday},
		},
		{
			name:   "daily",
			phrase: "daily",
			want:   []TokenKind{KindDaily},
		},
		{
			name:   "recurring unit",
			phrase: "weekly on monday",
			want:   []TokenKind{KindRecurringUnit, KindRepeat, KindDayOfWeek},
		},
		{
			name:   "month and number",
			phrase: "every january 5",
			want:   []TokenKind{KindEvery, KindMonthOfYear, KindNumber},
		},
		{
			name:   "through and instance",
			phrase: "monday through friday instance",
			want:   []TokenKind{KindDayOfWeek, KindThrough, KindDayOfWeek, KindInstance},
		},
		{
			// the am/pm pattern is unanchored, so any word containing a
			// bare "a", "p" or "o" classifies as am_pm rather than none
			name:   "stray word falls into am_pm",
			phrase: "elephant",
			want:   []TokenKind{KindAmPm},
		},
		{
			name:   "unknown word",
			phrase: "zzz",
			want:   []TokenKind{KindNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenize(tt.phrase)
			require.Len(t, tokens, len(tt.want))
			for i, k := range tt.want {
				assert.Equal(t, k, tokens[i].Kind, "token %d %q", i, tokens[i].Text)
			}
		})
	}
}

func TestContentTokens(t *testing.T) {
	tokens := contentTokens(tokenize("every other tuesday at 3pm"))
	require.Len(t, tokens, 2)
	assert.Equal(t, KindEvery, tokens[0].Kind)
	assert.Equal(t, KindDayOfWeek, tokens[1].Kind)
}

func TestMergeNthToLast(t *testing.T) {
	t.Run("collapses nth to last", func(t *testing.T) {
		tokens := mergeNthToLast(tokenize("2nd to the last friday"))
		require.Len(t, tokens, 2)
		assert.Equal(t, "-2nd", tokens[0].Text)
		assert.Equal(t, KindOrdinal, tokens[0].Kind)
		assert.Equal(t, KindDayOfWeek, tokens[1].Kind)
	})

	t.Run("bare last untouched", func(t *testing.T) {
		tokens := mergeNthToLast(tokenize("last friday"))
		require.Len(t, tokens, 2)
		assert.Equal(t, "last", tokens[0].Text)
	})
}

func TestEatTimeNumbers(t *testing.T) {
	t.Run("number after at", func(t *testing.T) {
		tokens := eatTimeNumbers(tokenize("daily at 3 pm"))
		for _, tok := range tokens {
			assert.NotEqual(t, KindNumber, tok.Kind, "token %q should have been eaten", tok.Text)
		}
	})

	t.Run("interval number kept", func(t *testing.T) {
		tokens := eatTimeNumbers(tokenize("every 2 weeks"))
		var kinds []TokenKind
		for _, tok := range tokens {
			kinds = append(kinds, tok.Kind)
		}
		assert.Contains(t, kinds, KindNumber)
	})
}
