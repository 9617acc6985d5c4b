package recur

import (
	"fmt"
	"regexp"
	"strings"
)

// TokenKind is the closed set of word classes the tokenizer assigns. The
// declaration order of the content kinds doubles as the classification
// priority: the first matching kind wins.
type TokenKind string

const (
	KindDaily         TokenKind = "daily"
	KindEvery         TokenKind = "every"
	KindThrough       TokenKind = "through"
	KindRecurringUnit TokenKind = "recurring_unit"
	KindOrdinal       TokenKind = "ordinal"
	KindUnit          TokenKind = "unit"
	KindNumber        TokenKind = "number"
	KindPluralWeekday TokenKind = "plural_weekday"
	KindDayOfWeek     TokenKind = "day_of_week"
	KindMonthOfYear   TokenKind = "month_of_year"
	KindInstance      TokenKind = "instance_marker"

	KindAmbigMod  TokenKind = "ambiguous_modifier"
	KindStarting  TokenKind = "starting"
	KindEnding    TokenKind = "ending"
	KindRepeat    TokenKind = "repeat"
	KindSeparator TokenKind = "separator"
	KindTime      TokenKind = "time"
	KindOther     TokenKind = "other"
	KindAmPm      TokenKind = "am_pm"

	// KindNone marks a word no class matched.
	KindNone TokenKind = ""
)

// Token is one whitespace-delimited word of a phrase with its word class.
type Token struct {
	Text string
	Kind TokenKind
}

func (t Token) String() string {
	return fmt.Sprintf("<%s: %s>", t.Text, t.Kind)
}

type kindPattern struct {
	kind TokenKind
	re   *regexp.Regexp
}

// contentKinds are retained by the content filter; the remaining kinds exist
// only to disambiguate their neighbors during extraction.
var contentKinds = []kindPattern{
	{KindDaily, reDaily},
	{KindEvery, reEvery},
	{KindThrough, reThrough},
	{KindRecurringUnit, reRecurringUnit},
	{KindOrdinal, reOrdinal},
	{KindUnit, reUnits},
	{KindNumber, reNumber},
	{KindPluralWeekday, rePluralWeekday},
	{KindDayOfWeek, reDoW},
	{KindMonthOfYear, reMoY},
	{KindInstance, reInstance},
}

var allKinds = append(append([]kindPattern{}, contentKinds...), []kindPattern{
	{KindAmbigMod, reAmbigMod},
	{KindStarting, reStarting},
	{KindEnding, reEnding},
	{KindRepeat, reRepeat},
	{KindSeparator, reSep},
	{KindTime, reTime},
	{KindOther, reOther},
	{KindAmPm, reAmPm},
}...)

// tokenize splits a normalized phrase on single spaces and classifies each
// word against the ordered kind table.
func tokenize(s string) []Token {
	var tokens []Token
	for _, word := range strings.Split(s, " ") {
		if word == "" {
			continue
		}
		tok := Token{Text: word, Kind: KindNone}
		for _, kp := range allKinds {
			if kp.re.MatchString(word) {
				tok.Kind = kp.kind
				break
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func isContentKind(k TokenKind) bool {
	for _, kp := range contentKinds {
		if kp.kind == k {
			return true
		}
	}
	return false
}

// contentTokens filters the stream down to content kinds.
func contentTokens(tokens []Token) []Token {
	var out []Token
	for _, t := range tokens {
		if isContentKind(t.Kind) {
			out = append(out, t)
		}
	}
	return out
}

// mergeNthToLast collapses constructs like "2nd to the last" into a single
// negative ordinal. It locates an ordinal token reading "last", walks
// backward over contiguous ordinals (skipping separators other than "and"),
// prefixes each with a minus sign, and drops the now-redundant tokens.
func mergeNthToLast(tokens []Token) []Token {
	lastIdx := -1
	for i, t := range tokens {
		if t.Kind == KindOrdinal && t.Text == "last" {
			lastIdx = i
			break
		}
	}
	if lastIdx <= 0 {
		return tokens
	}

	negated := false
	drop := map[int]bool{}
	for j := lastIdx - 1; j >= 0; j-- {
		t := tokens[j]
		if t.Kind == KindSeparator && t.Text != "and" {
			drop[j] = true
			continue
		}
		if t.Kind == KindOrdinal {
			tokens[j].Text = "-" + t.Text
			negated = true
			continue
		}
		break
	}
	if !negated {
		return tokens
	}

	drop[lastIdx] = true
	out := tokens[:0]
	for i, t := range tokens {
		if !drop[i] {
			out = append(out, t)
		}
	}
	return out
}

// eatTimeNumbers removes bare number tokens that are actually part of a
// time-of-day mention: a number directly before an am/pm word, or directly
// after the separator "at". Time-of-day is extracted by its own pattern, not
// by the number logic.
func eatTimeNumbers(tokens []Token) []Token {
	out := tokens[:0]
	for i, t := range tokens {
		if t.Kind == KindNumber {
			if i+1 < len(tokens) && tokens[i+1].Kind == KindAmPm {
				continue
			}
			if i > 0 && tokens[i-1].Kind == KindSeparator && tokens[i-1].Text == "at" {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
