package recur

import (
	"strings"
	"time"

	"github.com/samber/mo"
)

// resolveSingleton recognizes ordinal date phrases that name exactly one
// calendar day, like "3rd friday of may" or "100th day of the year 2027".
// The phrase is rewritten into an equivalent repeating schedule, expanded
// from January 1 of the reference year, and the first occurrence is the
// answer. A trailing number of at least 1000 overrides the reference year.
func (p *Parser) resolveSingleton(s string) mo.Option[time.Time] {
	none := mo.None[time.Time]()

	tokens := contentTokens(eatTimeNumbers(mergeNthToLast(tokenize(s))))
	if len(tokens) < 2 || len(tokens) > 5 {
		return none
	}
	if tokens[0].Kind != KindOrdinal {
		return none
	}
	if len(tokens) > 1 && tokens[1].Kind == KindOrdinal {
		return none
	}

	year := 0
	if last := tokens[len(tokens)-1]; last.Kind == KindNumber {
		n, err := getNumber(last.Text)
		if err != nil || n < 1000 {
			return none
		}
		year = n
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return none
	}

	ord := tokens[0].Text
	rest := tokens[1:]
	var phrase string
	switch {
	case len(rest) == 0:
		phrase = ord + " of the year"
	case rest[len(rest)-1].Kind == KindMonthOfYear:
		words := make([]string, len(tokens))
		for i, t := range tokens {
			words[i] = t.Text
		}
		phrase = strings.Join(words, " ")
	case len(rest) == 1 && rest[0].Kind == KindUnit:
		freq, err := unitToFreq(rest[0].Text)
		if err != nil {
			return none
		}
		switch freq {
		case FreqDaily, FreqYearly:
			phrase = ord + " of the year"
		case FreqWeekly, FreqMonthly:
			phrase = ord + " of the " + strings.TrimSuffix(rest[0].Text, "s")
		default:
			return none
		}
	case len(rest) == 2 && rest[0].Kind == KindUnit && rest[1].Kind == KindUnit:
		// "100th day of the year"
		phrase = ord + " " + rest[0].Text + " " + rest[1].Text
	default:
		return none
	}

	seedYear := p.now.Year()
	if year != 0 {
		seedYear = year
	}
	seed := time.Date(seedYear, 1, 1, 0, 0, 0, 0, time.UTC)

	res, err := p.sub().Parse("every " + phrase)
	if err != nil || res == nil || !res.IsRecurrence() {
		return none
	}
	t, ok, err := p.engine.First(res.Rule, seed)
	if err != nil || !ok {
		return none
	}
	return mo.Some(t)
}
