package recur

import (
	"regexp"
	"strconv"
	"strings"
)

func hasKind(tokens []Token, kind TokenKind) bool {
	for _, t := range tokens {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

func firstKind(tokens []Token, kind TokenKind) (Token, bool) {
	for _, t := range tokens {
		if t.Kind == kind {
			return t, true
		}
	}
	return Token{}, false
}

// classifyEvent decides whether the event clause describes a repeating
// schedule and, when it does, fills the descriptor from its tokens. The
// checks run in a fixed order and the first applicable one wins.
func (p *Parser) classifyEvent(s string) (bool, error) {
	s = p.disambiguateOrdinalUnit(s)
	s = expandWeekdayRanges(s)

	tokens := contentTokens(eatTimeNumbers(mergeNthToLast(tokenize(s))))
	p.logger.Debug("event tokens", "tokens", tokenStrings(tokens))
	if len(tokens) == 0 {
		return false, nil
	}

	if hasKind(tokens, KindDaily) {
		p.d.freq = FreqDaily
		p.d.interval = 1
		return true, nil
	}
	if hasKind(tokens, KindEvery) || hasKind(tokens, KindRecurringUnit) {
		return p.scanRecurrence(s, tokens)
	}
	if unit, ok := findUnitFreq(tokens, FreqMonthly); ok {
		return p.classifyBareMonth(s, tokens, unit)
	}
	if unit, ok := findUnitFreq(tokens, FreqYearly); ok {
		return p.classifyBareYear(s, tokens, unit)
	}
	if hasKind(tokens, KindPluralWeekday) && !hasKind(tokens, KindOrdinal) {
		return p.classifyPluralWeekdays(s, tokens)
	}
	return false, nil
}

func tokenStrings(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}

// findUnitFreq locates a unit token carrying the given frequency.
func findUnitFreq(tokens []Token, freq string) (Token, bool) {
	for _, t := range tokens {
		if t.Kind != KindUnit {
			continue
		}
		if f, err := unitToFreq(t.Text); err == nil && f == freq {
			return t, true
		}
	}
	return Token{}, false
}

// classifyBareMonth handles phrases anchored on a bare "month" unit without a
// recurrence trigger word, like "first of the month".
func (p *Parser) classifyBareMonth(s string, tokens []Token, _ Token) (bool, error) {
	if !hasKind(tokens, KindOrdinal) && !hasKind(tokens, KindDayOfWeek) && !hasKind(tokens, KindPluralWeekday) {
		return false, nil
	}
	return p.scanRecurrence(s, tokens)
}

// classifyBareYear handles phrases anchored on a bare "year" unit. A plural
// weekday with no ordinal reads as the year's final such weekday.
func (p *Parser) classifyBareYear(s string, tokens []Token, _ Token) (bool, error) {
	if hasKind(tokens, KindPluralWeekday) && !hasKind(tokens, KindOrdinal) {
		for _, t := range tokens {
			if t.Kind != KindPluralWeekday {
				continue
			}
			codes, err := getWeekdayCodes(t.Text)
			if err != nil {
				return false, err
			}
			for _, c := range codes {
				p.d.ordinalWeekdays = append(p.d.ordinalWeekdays, "-1"+c)
			}
		}
		p.d.freq = FreqYearly
		return true, nil
	}
	if !hasKind(tokens, KindOrdinal) && !hasKind(tokens, KindDayOfWeek) {
		return false, nil
	}
	return p.scanRecurrence(s, tokens)
}

// classifyPluralWeekdays handles schedules stated purely as plural weekdays,
// like "mondays and wednesdays" or "weekdays at 9".
func (p *Parser) classifyPluralWeekdays(s string, tokens []Token) (bool, error) {
	p.d.freq = FreqWeekly
	switch {
	case strings.Contains(s, "weekday"):
		p.d.weekdays = append(p.d.weekdays, "MO", "TU", "WE", "TH", "FR")
	case strings.Contains(s, "weekend"):
		p.d.weekdays = append(p.d.weekdays, "SA", "SU")
	default:
		for i, re := range rePluralDoWs {
			if re.MatchString(s) {
				p.d.weekdays = append(p.d.weekdays, weekdayCodes[i])
			}
		}
	}
	if len(p.d.weekdays) == 0 {
		p.d.freq = ""
		return false, nil
	}
	switch {
	case alternating(s):
		p.d.interval = 2
	default:
		if num, ok := firstKind(tokens, KindNumber); ok {
			n, err := getNumber(num.Text)
			if err != nil {
				return false, err
			}
			p.d.interval = n
		}
	}
	return true, nil
}

func alternating(s string) bool {
	return strings.Contains(s, "every other") || strings.Contains(s, "alternate") || reBi.MatchString(s)
}

// scanRecurrence walks the content tokens left to right, accumulating
// descriptor fields. Trigger words are consumed before the walk and ordinal
// runs are handed to scanOrdinals.
func (p *Parser) scanRecurrence(s string, tokens []Token) (bool, error) {
	if alternating(s) {
		p.d.interval = 2
	}

	filtered := tokens[:0:0]
	for _, t := range tokens {
		if t.Kind != KindEvery {
			filtered = append(filtered, t)
		}
	}

	i := 0
	for i < len(filtered) {
		t := filtered[i]
		switch t.Kind {
		case KindOrdinal:
			next, err := p.scanOrdinals(filtered, i)
			if err != nil {
				return false, err
			}
			i = next
		case KindUnit:
			freq, err := unitToFreq(t.Text)
			if err != nil {
				return false, err
			}
			if done, next, err := p.scanUnitNumbers(filtered, i, freq); err != nil {
				return false, err
			} else if done {
				i = next
				continue
			}
			// a trailing "day" after a broader unit is descriptive filler
			if !(freq == FreqDaily && p.d.freq != "" && p.d.freq != FreqDaily) {
				p.d.freq = freq
			}
			i++
		case KindRecurringUnit:
			freq, err := unitToFreq(t.Text)
			if err != nil {
				return false, err
			}
			p.d.freq = freq
			i++
		case KindNumber:
			n, err := getNumber(t.Text)
			if err != nil {
				return false, err
			}
			p.d.interval = n
			i++
		case KindDayOfWeek, KindPluralWeekday:
			codes, err := getWeekdayCodes(t.Text)
			if err != nil {
				return false, err
			}
			p.d.weekdays = append(p.d.weekdays, codes...)
			i++
		case KindMonthOfYear:
			mon, err := getMonth(t.Text)
			if err != nil {
				return false, err
			}
			p.d.byMonth = append(p.d.byMonth, mon)
			i++
		case KindDaily:
			p.d.freq = FreqDaily
			i++
		default:
			i++
		}
	}

	if p.d.freq == "" {
		switch {
		case len(p.d.byMonth) > 0:
			p.d.freq = FreqYearly
		case len(p.d.ordinalWeekdays) > 0 || len(p.d.byMonthDay) > 0:
			p.d.freq = FreqMonthly
		case len(p.d.weekdays) > 0:
			p.d.freq = FreqWeekly
		case len(p.d.byYearDay) > 0 || len(p.d.byWeekNo) > 0:
			p.d.freq = FreqYearly
		}
	}
	return p.d.freq != "", nil
}

// scanUnitNumbers handles a day or week unit followed by a run of bare
// numbers, which select days or weeks within the larger cycle: "on day 100"
// or "in week 20".
func (p *Parser) scanUnitNumbers(tokens []Token, i int, freq string) (bool, int, error) {
	if freq != FreqDaily && freq != FreqWeekly {
		return false, i, nil
	}
	if i+1 >= len(tokens) || tokens[i+1].Kind != KindNumber {
		return false, i, nil
	}
	var nums []int
	j := i + 1
	for j < len(tokens) && tokens[j].Kind == KindNumber {
		n, err := getNumber(tokens[j].Text)
		if err != nil {
			return false, i, err
		}
		nums = append(nums, n)
		j++
	}
	if freq == FreqDaily {
		if p.d.freq == FreqMonthly || len(p.d.byMonth) > 0 {
			p.d.byMonthDay = append(p.d.byMonthDay, nums...)
		} else {
			p.d.byYearDay = append(p.d.byYearDay, nums...)
			if p.d.freq == "" {
				p.d.freq = FreqYearly
			}
		}
	} else {
		p.d.byWeekNo = append(p.d.byWeekNo, nums...)
		if p.d.freq == "" {
			p.d.freq = FreqYearly
		}
	}
	return true, j, nil
}

// scanOrdinals consumes a run of ordinal tokens starting at i and dispatches
// on the token that follows it. Returns the index of the first unconsumed
// token.
func (p *Parser) scanOrdinals(tokens []Token, i int) (int, error) {
	var ords []int
	j := i
	for j < len(tokens) && tokens[j].Kind == KindOrdinal {
		v, err := getOrdinalIndex(tokens[j].Text)
		if err != nil {
			return 0, err
		}
		ords = append(ords, v)
		j++
	}
	if j >= len(tokens) {
		p.d.byMonthDay = append(p.d.byMonthDay, ords...)
		return j, nil
	}

	next := tokens[j]
	switch next.Kind {
	case KindDayOfWeek, KindPluralWeekday:
		var dows []string
		for j < len(tokens) && (tokens[j].Kind == KindDayOfWeek || tokens[j].Kind == KindPluralWeekday) {
			codes, err := getWeekdayCodes(tokens[j].Text)
			if err != nil {
				return 0, err
			}
			dows = append(dows, codes...)
			j++
		}
		for _, o := range ords {
			for _, c := range dows {
				p.d.ordinalWeekdays = append(p.d.ordinalWeekdays, signedCode(o, c))
			}
		}
	case KindInstance:
		p.d.bySetPos = append(p.d.bySetPos, ords...)
		j++
	case KindNumber:
		n, err := getNumber(next.Text)
		if err != nil {
			return 0, err
		}
		p.d.interval = n
		j++
	case KindMonthOfYear:
		mon, err := getMonth(next.Text)
		if err != nil {
			return 0, err
		}
		p.d.byMonthDay = append(p.d.byMonthDay, ords...)
		p.d.byMonth = append(p.d.byMonth, mon)
		j++
	case KindUnit:
		return p.scanOrdinalUnit(tokens, j, ords)
	default:
		p.d.byMonthDay = append(p.d.byMonthDay, ords...)
	}
	return j, nil
}

// scanOrdinalUnit resolves an ordinal run followed by a unit word. A
// pluralized unit with a single positive ordinal reads as an interval
// ("every 2nd months" after disambiguation); otherwise the ordinals select
// positions within the unit's cycle.
func (p *Parser) scanOrdinalUnit(tokens []Token, j int, ords []int) (int, error) {
	unit := tokens[j]
	freq, err := unitToFreq(unit.Text)
	if err != nil {
		return 0, err
	}

	if strings.HasSuffix(unit.Text, "s") && len(ords) == 1 && ords[0] > 0 {
		p.d.freq = freq
		p.d.interval = ords[0]
		return j + 1, nil
	}

	switch freq {
	case FreqMonthly:
		p.d.byMonthDay = append(p.d.byMonthDay, ords...)
		p.d.freq = FreqMonthly
		return j + 1, nil
	case FreqYearly:
		p.d.byYearDay = append(p.d.byYearDay, ords...)
		p.d.freq = FreqYearly
		return j + 1, nil
	case FreqWeekly:
		for _, o := range ords {
			if o >= 1 && o <= 7 {
				p.d.weekdays = append(p.d.weekdays, orderedWeekdayCodes[o])
			}
		}
		p.d.freq = FreqWeekly
		return j + 1, nil
	case FreqDaily:
		// "first day of the month", "100th day of the year", "first day of june"
		if k := j + 1; k < len(tokens) {
			switch tokens[k].Kind {
			case KindUnit:
				if f2, err := unitToFreq(tokens[k].Text); err == nil {
					if f2 == FreqMonthly {
						p.d.byMonthDay = append(p.d.byMonthDay, ords...)
						p.d.freq = FreqMonthly
						return k + 1, nil
					}
					if f2 == FreqYearly {
						p.d.byYearDay = append(p.d.byYearDay, ords...)
						p.d.freq = FreqYearly
						return k + 1, nil
					}
				}
			case KindMonthOfYear:
				mon, err := getMonth(tokens[k].Text)
				if err != nil {
					return 0, err
				}
				p.d.byMonthDay = append(p.d.byMonthDay, ords...)
				p.d.byMonth = append(p.d.byMonth, mon)
				return k + 1, nil
			}
		}
		p.d.freq = FreqDaily
		if len(ords) == 1 && ords[0] > 0 {
			p.d.interval = ords[0]
		}
		return j + 1, nil
	default:
		p.d.freq = freq
		if len(ords) == 1 && ords[0] > 0 {
			p.d.interval = ords[0]
		}
		return j + 1, nil
	}
}

func signedCode(ord int, code string) string {
	if ord < 0 {
		return strconv.Itoa(ord) + code
	}
	return "+" + strconv.Itoa(ord) + code
}

// disambiguateOrdinalUnit resolves the ambiguity of "ordinal unit" pairs.
// "first day of the month" keeps its unit because a larger cycle word
// follows; "every 2nd month" pluralizes into "every 2nd months" so the walk
// reads it as an interval; an ordinal-unit pair with no larger context
// reinterprets the ordinal as a weekday position ("2nd of the week" is
// monday).
func (p *Parser) disambiguateOrdinalUnit(s string) string {
	loc := reOrdUnit.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	ordText := groupByName(reOrdUnit, s, loc, "ord")
	unitText := groupByName(reOrdUnit, s, loc, "unit")
	if !isCycleUnit(unitText) {
		return s
	}
	_, unitEnd := groupRange(reOrdUnit, loc, "unit")
	rest := s[:loc[0]] + s[loc[1]:]

	wmy := reWMYWord.MatchString(rest)
	moy := reMoYAnywhere.MatchString(rest)
	trigger := reRepeat.MatchString(s) || reRecurringUnit.MatchString(s) || reDaily.MatchString(s)

	switch {
	case unitText == "day" && (wmy || moy):
		return s
	case wmy || moy || trigger:
		if strings.HasSuffix(unitText, "s") {
			return s
		}
		return s[:unitEnd] + "s" + s[unitEnd:]
	default:
		n, err := getOrdinalIndex(ordText)
		if err != nil || n < 1 || n > 7 {
			return s
		}
		return s[:loc[0]] + fullDayNames[orderedWeekdayCodes[n]] + s[loc[1]:]
	}
}

func isCycleUnit(unit string) bool {
	switch strings.TrimSuffix(unit, "s") {
	case "day", "week", "month", "year":
		return true
	}
	return false
}

func groupByName(re *regexp.Regexp, s string, loc []int, name string) string {
	start, end := groupRange(re, loc, name)
	if start < 0 {
		return ""
	}
	return s[start:end]
}

func groupRange(re *regexp.Regexp, loc []int, name string) (int, int) {
	idx := re.SubexpIndex(name)
	if idx < 0 || 2*idx+1 >= len(loc) {
		return -1, -1
	}
	return loc[2*idx], loc[2*idx+1]
}

// expandWeekdayRanges rewrites weekday spans like "monday through friday" or
// "mon-fri" into explicit day lists so the token walk sees each member.
func expandWeekdayRanges(s string) string {
	return reDayThru.ReplaceAllStringFunc(s, func(m string) string {
		g := matchGroups(reDayThru, m)
		first, err1 := getWeekdayCodes(strings.TrimSuffix(g["first"], "s"))
		second, err2 := getWeekdayCodes(strings.TrimSuffix(g["second"], "s"))
		if err1 != nil || err2 != nil || len(first) != 1 || len(second) != 1 {
			return m
		}
		plural := strings.HasSuffix(g["first"], "s") || strings.HasSuffix(g["second"], "s")
		idx := 0
		for i, c := range weekdayCycle {
			if c == first[0] {
				idx = i
				break
			}
		}
		var names []string
		for {
			code := weekdayCycle[idx]
			name := fullDayNames[code]
			if plural {
				name += "s"
			}
			names = append(names, name)
			if code == second[0] || len(names) >= 7 {
				break
			}
			idx = (idx + 1) % 7
		}
		return strings.Join(names, " and ")
	})
}

// extractTimeOfDay records an unambiguous time mention from the event clause
// into BYHOUR and BYMINUTE. Bare numbers do not count as times unless the
// match carries a colon, an am/pm marker or o'clock, or follows "at".
func (p *Parser) extractTimeOfDay(s string) {
	m := matchGroups(reAtTime, s)
	if m == nil {
		m = matchGroups(reTime, s)
		if m == nil || !reDefTime.MatchString(reTime.FindString(s)) {
			return
		}
	}
	hour, err := strconv.Atoi(m["hour"])
	if err != nil || hour > 23 {
		return
	}
	minute := 0
	if m["minute"] != "" {
		if minute, err = strconv.Atoi(m["minute"]); err != nil || minute > 59 {
			return
		}
	}
	p.d.byHour = []int{p.resolveHour(hour, m["mod"])}
	p.d.byMinute = []int{minute}
}
