package recur

import (
	"regexp"
	"strconv"
	"strings"
)

// Word-class tables. Order matters everywhere below: classification walks
// these in sequence and the first hit wins.

var weekdayPatterns = []string{
	`mon(day)?`,
	`tues?(day)?`,
	`(we(dnes|nds|ns|des)day)|(wed)`,
	`(th(urs|ers)day)|(thur?s?)`,
	`fri(day)?`,
	`sat([ue]rday)?`,
	`sun(day)?`,
	`weekday`,
	`weekend`,
}

// weekdayCodes[i] corresponds to weekdayPatterns[i]; the composite entries
// expand "weekday"/"weekend" to their member days.
var weekdayCodes = []string{
	"MO", "TU", "WE", "TH", "FR", "SA", "SU", "MO,TU,WE,TH,FR", "SA,SU",
}

// orderedWeekdayCodes is indexed by 1-based ordinal, Sunday first.
var orderedWeekdayCodes = []string{"", "SU", "MO", "TU", "WE", "TH", "FR", "SA"}

var weekdayCycle = []string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

var dayNames = map[string]string{
	"MO": "Mon", "TU": "Tue", "WE": "Wed", "TH": "Thu",
	"FR": "Fri", "SA": "Sat", "SU": "Sun",
}

var fullDayNames = map[string]string{
	"MO": "monday", "TU": "tuesday", "WE": "wednesday", "TH": "thursday",
	"FR": "friday", "SA": "saturday", "SU": "sunday",
}

var monthPatterns = []string{
	`jan(uary)?`,
	`feb(r?uary)?`,
	`mar(ch)?`,
	`apr(il)?`,
	`may`,
	`jun(e)?`,
	`jul(y)?`,
	`aug(ust)?`,
	`sept?(ember)?`,
	`oct(ober)?`,
	`nov(ember)?`,
	`dec(ember)?`,
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var unitWords = []string{"day", "week", "month", "year", "hour", "minute", "min", "sec", "seconds"}

var unitFreqs = []string{
	FreqDaily, FreqWeekly, FreqMonthly, FreqYearly,
	FreqHourly, FreqMinutely, FreqMinutely, FreqSecondly, FreqSecondly,
}

var ordinalWords = []string{
	"first", "second", "third", "fourth", "fifth",
	"sixth", "seventh", "eighth", "ninth", "tenth", "last",
}

var numberWords = []string{
	"zero", "one", "two", "three", "four", "five",
	"six", "seven", "eight", "nine", "ten",
}

func joinAlternates(parts []string) string {
	return "(" + strings.Join(parts, ")|(") + ")"
}

func anchorAlternates(parts []string) string {
	return "(" + strings.Join(parts, ")$|(") + ")$"
}

var (
	strDoW             = joinAlternates(weekdayPatterns)
	strPluralDoW       = "mondays|tuesdays|wednesdays|thursdays|fridays|saturdays|sundays"
	strPluralWeekday   = "weekdays|weekends|" + strPluralDoW
	strMoYUnanchored   = joinAlternates(monthPatterns)
	strOrdinal         = `\d+(st|nd|rd|th)|` + strings.Join(ordinalWords, "|")
	strNumber          = "(" + strings.Join(numberWords, "|") + `)|(\d+)`
	strDaily           = "daily|everyday"
	strTime            = `(?P<hour>\d{1,2}):?(?P<minute>\d{2})?\s?(?P<mod>am?|pm?)?(o'?clock)?`
	strStarting        = `start(?:s|ing)?`
	strEnding          = `(?:\bend|until)(?:s|ing)?`
	strStart           = "(" + strStarting + `)\s(?P<starting>.*)`
	strStartShort      = "(" + strStarting + `)\s(?P<starting>.*?)`
	strEnd             = strEnding + `(?P<ending>.*)`
	strEventHead       = `(?:every|each|\bon\b|\bthe\b|repeat|` + strDaily + "|" + strPluralWeekday
	strEvent           = `(?P<event>` + strEventHead + "|" + strOrdinal + `)(?:s|ing)?(.*))`
	strEventNoOrd      = `(?P<event>` + strEventHead + `)(?:s|ing)?(.*))`
	strUnitAlternation = strings.Join(unitWords, "s?|") + "?"
)

var (
	rePluralWeekday = regexp.MustCompile(strPluralWeekday)
	reDoWs          = compileAll(weekdayPatterns, "")
	rePluralDoWs    = compileAll(strings.Split(strPluralDoW, "|"), "")
	reDoW           = regexp.MustCompile(strDoW)
	reMoYs          = compileAll(monthPatterns, "$")
	reMoY           = regexp.MustCompile(anchorAlternates(monthPatterns))
	reMoYAnywhere   = regexp.MustCompile(strMoYUnanchored)
	reUnits         = regexp.MustCompile("^(" + strUnitAlternation + ")$")
	reOrdinals      = compileAll(ordinalWords, "$")
	reOrdinal       = regexp.MustCompile(`\d+(st|nd|rd|th)$|` + strings.Join(ordinalWords, "$|") + "$")
	reNumber        = regexp.MustCompile("(" + strings.Join(numberWords, "|") + `)$|(\d+)$`)
	reEvery         = regexp.MustCompile(`(every|each|once)$`)
	reThrough       = regexp.MustCompile(`(through|thru)$`)
	reDaily         = regexp.MustCompile(strDaily)
	reRecurringUnit = regexp.MustCompile(`weekly|monthly|yearly`)
	reTime          = regexp.MustCompile(strTime)
	reDefTime       = regexp.MustCompile(`[:apo]`)
	reAtTime        = regexp.MustCompile(`at\s` + strTime)
	reStarting      = regexp.MustCompile(strStarting)
	reEnding        = regexp.MustCompile(strEnding)
	reRepeat        = regexp.MustCompile(`(?:every|each|\bon\b|repeat(s|ing)?)`)
	reSep           = regexp.MustCompile(`(from|to|through|thru|on|at|of|in|a|an|the|and|or|both)$`)
	reAmbigMod      = regexp.MustCompile(`(this|next|last)$`)
	reOther         = regexp.MustCompile(`other|alternate`)
	reBi            = regexp.MustCompile(`\bbi-?\s?(week|month|year)`)
	reAmPm          = regexp.MustCompile(`am?|pm?|o'?clock`)
	reInstance      = regexp.MustCompile(`\binstance\b|\boccurrence\b`)

	reStartEnd   = regexp.MustCompile(`(?P<event>.*?)\s` + strStarting + `\s(?P<starting>.*?)\s` + strEnding + `\s?(?P<ending>.*)`)
	reStartEvent = regexp.MustCompile(strStartShort + `\s` + strEventNoOrd)
	reEventStart = regexp.MustCompile(strEvent + `\s` + strStart)
	reFromTo     = regexp.MustCompile(`(?P<event>.*)from(?P<starting>.*)(to|through|thru|until)(?P<ending>.*)`)
	reOtherEnd   = regexp.MustCompile(`(?P<other>.*)\s` + strEnd)
	reCount      = regexp.MustCompile(`(?P<event>.*?)(?:\bfor\s+|\b(?:for\s+)?up\s+to\s+)?(?:(?P<twice>twice)|(?P<count>` + strNumber + `)(?:x|\s*times|\s*occurrences))`)
	reCountUnit1 = regexp.MustCompile(`(?P<event>.*?)(?:\bfor\s+the\s+next\s+|\bfor\s+(?:up\s+to\s+)?)\s*(?P<unit>week|month|year)`)
	reCountUnitN = regexp.MustCompile(`(?P<event>.*?)(?:\bfor\s+the\s+next\s+|\bfor\s+(?:up\s+to\s+)?)(?P<count>` + strNumber + `)\s*(?P<unit>weeks|months|years)`)
	reExcept     = regexp.MustCompile(`(?P<event>.*?)\bexcept(?:\s+for\s|\s+on\s+|\s+in\s+)?(?P<except>.*)$`)

	reOrdUnit = regexp.MustCompile(`(?P<ord>` + strOrdinal + `)\s+(?P<unit>(?:` + strDoW + `|day|week|month|year)\b)`)
	reDayThru = regexp.MustCompile(`(?P<first>` + strPluralDoW + "|" + strDoW + `)(?:[-]|\s+thru\s+|\s+through\s+)(?P<second>` + strPluralDoW + "|" + strDoW + `)`)

	reBeginEndOf = regexp.MustCompile(`(?P<be>beginning|begin|start|ending|end)\s+of\b`)
	reAtBeginEnd = regexp.MustCompile(`\bat(\s+the)?\s+(?P<be>beginning\b|begin\b|start\b|ending\b|end\b)`)

	reCommaYear    = regexp.MustCompile(`,\s*(\d{4})`)
	reLongDate     = regexp.MustCompile(`(?P<dow>` + strDoW + `)\s*,\s*(?P<moy>` + strMoYUnanchored + `)`)
	reCommaAnd     = regexp.MustCompile(`,\s*and`)
	reComma        = regexp.MustCompile(`,`)
	reJunk         = regexp.MustCompile(`[^\w\s./:-]`)
	reSpaces       = regexp.MustCompile(`\s+`)
	reWMYWord      = regexp.MustCompile(`\b(week|month|year)s?\b`)
	reRRuleLine    = regexp.MustCompile(`(?m)^RRULE:(?P<rr>.*)$`)
	rePartialMonth = regexp.MustCompile(`^(?:the\s+)?(?P<moy>` + strMoYUnanchored + `)(?:\s+(?P<year>\d{4}))?$`)
	reMonthDay     = regexp.MustCompile(`^(?:the\s+)?(?P<moy>` + strMoYUnanchored + `)\s+(?P<day>\d{1,2})(?:st|nd|rd|th)?(?:\s+(?P<year>\d{4}))?$`)
)

func compileAll(parts []string, anchor string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(parts))
	for i, p := range parts {
		res[i] = regexp.MustCompile(p + anchor)
	}
	return res
}

// getNumber resolves a digit string or a number word (zero through ten).
func getNumber(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	for i, w := range numberWords {
		if s == w {
			return i, nil
		}
	}
	return 0, &UnrecognizedTokenError{Token: s, Want: "number"}
}

// getOrdinalIndex resolves an ordinal token to its signed index: "3rd" -> 3,
// "-2nd" -> -2, "last" -> -1, "first" -> 1.
func getOrdinalIndex(s string) (int, error) {
	digits := s
	if len(digits) > 2 {
		if n, err := strconv.Atoi(digits[:len(digits)-2]); err == nil {
			return n, nil
		}
	}
	sign := 1
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	}
	for i, re := range reOrdinals {
		if re.MatchString(s) {
			if i == len(ordinalWords)-1 { // "last"
				return -1, nil
			}
			return sign * (i + 1), nil
		}
	}
	return 0, &UnrecognizedTokenError{Token: s, Want: "ordinal"}
}

// getWeekdayCodes resolves a weekday word to RRULE day codes; "weekday" and
// "weekend" expand to their member days.
func getWeekdayCodes(s string) ([]string, error) {
	for i, re := range reDoWs {
		if re.MatchString(s) {
			return strings.Split(weekdayCodes[i], ","), nil
		}
	}
	return nil, &UnrecognizedTokenError{Token: s, Want: "weekday"}
}

// getMonth resolves a month name to its 1-based number.
func getMonth(s string) (int, error) {
	for i, re := range reMoYs {
		if re.MatchString(s) {
			return i + 1, nil
		}
	}
	return 0, &UnrecognizedTokenError{Token: s, Want: "month"}
}

// unitToFreq maps a unit word (possibly pluralized) to its frequency.
func unitToFreq(s string) (string, error) {
	for i, u := range unitWords {
		if strings.Contains(s, u) {
			return unitFreqs[i], nil
		}
	}
	return "", &UnrecognizedTokenError{Token: s, Want: "unit"}
}
