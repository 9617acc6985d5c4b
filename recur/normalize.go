package recur

import "strings"

// normalize lower-cases and trims a phrase, rewrites comma usage (a comma
// before a 4-digit year or inside a long weekday+month date is dropped, any
// other comma becomes " and "), strips characters outside word characters,
// whitespace and "./:-", and collapses runs of whitespace.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reCommaYear.ReplaceAllString(s, " ${1}")
	s = reLongDate.ReplaceAllString(s, "${dow} ${moy}")
	s = reCommaAnd.ReplaceAllString(s, " and")
	s = reComma.ReplaceAllString(s, " and ")
	s = reJunk.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// rewriteBeginEnd turns begin/end idioms into ordinary ordinal phrases:
// "end of" -> "last of", "beginning of" -> "first of", "at the end" ->
// "on the last", "at the start" -> "on the first".
func rewriteBeginEnd(s string) string {
	s = reBeginEndOf.ReplaceAllStringFunc(s, func(m string) string {
		sub := reBeginEndOf.FindStringSubmatch(m)
		if strings.HasPrefix(sub[1], "e") {
			return "last of"
		}
		return "first of"
	})
	s = reAtBeginEnd.ReplaceAllStringFunc(s, func(m string) string {
		be := matchGroups(reAtBeginEnd, m)["be"]
		if strings.HasPrefix(be, "e") {
			return "on the last"
		}
		return "on the first"
	})
	return s
}
