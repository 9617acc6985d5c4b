package recur

import (
	"sort"
	"time"
)

// exceptionDate is one entry of an exception clause: either a concrete date
// or a partial month marker. A partial marker with year 0 matches its month
// in any year until the first matching occurrence pins it; a year from the
// phrase is enforced from the start.
type exceptionDate struct {
	at    time.Time
	month int
	year  int
}

func (e exceptionDate) concrete() bool { return !e.at.IsZero() }

// key orders exceptions for the merge. An unpinned partial sorts at the
// month's next arrival after start; this guess only affects cursor order,
// not which occurrences match.
func (e exceptionDate) key(start time.Time) time.Time {
	if e.concrete() {
		return e.at
	}
	y := e.year
	if y == 0 {
		y = start.Year()
		if time.Month(e.month) < start.Month() {
			y++
		}
	}
	return time.Date(y, time.Month(e.month), 1, 0, 0, 0, 0, time.UTC)
}

// passed reports whether occurrence t lies beyond the exception's window. An
// unpinned partial has no window yet and is never passed.
func (e exceptionDate) passed(t time.Time) bool {
	if e.concrete() {
		return t.After(e.at) && !sameDate(t, e.at)
	}
	if e.year == 0 {
		return false
	}
	return t.Year() > e.year || (t.Year() == e.year && int(t.Month()) > e.month)
}

func (e exceptionDate) matches(t time.Time) bool {
	if e.concrete() {
		return sameDate(t, e.at)
	}
	return int(t.Month()) == e.month && (e.year == 0 || t.Year() == e.year)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// resolveExdates expands the record built so far and collects the concrete
// occurrence dates each exception knocks out. Partial month markers absorb
// every occurrence of their month in the year of the first hit; concrete
// dates match at most one. The walk is bounded so a sparse rule cannot spin
// the expansion forever.
func (p *Parser) resolveExdates(rec string, exs []exceptionDate) []time.Time {
	start := p.now
	if p.d.dtstart != nil {
		start = *p.d.dtstart
	}

	resolved := make([]exceptionDate, len(exs))
	copy(resolved, exs)
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].key(start).Before(resolved[j].key(start))
	})

	next, err := p.engine.Iterator(rec, start)
	if err != nil {
		p.logger.Warn("failed to expand rule for exception dates", "error", err)
		return nil
	}

	var out []time.Time
	i := 0
	limit := 1000 * (len(resolved) + 1)
	for pulls := 0; pulls < limit && i < len(resolved); pulls++ {
		t, ok := next()
		if !ok {
			break
		}
		for i < len(resolved) && resolved[i].passed(t) {
			i++
		}
		if i >= len(resolved) {
			break
		}
		if !resolved[i].matches(t) {
			continue
		}
		out = append(out, t)
		if resolved[i].concrete() {
			i++
		} else if resolved[i].year == 0 {
			resolved[i].year = t.Year()
		}
	}
	return out
}
