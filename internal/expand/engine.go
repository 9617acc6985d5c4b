// Package expand wraps teambition/rrule-go behind the canonical text record
// used by the language pipeline. It translates the record into rrule wire
// form, seeds it with a reference start when the record carries none, and
// exposes the occurrence sequence as a lazy, restartable iterator.
package expand

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Next pulls the next occurrence from a stream; ok is false once exhausted.
type Next func() (t time.Time, ok bool)

// Config tunes the engine.
type Config struct {
	// MaxPulls caps the number of occurrences a single iterator will yield,
	// so a consumer bug against an unbounded rule still terminates.
	MaxPulls int
	// CacheSize bounds the first-occurrence cache; 0 disables it.
	CacheSize int
}

// DefaultConfig provides sensible defaults.
var DefaultConfig = Config{
	MaxPulls:  100000,
	CacheSize: 256,
}

// Engine expands canonical recurrence records.
type Engine struct {
	config Config
	cache  *firstCache
}

// New creates an engine with DefaultConfig.
func New() *Engine {
	return NewWithConfig(DefaultConfig)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(config Config) *Engine {
	var c *firstCache
	if config.CacheSize > 0 {
		c = newFirstCache(config.CacheSize)
	}
	return &Engine{config: config, cache: c}
}

// record is the parsed form of a canonical text record.
type record struct {
	dtstart *time.Time
	rule    string
	exrule  string
	exdates []time.Time
}

func parseRecord(s string) (*record, error) {
	rec := &record{}
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "DTSTART:"):
			t, err := parseDate(strings.TrimPrefix(line, "DTSTART:"))
			if err != nil {
				return nil, fmt.Errorf("bad DTSTART: %w", err)
			}
			rec.dtstart = &t
		case strings.HasPrefix(line, "RRULE:"):
			rec.rule = strings.TrimPrefix(line, "RRULE:")
		case strings.HasPrefix(line, "EXRULE:"):
			rec.exrule = strings.TrimPrefix(line, "EXRULE:")
		case strings.HasPrefix(line, "EXDATE:"):
			for _, ds := range strings.Split(strings.TrimPrefix(line, "EXDATE:"), ",") {
				t, err := parseDate(ds)
				if err != nil {
					return nil, fmt.Errorf("bad EXDATE entry %q: %w", ds, err)
				}
				rec.exdates = append(rec.exdates, t)
			}
		}
	}
	if rec.rule == "" {
		return nil, fmt.Errorf("record has no RRULE line")
	}
	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", "20060102T150405Z", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q", s)
}

// normalizeRule rewrites a canonical RRULE body into the form rrule-go
// parses: UNTIL values become compact UTC datetimes and BYDAY ordinals lose
// their explicit plus signs.
func normalizeRule(body string) string {
	parts := strings.Split(body, ";")
	for i, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch key {
		case "UNTIL":
			if t, err := parseDate(value); err == nil {
				parts[i] = "UNTIL=" + t.Format("20060102") + "T235959Z"
			}
		case "BYDAY":
			parts[i] = "BYDAY=" + strings.ReplaceAll(value, "+", "")
		}
	}
	return strings.Join(parts, ";")
}

// asUTC reinterprets a wall-clock time as UTC. All pipeline times are naive;
// pinning one location keeps rrule comparisons consistent.
func asUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func excludedByDate(t time.Time, exdates []time.Time) bool {
	for _, ex := range exdates {
		if sameDate(t, ex) {
			return true
		}
	}
	return false
}

// Iterator compiles the record and returns its occurrence stream, seeded at
// start when the record has no DTSTART of its own. EXDATE entries are matched
// by calendar date and EXRULE occurrences are filtered out with an advancing
// cursor over the exception stream.
func (e *Engine) Iterator(rec string, start time.Time) (Next, error) {
	parsed, err := parseRecord(rec)
	if err != nil {
		return nil, err
	}
	seed := asUTC(start)
	if parsed.dtstart != nil {
		seed = *parsed.dtstart
	}

	base, err := rrule.StrToRRule(normalizeRule(parsed.rule))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE %q: %w", parsed.rule, err)
	}
	base.DTStart(seed)
	next := base.Iterator()

	var exNext Next
	var exCur time.Time
	var exOK bool
	if parsed.exrule != "" {
		ex, err := rrule.StrToRRule(normalizeRule(parsed.exrule))
		if err != nil {
			return nil, fmt.Errorf("failed to parse EXRULE %q: %w", parsed.exrule, err)
		}
		ex.DTStart(seed)
		exNext = Next(ex.Iterator())
		exCur, exOK = exNext()
	}

	pulls := 0
	return func() (time.Time, bool) {
		for pulls < e.config.MaxPulls {
			pulls++
			t, ok := next()
			if !ok {
				return time.Time{}, false
			}
			if excludedByDate(t, parsed.exdates) {
				continue
			}
			if exNext != nil {
				for exOK && exCur.Before(t) && !sameDate(exCur, t) {
					exCur, exOK = exNext()
				}
				if exOK && sameDate(exCur, t) {
					continue
				}
			}
			return t, true
		}
		return time.Time{}, false
	}, nil
}

// First returns the first occurrence the record generates from start.
// Results are cached per (record, start).
func (e *Engine) First(rec string, start time.Time) (time.Time, bool, error) {
	if e.cache != nil {
		if t, ok, hit := e.cache.get(rec, start); hit {
			return t, ok, nil
		}
	}
	next, err := e.Iterator(rec, start)
	if err != nil {
		return time.Time{}, false, err
	}
	t, ok := next()
	if e.cache != nil {
		e.cache.put(rec, start, t, ok)
	}
	return t, ok, nil
}
