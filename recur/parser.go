package recur

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/calwerks/librecur/internal/expand"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Config holds construction-time parser settings. The zero value is usable:
// Now defaults to the wall clock and the preferred daytime window to 8-19.
type Config struct {
	// Now is the reference time ambiguous phrases resolve against.
	Now time.Time
	// DaytimeStart and DaytimeEnd bound the preferred daytime window used to
	// resolve bare hours: "at 3" is read as 15:00 because 3 < DaytimeStart.
	// This is a usability heuristic, not a rule about time notation.
	DaytimeStart int
	DaytimeEnd   int
	Logger       *slog.Logger
}

// Result is the outcome of a successful parse: either a canonical recurrence
// record or a single resolved timestamp.
type Result struct {
	Rule string
	Date time.Time
}

// IsRecurrence reports whether the phrase described a repeating schedule.
func (r *Result) IsRecurrence() bool { return r.Rule != "" }

// UnrecognizedTokenError reports a word that was classified as a number or
// ordinal but does not encode one. Callers should treat it like a nil result.
type UnrecognizedTokenError struct {
	Token string
	Want  string
}

func (e *UnrecognizedTokenError) Error() string {
	return fmt.Sprintf("token %q is not a recognizable %s", e.Token, e.Want)
}

// Parser converts natural-language schedule phrases into canonical recurrence
// records and back. A Parser is reusable across calls; the accumulator it
// builds is reset on every Parse.
type Parser struct {
	now          time.Time
	daytimeStart int
	daytimeEnd   int
	logger       *slog.Logger
	engine       *expand.Engine
	casual       *when.Parser

	d *descriptor
}

// New creates a parser with default configuration.
func New() *Parser { return NewWithConfig(Config{}) }

// NewWithConfig creates a parser with custom configuration.
func NewWithConfig(cfg Config) *Parser {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.DaytimeStart == 0 {
		cfg.DaytimeStart = 8
	}
	if cfg.DaytimeEnd == 0 {
		cfg.DaytimeEnd = 19
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	casual := when.New(nil)
	casual.Add(en.All...)
	casual.Add(common.All...)
	return &Parser{
		now:          cfg.Now,
		daytimeStart: cfg.DaytimeStart,
		daytimeEnd:   cfg.DaytimeEnd,
		logger:       cfg.Logger,
		engine:       expand.New(),
		casual:       casual,
	}
}

// sub creates an isolated parser for recursive sub-phrases (exception
// clauses, singleton resolution) sharing configuration but not state.
func (p *Parser) sub() *Parser {
	return &Parser{
		now:          p.now,
		daytimeStart: p.daytimeStart,
		daytimeEnd:   p.daytimeEnd,
		logger:       p.logger,
		engine:       p.engine,
		casual:       p.casual,
	}
}

// Parse resolves a phrase to a recurrence record, a single timestamp, or
// nothing. A nil Result with a nil error means the phrase was not
// recognized; an error carries the same meaning and callers may treat both
// identically.
func (p *Parser) Parse(phrase string) (*Result, error) {
	p.d = &descriptor{}
	if strings.TrimSpace(phrase) == "" {
		return nil, nil
	}
	s := rewriteBeginEnd(normalize(phrase))
	p.logger.Debug("normalized phrase", "text", s)

	event, ok, err := p.extractClauses(s)
	if err != nil || !ok {
		return nil, err
	}

	recurring, err := p.classifyEvent(event)
	if err != nil {
		return nil, err
	}
	if recurring {
		p.extractTimeOfDay(event)
		rec := p.d.rfcRecord(p)
		if rec == "" {
			return nil, nil
		}
		p.logger.Debug("parsed recurrence", "record", rec)
		return &Result{Rule: rec}, nil
	}

	datePart := strings.TrimSpace(reAtTime.ReplaceAllString(s, ""))
	if t, found := p.resolveDate(datePart); found {
		if merged, withTime := p.mergeTime(s, t); withTime {
			return &Result{Date: merged}, nil
		}
		return &Result{Date: t}, nil
	}
	if merged, withTime := p.mergeTime(s, p.now); withTime {
		return &Result{Date: merged}, nil
	}
	return nil, nil
}

// extractClauses peels structural clauses off the phrase in fixed priority
// order (exceptions, then start/end, then trailing end, then counts) and
// returns the remaining event clause.
func (p *Parser) extractClauses(s string) (string, bool, error) {
	if m := matchGroups(reExcept, s); m != nil {
		event := strings.TrimSpace(m["event"])
		except := strings.TrimSpace(m["except"])
		if event == "" || except == "" {
			return "", false, nil
		}
		if err := p.parseExceptions(except); err != nil {
			return "", false, err
		}
		s = event
	}

	if m := matchGroups(reStartEnd, s); m != nil {
		start, ok1 := p.resolveDate(m["starting"])
		end, ok2 := p.resolveDate(m["ending"])
		if ok1 && ok2 {
			p.d.dtstart = &start
			until := fixUntil(start, end)
			p.d.until = &until
			return strings.TrimSpace(m["event"]), true, nil
		}
	}
	if m := matchGroups(reStartEvent, s); m != nil {
		if t, found := p.resolveDate(m["starting"]); found {
			p.d.dtstart = &t
			return strings.TrimSpace(m["event"]), true, nil
		}
	}
	if m := matchGroups(reEventStart, s); m != nil {
		if t, found := p.resolveDate(m["starting"]); found {
			p.d.dtstart = &t
			return strings.TrimSpace(m["event"]), true, nil
		}
	}
	if m := matchGroups(reFromTo, s); m != nil {
		start, ok1 := p.resolveDate(m["starting"])
		end, ok2 := p.resolveDate(m["ending"])
		if ok1 && ok2 {
			p.d.dtstart = &start
			until := fixUntil(start, end)
			p.d.until = &until
			return strings.TrimSpace(m["event"]), true, nil
		}
	}
	if m := matchGroups(reOtherEnd, s); m != nil {
		if t, found := p.resolveDate(m["ending"]); found {
			if p.d.dtstart != nil {
				t = fixUntil(*p.d.dtstart, t)
			}
			p.d.until = &t
			return strings.TrimSpace(m["other"]), true, nil
		}
	}

	if m := matchGroups(reCount, s); m != nil {
		if m["twice"] != "" {
			p.d.count = 2
			return strings.TrimSpace(m["event"]), true, nil
		}
		n, err := getNumber(strings.TrimSpace(m["count"]))
		if err != nil {
			return "", false, err
		}
		p.d.count = n
		return strings.TrimSpace(m["event"]), true, nil
	}
	if m := matchGroups(reCountUnit1, s); m != nil {
		until := p.addUnits(p.now, m["unit"], 1)
		p.d.until = &until
		return strings.TrimSpace(m["event"]), true, nil
	}
	if m := matchGroups(reCountUnitN, s); m != nil {
		n, err := getNumber(strings.TrimSpace(m["count"]))
		if err != nil {
			return "", false, err
		}
		until := p.addUnits(p.now, m["unit"], n)
		p.d.until = &until
		return strings.TrimSpace(m["event"]), true, nil
	}

	return s, true, nil
}

// parseExceptions resolves the clause after "except". A clause that parses
// as a recurrence becomes a nested exception rule; otherwise it is split on
// "and" into concrete dates and partial month markers. An unresolvable piece
// fails the whole phrase.
func (p *Parser) parseExceptions(clause string) error {
	sub := p.sub()
	if res, err := sub.Parse(clause); err == nil && res != nil && res.IsRecurrence() {
		if m := reRRuleLine.FindStringSubmatch(res.Rule); m != nil {
			p.d.exrule = m[1]
			return nil
		}
	}
	for _, piece := range strings.Split(clause, " and ") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if m := matchGroups(rePartialMonth, piece); m != nil {
			month, err := getMonth(m["moy"])
			if err != nil {
				return err
			}
			year := 0
			if m["year"] != "" {
				year, _ = strconv.Atoi(m["year"])
			}
			p.d.exdates = append(p.d.exdates, exceptionDate{month: month, year: year})
			continue
		}
		t, found := p.resolveDate(piece)
		if !found {
			return fmt.Errorf("unresolvable exception clause %q", piece)
		}
		p.d.exdates = append(p.d.exdates, exceptionDate{at: t})
	}
	if len(p.d.exdates) == 0 {
		return fmt.Errorf("empty exception clause %q", clause)
	}
	return nil
}

// matchGroups runs re against s and returns its named captures, or nil when
// there is no match.
func matchGroups(re *regexp.Regexp, s string) map[string]string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	out := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(m) && out[name] == "" {
			out[name] = m[i]
		}
	}
	return out
}
