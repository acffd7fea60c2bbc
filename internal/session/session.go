package session

import (
	"fmt"

	"github.com/qhwu/CN-Trade-Sessions/internal/hhmm"
)

// Session is an immutable trading-hours model for one market session.
// All stored windows are on the canonical timeline: declared wall-clock
// times shifted by offsetMin so that a session crossing midnight (e.g.
// the night session 2100-0230) becomes a single monotonic interval and
// interval math never has to special-case wraparound.
type Session struct {
	id        string
	name      string
	offsetMin int
	auction   *Window
	sections  []Window

	// tradingMin caches TradingMinutes. Zero doubles as "not computed",
	// so a genuinely zero-length session recomputes on every call; the
	// recomputation is idempotent and cheap.
	tradingMin int
}

// New builds a Session from its wire spec, shifting every declared time
// onto the canonical timeline and validating the result. Sections must
// come out ascending and non-overlapping in canonical space; a definition
// that does not is rejected, not repaired.
func New(id string, spec Spec) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("session %s: name is required", id)
	}
	if len(spec.Sections) == 0 {
		return nil, fmt.Errorf("session %s: sections are required", id)
	}

	s := &Session{id: id, name: spec.Name, offsetMin: spec.Offset}

	if spec.Auction != nil {
		w, err := s.newWindow(*spec.Auction)
		if err != nil {
			return nil, fmt.Errorf("session %s: auction: %w", id, err)
		}
		s.auction = &w
	}
	for i, ws := range spec.Sections {
		w, err := s.newWindow(ws)
		if err != nil {
			return nil, fmt.Errorf("session %s: section %d: %w", id, i, err)
		}
		if i > 0 && w.Start <= s.sections[i-1].End {
			return nil, fmt.Errorf("session %s: section %d out of order or overlapping", id, i)
		}
		s.sections = append(s.sections, w)
	}

	// Warm the cache so reads after load never write.
	s.TradingMinutes()
	return s, nil
}

func (s *Session) newWindow(ws WindowSpec) (Window, error) {
	if !hhmm.Valid(ws.From) || !hhmm.Valid(ws.To) {
		return Window{}, fmt.Errorf("invalid time %d-%d", ws.From, ws.To)
	}
	w := Window{Start: s.OffsetTime(ws.From), End: s.OffsetTime(ws.To)}
	if w.Start > w.End {
		return Window{}, fmt.Errorf("window %d-%d still wraps midnight under offset %d", ws.From, ws.To, s.offsetMin)
	}
	return w, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Name() string { return s.name }

func (s *Session) Offset() int { return s.offsetMin }

// Auction returns the call-auction window, if the session declares one.
// The auction is tracked separately and never counts as a trading section.
func (s *Session) Auction() (Window, bool) {
	if s.auction == nil {
		return Window{}, false
	}
	return *s.auction, true
}

// Sections returns a copy of the canonical trading sections in order.
func (s *Session) Sections() []Window {
	return append([]Window(nil), s.sections...)
}

// OffsetTime shifts a declared wall-clock time onto the canonical
// timeline, wrapping on the 1440-minute ring.
func (s *Session) OffsetTime(v int) int {
	return hhmm.FromMinutes(wrap(hhmm.ToMinutes(v) + s.offsetMin))
}

// OriginalTime is the exact inverse of OffsetTime: it maps a canonical
// time back to the declared wall-clock convention.
func (s *Session) OriginalTime(v int) int {
	return hhmm.FromMinutes(wrap(hhmm.ToMinutes(v) - s.offsetMin))
}

func wrap(min int) int {
	min %= hhmm.MinutesPerDay
	if min < 0 {
		min += hhmm.MinutesPerDay
	}
	return min
}

// OpenTime returns the first section's start, converted back to
// wall-clock form unless canonical is true. Zero when the session has no
// sections.
func (s *Session) OpenTime(canonical bool) int {
	if len(s.sections) == 0 {
		return 0
	}
	t := s.sections[0].Start
	if canonical {
		return t
	}
	return s.OriginalTime(t)
}

// CloseTime returns the last section's end, same conversion rule as
// OpenTime.
func (s *Session) CloseTime(canonical bool) int {
	if len(s.sections) == 0 {
		return 0
	}
	t := s.sections[len(s.sections)-1].End
	if canonical {
		return t
	}
	return s.OriginalTime(t)
}

// TradingMinutes is the total tradable length of the session in minutes,
// excluding gaps between sections.
func (s *Session) TradingMinutes() int {
	if s.tradingMin == 0 {
		total := 0
		for _, w := range s.sections {
			total += w.Minutes()
		}
		s.tradingMin = total
	}
	return s.tradingMin
}

func (s *Session) TradingSeconds() int {
	return s.TradingMinutes() * 60
}

// SectionIndex returns the position of the section containing the
// declared wall-clock time, inclusive at both ends, or -1.
func (s *Session) SectionIndex(v int) int {
	if !hhmm.Valid(v) {
		return -1
	}
	t := s.OffsetTime(v)
	for i, w := range s.sections {
		if w.Contains(t) {
			return i
		}
	}
	return -1
}

// IsFirstOfSection reports whether the declared time is the opening
// instant of some section.
func (s *Session) IsFirstOfSection(v int) bool {
	if !hhmm.Valid(v) {
		return false
	}
	t := s.OffsetTime(v)
	for _, w := range s.sections {
		if t == w.Start {
			return true
		}
	}
	return false
}

// IsLastOfSection reports whether the declared time is the closing
// instant of some section.
func (s *Session) IsLastOfSection(v int) bool {
	if !hhmm.Valid(v) {
		return false
	}
	t := s.OffsetTime(v)
	for _, w := range s.sections {
		if t == w.End {
			return true
		}
	}
	return false
}

// IsInTradingTime reports whether the declared time falls inside any
// section. With strict set, the exact closing instant of a section counts
// as outside, which lets callers distinguish "the bar closing at this
// instant" from "a bar still open".
func (s *Session) IsInTradingTime(v int, strict bool) bool {
	if s.TimeToMinutes(v) == -1 {
		return false
	}
	if strict && s.IsLastOfSection(v) {
		return false
	}
	return true
}

// TimeToMinutes converts a declared wall-clock time to elapsed trading
// minutes since session open, skipping gaps between sections. Returns -1
// when the time is not inside any section (lunch break, overnight gap).
func (s *Session) TimeToMinutes(v int) int {
	if !hhmm.Valid(v) {
		return -1
	}
	t := s.OffsetTime(v)
	elapsed := 0
	for _, w := range s.sections {
		if w.Contains(t) {
			return elapsed + (hhmm.Hour(t)-hhmm.Hour(w.Start))*60 + hhmm.Minute(t) - hhmm.Minute(w.Start)
		}
		elapsed += w.Minutes()
	}
	return -1
}

// MinutesToTime converts elapsed trading minutes back to a wall-clock
// time; it is the inverse of TimeToMinutes up to the boundary policy.
// At an exact section boundary the two policies diverge: with headFirst
// false the result is the closing time of the section just consumed
// ("label the bar by its close"); with headFirst true resolution is
// deferred to the next section and yields its opening time ("label the
// bar by its open"). Past the end of the session the close time is
// returned; negative minutes resolve to the open time.
func (s *Session) MinutesToTime(minutes int, headFirst bool) int {
	if minutes < 0 {
		return s.OpenTime(false)
	}
	remaining := minutes
	for _, w := range s.sections {
		d := w.Minutes()
		if remaining >= d {
			remaining -= d
			if !headFirst && remaining == 0 {
				return s.OriginalTime(w.End)
			}
			continue
		}
		return s.OriginalTime(hhmm.FromMinutes(hhmm.ToMinutes(w.Start) + remaining))
	}
	return s.CloseTime(false)
}

// Describe emits the session's wire shape with every time converted back
// to the declared wall-clock convention, regardless of the internal
// canonical representation. The result matches what was configured and is
// what gets handed across process boundaries to downstream consumers.
func (s *Session) Describe() Spec {
	d := Spec{Name: s.name, Offset: s.offsetMin}
	if s.auction != nil {
		d.Auction = &WindowSpec{
			From: s.OriginalTime(s.auction.Start),
			To:   s.OriginalTime(s.auction.End),
		}
	}
	for _, w := range s.sections {
		d.Sections = append(d.Sections, WindowSpec{
			From: s.OriginalTime(w.Start),
			To:   s.OriginalTime(w.End),
		})
	}
	return d
}
