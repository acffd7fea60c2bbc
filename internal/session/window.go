package session

import "github.com/qhwu/CN-Trade-Sessions/internal/hhmm"

// Window is one contiguous tradable interval within a day. Both ends are
// packed hour*100+minute values already on the owning session's canonical
// (offset-shifted) timeline, so Start <= End always holds; cross-midnight
// sessions are normalized by the session offset before a Window is built.
type Window struct {
	Start int
	End   int
}

// Minutes is the window length in minutes.
func (w Window) Minutes() int {
	return (hhmm.Hour(w.End)-hhmm.Hour(w.Start))*60 + hhmm.Minute(w.End) - hhmm.Minute(w.Start)
}

// Contains reports whether canonical time t falls inside the window,
// inclusive at both ends.
func (w Window) Contains(t int) bool {
	return t >= w.Start && t <= w.End
}
