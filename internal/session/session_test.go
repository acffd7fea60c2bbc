package session

import (
	"reflect"
	"testing"
)

func daySpec() Spec {
	return Spec{
		Name:   "day",
		Offset: 0,
		Sections: []WindowSpec{
			{From: 900, To: 1130},
			{From: 1330, To: 1500},
		},
	}
}

func nightSpec() Spec {
	return Spec{
		Name:   "night",
		Offset: -180,
		Sections: []WindowSpec{
			{From: 2100, To: 200},
		},
	}
}

func TestDaySession(t *testing.T) {
	s, err := New("TRADING", daySpec())
	if err != nil {
		t.Fatal(err)
	}

	if got := s.OpenTime(false); got != 900 {
		t.Fatalf("OpenTime=%d want=900", got)
	}
	if got := s.CloseTime(false); got != 1500 {
		t.Fatalf("CloseTime=%d want=1500", got)
	}
	if got := s.TradingMinutes(); got != 240 {
		t.Fatalf("TradingMinutes=%d want=240", got)
	}
	if got := s.TradingSeconds(); got != 240*60 {
		t.Fatalf("TradingSeconds=%d", got)
	}
	if got := s.TimeToMinutes(1000); got != 60 {
		t.Fatalf("TimeToMinutes(1000)=%d want=60", got)
	}
	// Lunch break.
	if got := s.TimeToMinutes(1200); got != -1 {
		t.Fatalf("TimeToMinutes(1200)=%d want=-1", got)
	}
	if got := s.TimeToMinutes(1400); got != 150+30 {
		t.Fatalf("TimeToMinutes(1400)=%d want=180", got)
	}
}

func TestMinutesToTimeBoundaryPolicy(t *testing.T) {
	s, err := New("TRADING", daySpec())
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		minutes   int
		headFirst bool
		want      int
	}{
		{0, false, 900},
		{0, true, 900},
		{60, false, 1000},
		{60, true, 1000},
		// The exact end of the morning section: tail policy labels it by
		// the close, head policy by the afternoon open.
		{150, false, 1130},
		{150, true, 1330},
		{180, false, 1400},
		{180, true, 1400},
		// Full session length resolves to the close either way.
		{240, false, 1500},
		{240, true, 1500},
		// Past the end falls back to the close.
		{999, false, 1500},
		{999, true, 1500},
		// Negative resolves to the open.
		{-5, false, 900},
	}
	for _, tc := range cases {
		if got := s.MinutesToTime(tc.minutes, tc.headFirst); got != tc.want {
			t.Fatalf("MinutesToTime(%d, headFirst=%v)=%d want=%d", tc.minutes, tc.headFirst, got, tc.want)
		}
	}
}

func TestNightSession(t *testing.T) {
	s, err := New("NIGHT", nightSpec())
	if err != nil {
		t.Fatal(err)
	}

	// 2100-0200 shifted back 3h must be monotonic on the canonical axis.
	secs := s.Sections()
	if len(secs) != 1 {
		t.Fatalf("sections=%d want=1", len(secs))
	}
	if secs[0].Start > secs[0].End {
		t.Fatalf("canonical section wraps: %d-%d", secs[0].Start, secs[0].End)
	}
	if got := s.OriginalTime(secs[0].Start); got != 2100 {
		t.Fatalf("OriginalTime(start)=%d want=2100", got)
	}
	if got := s.OriginalTime(secs[0].End); got != 200 {
		t.Fatalf("OriginalTime(end)=%d want=200", got)
	}

	if got := s.OpenTime(false); got != 2100 {
		t.Fatalf("OpenTime=%d want=2100", got)
	}
	if got := s.CloseTime(false); got != 200 {
		t.Fatalf("CloseTime=%d want=200", got)
	}
	if got := s.TradingMinutes(); got != 300 {
		t.Fatalf("TradingMinutes=%d want=300", got)
	}

	// Elapsed minutes accumulate across midnight without wraparound.
	if got := s.TimeToMinutes(2200); got != 60 {
		t.Fatalf("TimeToMinutes(2200)=%d want=60", got)
	}
	if got := s.TimeToMinutes(100); got != 240 {
		t.Fatalf("TimeToMinutes(100)=%d want=240", got)
	}
	if got := s.TimeToMinutes(2000); got != -1 {
		t.Fatalf("TimeToMinutes(2000)=%d want=-1", got)
	}
	if got := s.MinutesToTime(300, false); got != 200 {
		t.Fatalf("MinutesToTime(300)=%d want=200", got)
	}
	if got := s.MinutesToTime(90, true); got != 2230 {
		t.Fatalf("MinutesToTime(90)=%d want=2230", got)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, off := range []int{-3000, -1500, -720, -180, -1, 0, 1, 90, 720, 1440, 2881} {
		s := &Session{offsetMin: off}
		for h := 0; h < 24; h++ {
			for m := 0; m < 60; m++ {
				v := h*100 + m
				if got := s.OriginalTime(s.OffsetTime(v)); got != v {
					t.Fatalf("offset=%d: OriginalTime(OffsetTime(%d))=%d", off, v, got)
				}
			}
		}
	}
}

func TestBoundaryMembership(t *testing.T) {
	for _, spec := range []Spec{daySpec(), nightSpec()} {
		s, err := New("S", spec)
		if err != nil {
			t.Fatal(err)
		}
		for i, w := range s.Sections() {
			start := s.OriginalTime(w.Start)
			end := s.OriginalTime(w.End)

			if !s.IsInTradingTime(start, false) {
				t.Fatalf("%s section %d: start %d not in trading time", spec.Name, i, start)
			}
			if !s.IsInTradingTime(end, false) {
				t.Fatalf("%s section %d: end %d not in trading time", spec.Name, i, end)
			}
			// Strict mode excludes the exact closing instant.
			if s.IsInTradingTime(end, true) {
				t.Fatalf("%s section %d: end %d in strict trading time", spec.Name, i, end)
			}
			if !s.IsFirstOfSection(start) {
				t.Fatalf("%s section %d: start %d not first-of-section", spec.Name, i, start)
			}
			if !s.IsLastOfSection(end) {
				t.Fatalf("%s section %d: end %d not last-of-section", spec.Name, i, end)
			}
			if got := s.SectionIndex(start); got != i {
				t.Fatalf("%s SectionIndex(%d)=%d want=%d", spec.Name, start, got, i)
			}
		}
	}
}

func TestDurationConsistency(t *testing.T) {
	for _, spec := range []Spec{daySpec(), nightSpec()} {
		s, err := New("S", spec)
		if err != nil {
			t.Fatal(err)
		}
		if got := s.TimeToMinutes(s.CloseTime(false)); got != s.TradingMinutes() {
			t.Fatalf("%s: TimeToMinutes(close)=%d TradingMinutes=%d", spec.Name, got, s.TradingMinutes())
		}
	}
}

func TestSectionIndex(t *testing.T) {
	s, err := New("TRADING", daySpec())
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		v    int
		want int
	}{
		{900, 0},
		{1000, 0},
		{1130, 0},
		{1200, -1},
		{1330, 1},
		{1500, 1},
		{1501, -1},
		{2575, -1}, // out of domain
		{960, -1},  // minute >= 60
		{-1, -1},
	}
	for _, tc := range cases {
		if got := s.SectionIndex(tc.v); got != tc.want {
			t.Fatalf("SectionIndex(%d)=%d want=%d", tc.v, got, tc.want)
		}
	}
}

func TestOutOfDomainQueries(t *testing.T) {
	s, err := New("TRADING", daySpec())
	if err != nil {
		t.Fatal(err)
	}
	if got := s.TimeToMinutes(2460); got != -1 {
		t.Fatalf("TimeToMinutes(2460)=%d want=-1", got)
	}
	if s.IsInTradingTime(975, false) {
		t.Fatal("IsInTradingTime(975) should be false")
	}
	if s.IsFirstOfSection(-900) || s.IsLastOfSection(-900) {
		t.Fatal("negative time should not match any boundary")
	}
}

func TestAuctionWindow(t *testing.T) {
	spec := daySpec()
	spec.Auction = &WindowSpec{From: 915, To: 925}
	s, err := New("TRADING", spec)
	if err != nil {
		t.Fatal(err)
	}

	a, ok := s.Auction()
	if !ok {
		t.Fatal("auction missing")
	}
	if a.Start != 915 || a.End != 925 {
		t.Fatalf("auction=%d-%d", a.Start, a.End)
	}
	// The auction never counts as a trading section.
	if got := s.SectionIndex(920); got != -1 {
		t.Fatalf("SectionIndex(920)=%d want=-1", got)
	}
	if got := s.TradingMinutes(); got != 240 {
		t.Fatalf("TradingMinutes=%d want=240", got)
	}
}

func TestDescribe(t *testing.T) {
	spec := nightSpec()
	spec.Auction = &WindowSpec{From: 2055, To: 2059}
	s, err := New("NIGHT", spec)
	if err != nil {
		t.Fatal(err)
	}

	d := s.Describe()
	want := Spec{
		Name:     "night",
		Offset:   -180,
		Auction:  &WindowSpec{From: 2055, To: 2059},
		Sections: []WindowSpec{{From: 2100, To: 200}},
	}
	if !reflect.DeepEqual(d, want) {
		t.Fatalf("Describe=%+v want=%+v", d, want)
	}
}

func TestNewRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		id   string
		spec Spec
	}{
		{"empty id", "", daySpec()},
		{"missing name", "S", Spec{Sections: []WindowSpec{{From: 900, To: 1130}}}},
		{"missing sections", "S", Spec{Name: "s"}},
		{"invalid minute", "S", Spec{Name: "s", Sections: []WindowSpec{{From: 960, To: 1100}}}},
		{"hour out of range", "S", Spec{Name: "s", Sections: []WindowSpec{{From: 900, To: 2400}}}},
		{"wraps without offset", "S", Spec{Name: "s", Sections: []WindowSpec{{From: 2100, To: 200}}}},
		{"overlapping sections", "S", Spec{Name: "s", Sections: []WindowSpec{{From: 900, To: 1130}, {From: 1100, To: 1500}}}},
		{"out of order sections", "S", Spec{Name: "s", Sections: []WindowSpec{{From: 1330, To: 1500}, {From: 900, To: 1130}}}},
		{"bad auction", "S", Spec{Name: "s", Auction: &WindowSpec{From: 975, To: 925}, Sections: []WindowSpec{{From: 900, To: 1130}}}},
	}
	for _, tc := range cases {
		if _, err := New(tc.id, tc.spec); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestEmptySessionSentinels(t *testing.T) {
	var s Session
	if got := s.OpenTime(false); got != 0 {
		t.Fatalf("OpenTime=%d want=0", got)
	}
	if got := s.CloseTime(true); got != 0 {
		t.Fatalf("CloseTime=%d want=0", got)
	}
	if got := s.TimeToMinutes(1000); got != -1 {
		t.Fatalf("TimeToMinutes=%d want=-1", got)
	}
}
