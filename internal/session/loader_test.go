package session

import (
	"os"
	"path/filepath"
	"testing"
)

const sessionsYAML = `
TRADING:
  name: day
  offset: 0
  auction: { from: 915, to: 925 }
  sections:
    - { from: 930, to: 1130 }
    - { from: 1300, to: 1500 }

NIGHT:
  name: night
  offset: -180
  sections:
    - { from: 2100, to: 230 }
  products: [rb, hc]
`

func TestParse(t *testing.T) {
	specs, err := Parse([]byte(sessionsYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 {
		t.Fatalf("specs=%d want=2", len(specs))
	}

	day := specs["TRADING"]
	if day.Name != "day" || len(day.Sections) != 2 || day.Auction == nil {
		t.Fatalf("day=%+v", day)
	}
	if day.Auction.From != 915 || day.Auction.To != 925 {
		t.Fatalf("auction=%+v", day.Auction)
	}

	night := specs["NIGHT"]
	if night.Offset != -180 || len(night.Products) != 2 {
		t.Fatalf("night=%+v", night)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("- just\n- a\n- list\n")); err == nil {
		t.Fatal("expected error for non-mapping document")
	}
	if _, err := Parse([]byte("")); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.yaml")
	if err := os.WriteFile(path, []byte(sessionsYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	specs, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry()
	if err := reg.Load(specs); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Get("NIGHT"); !ok {
		t.Fatal("NIGHT missing after load")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
