package domain

import (
	"math"
	"testing"
	"time"

	themedto "typetrack/internal/modules/theme/dto"
)

func TestAccumulatorCountsShortGapsOnly(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)
	var acc Accumulator
	if _, counted := acc.Record(base); !counted {
		t.Fatalf("first keystroke only marks the start")
	}
	if acc.Accumulated() != 0 {
		t.Fatalf("first keystroke must not add time")
	}
	acc.Record(base.Add(300 * time.Millisecond))
	acc.Record(base.Add(1300 * time.Millisecond))
	if _, counted := acc.Record(base.Add(5 * time.Second)); counted {
		t.Fatalf("gap over one second must be discarded")
	}
	acc.Record(base.Add(5500 * time.Millisecond))
	if got := acc.Accumulated(); got != 1800*time.Millisecond {
		t.Fatalf("expected 1.8s accumulated, got %s", got)
	}
}

func TestDrainResetsButKeepsPrevious(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)
	var acc Accumulator
	acc.Record(base)
	acc.Record(base.Add(time.Second))
	if got := acc.Drain(); got != time.Second {
		t.Fatalf("expected one second drained, got %s", got)
	}
	if acc.Accumulated() != 0 {
		t.Fatalf("drain must reset")
	}
	acc.Record(base.Add(1500 * time.Millisecond))
	if got := acc.Accumulated(); got != 500*time.Millisecond {
		t.Fatalf("expected gap measured from the last keystroke, got %s", got)
	}
}

func TestMinutesAddsBonus(t *testing.T) {
	t.Parallel()
	if got := Minutes(60 * time.Second); math.Abs(got-1.00126) > 1e-9 {
		t.Fatalf("expected 1.00126, got %v", got)
	}
	if got := Minutes(30 * time.Second); math.Abs(got-0.50126) > 1e-9 {
		t.Fatalf("expected 0.50126, got %v", got)
	}
}

func TestThemeWatchComparesMainAndBackground(t *testing.T) {
	t.Parallel()
	var w ThemeWatch
	first := themedto.Theme{MainColor: "e2b714", BgColor: "323437", TextColor: "d1d0c5"}
	if !w.Changed(first) {
		t.Fatalf("first observation must be sent")
	}
	w.Remember(first)
	textOnly := first
	textOnly.TextColor = "ffffff"
	if w.Changed(textOnly) {
		t.Fatalf("text color alone must not trigger a resend")
	}
	accent := first
	accent.MainColor = "ff0000"
	if !w.Changed(accent) {
		t.Fatalf("main color change must trigger a resend")
	}
	w.Forget()
	if !w.Changed(first) {
		t.Fatalf("forgotten watch must resend")
	}
}
