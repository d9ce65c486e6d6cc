package profiling

import (
	"log"
	"strings"
	"testing"
	"time"
)

func TestAddAccumulatesUnderName(t *testing.T) {
	p := New(log.Default(), time.Hour)
	p.Add("a", 10*time.Millisecond)
	p.Add("a", 5*time.Millisecond)
	p.Add("b", 1*time.Millisecond)

	ss := p.Snapshot()
	if ss["a"] != 15*time.Millisecond {
		t.Fatalf("a = %v, want 15ms", ss["a"])
	}
	if ss["b"] != 1*time.Millisecond {
		t.Fatalf("b = %v, want 1ms", ss["b"])
	}
}

func TestTrackRecordsElapsedTime(t *testing.T) {
	p := New(log.Default(), time.Hour)
	stop := p.Track("op")
	time.Sleep(time.Millisecond)
	stop()

	if p.Total() <= 0 {
		t.Fatal("expected a positive recorded duration")
	}
}

func TestResetClearsTotals(t *testing.T) {
	p := New(log.Default(), time.Hour)
	p.Add("a", time.Millisecond)
	p.Reset()
	if len(p.Snapshot()) != 0 {
		t.Fatal("expected totals to be empty after Reset")
	}
}

func TestSumWithPrefixMatchesOnlyPrefixedNames(t *testing.T) {
	p := New(log.Default(), time.Hour)
	p.Add("renderer.draw", 4*time.Millisecond)
	p.Add("renderer.cull", 1*time.Millisecond)
	p.Add("mesher.Build", 2*time.Millisecond)

	sum := p.SumWithPrefix("renderer.")
	if sum != 5*time.Millisecond {
		t.Fatalf("sum = %v, want 5ms", sum)
	}
}

func TestTopNOrdersBySlowestFirst(t *testing.T) {
	p := New(log.Default(), time.Hour)
	p.Add("fast", time.Millisecond)
	p.Add("slow", 20*time.Millisecond)

	top := p.TopN(1)
	if !strings.HasPrefix(top, "slow:") {
		t.Fatalf("TopN(1) = %q, want it to start with \"slow:\"", top)
	}
}

func TestAddLogsWhenOverSlowThreshold(t *testing.T) {
	var buf strings.Builder
	logger := log.New(&buf, "", 0)
	p := New(logger, time.Millisecond)

	p.Add("slow.op", 5*time.Millisecond)

	if !strings.Contains(buf.String(), "slow.op") {
		t.Fatalf("expected a logged overrun warning mentioning slow.op, got %q", buf.String())
	}
}

func TestAddDoesNotLogUnderSlowThreshold(t *testing.T) {
	var buf strings.Builder
	logger := log.New(&buf, "", 0)
	p := New(logger, time.Second)

	p.Add("fast.op", time.Millisecond)

	if buf.Len() != 0 {
		t.Fatalf("expected no log output for an operation under threshold, got %q", buf.String())
	}
}
